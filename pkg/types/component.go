package types

import (
	"sort"
	"strings"
)

// ComponentDescriptor describes the UI component a caller wants test
// patterns for. Only Type is required.
type ComponentDescriptor struct {
	Type  string // e.g. "button", "list", "form"
	ID    string // e.g. "login_btn"
	Label string // Visible text or accessibility label

	// Behavioral hints used by the pattern scorer for domain agreement.
	Interactive  bool
	RequiresAuth bool
	RealTime     bool

	// Arbitrary framework attributes (enabled, placeholder, ...).
	Attributes map[string]string
}

// Validate checks required fields.
func (c *ComponentDescriptor) Validate() error {
	if c.Type == "" {
		return ErrEmptyComponentType
	}
	return nil
}

// FeatureText renders the descriptor as a deterministic text summary. The
// summary feeds both the embedding provider and the merge stage's duplicate
// comparison, so attribute ordering must not depend on map iteration.
func (c *ComponentDescriptor) FeatureText() string {
	parts := []string{c.Type}
	if c.ID != "" {
		parts = append(parts, "id="+c.ID)
	}
	if c.Label != "" {
		parts = append(parts, "label="+c.Label)
	}
	if c.Interactive {
		parts = append(parts, "interactive")
	}
	if c.RequiresAuth {
		parts = append(parts, "requires-auth")
	}
	if c.RealTime {
		parts = append(parts, "real-time")
	}
	if len(c.Attributes) > 0 {
		keys := make([]string, 0, len(c.Attributes))
		for k := range c.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, k+"="+c.Attributes[k])
		}
	}
	return strings.Join(parts, " ")
}
