package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Source identifies where a pattern candidate came from.
type Source string

const (
	// SourceInternal marks patterns retrieved from the local similarity index.
	SourceInternal Source = "internal"
	// SourceExternal marks patterns transformed from web search results.
	SourceExternal Source = "external"
)

// Pattern type tags assigned at creation time.
const (
	PatternTypeBase     = "base"     // Synthesized starter pattern for a component type
	PatternTypeLearned  = "learned"  // Persisted from prior discovery runs
	PatternTypeExternal = "external" // Transformed from an external search result
)

// Pattern is a reusable test strategy descriptor.
//
// ID and FeatureVector are immutable after creation. SimilarityScore,
// Relevance, DomainBoost, and FinalScore are set per-query and are not part
// of the pattern's identity. UsageCount and SuccessHistory are mutated only
// by the owning pattern store.
type Pattern struct {
	ID            string
	ComponentType string
	PatternType   string
	Description   string
	TestStrategy  string
	FeatureVector []float32
	Source        Source
	URL           string
	Tags          []string

	// Per-query scoring. SimilarityScore and Relevance are in [0, 1];
	// FinalScore is the blended ranking score and may exceed 1 after boosts.
	SimilarityScore float64
	Relevance       float64
	DomainBoost     float64
	FinalScore      float64

	// Store-owned counters.
	UsageCount     int64
	SuccessHistory []bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPattern creates a pattern with a content-derived ID. The ID is stable:
// identical content always yields the same identifier.
func NewPattern(componentType, description, testStrategy string) *Pattern {
	now := time.Now().UTC()
	return &Pattern{
		ID:            ContentID(componentType, description, testStrategy),
		ComponentType: componentType,
		Description:   description,
		TestStrategy:  testStrategy,
		Source:        SourceInternal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ContentID computes the stable identifier for pattern content.
func ContentID(componentType, description, testStrategy string) string {
	h := sha256.Sum256([]byte(componentType + "\x00" + description + "\x00" + testStrategy))
	return hex.EncodeToString(h[:])
}

// SuccessRate returns the average of the success history, or -1 when no
// history has been recorded. New patterns with no history are scored
// unscaled by the pattern scorer.
func (p *Pattern) SuccessRate() float64 {
	if len(p.SuccessHistory) == 0 {
		return -1
	}
	passed := 0
	for _, ok := range p.SuccessHistory {
		if ok {
			passed++
		}
	}
	return float64(passed) / float64(len(p.SuccessHistory))
}

// HasTag reports whether the pattern carries the given tag.
func (p *Pattern) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy of the pattern safe to mutate per-query. The feature
// vector and success history are copied so cached or stored patterns are
// never aliased by scoring.
func (p *Pattern) Clone() *Pattern {
	cp := *p
	if p.FeatureVector != nil {
		cp.FeatureVector = make([]float32, len(p.FeatureVector))
		copy(cp.FeatureVector, p.FeatureVector)
	}
	if p.SuccessHistory != nil {
		cp.SuccessHistory = make([]bool, len(p.SuccessHistory))
		copy(cp.SuccessHistory, p.SuccessHistory)
	}
	if p.Tags != nil {
		cp.Tags = make([]string, len(p.Tags))
		copy(cp.Tags, p.Tags)
	}
	return &cp
}
