package discovery

import (
	"fmt"

	"github.com/dshills/patternscout/pkg/types"
)

// baseTemplate is the starter test strategy synthesized when no stored or
// external pattern covers a component type.
type baseTemplate struct {
	description  string
	testStrategy string
}

var baseTemplates = map[string]baseTemplate{
	"button": {
		description:  "Tap the button and verify the expected state change occurs",
		testStrategy: "locate by id or label, tap, assert resulting state or navigation",
	},
	"input": {
		description:  "Enter valid and invalid text and verify validation feedback",
		testStrategy: "focus, type boundary values, assert validation messages and submitted value",
	},
	"form": {
		description:  "Submit the form with complete and incomplete data",
		testStrategy: "fill required fields, submit, assert success path; clear one field, assert error",
	},
	"list": {
		description:  "Scroll the list and verify item rendering and ordering",
		testStrategy: "scroll to both ends, assert item count, order, and empty-state rendering",
	},
	"modal": {
		description:  "Open and dismiss the modal and verify focus handling",
		testStrategy: "trigger open, assert visible content, dismiss via close and backdrop, assert focus returns",
	},
	"navigation": {
		description:  "Follow each navigation target and verify the destination",
		testStrategy: "activate each entry, assert destination renders, assert back navigation restores state",
	},
	"toggle": {
		description:  "Flip the toggle and verify the bound setting changes",
		testStrategy: "read initial state, flip, assert setting and persisted value, flip back",
	},
	"image": {
		description:  "Verify the image loads and has an accessible description",
		testStrategy: "assert load success, alt text presence, and fallback on broken source",
	},
}

// synthesizeBasePattern builds the starter pattern for a component. Known
// component types get a curated strategy; everything else gets a generic
// interact-and-assert template so discovery never comes back empty-handed.
func synthesizeBasePattern(component *types.ComponentDescriptor, vector []float32) *types.Pattern {
	tmpl, ok := baseTemplates[component.Type]
	if !ok {
		tmpl = baseTemplate{
			description:  fmt.Sprintf("Exercise the %s component and verify its primary behavior", component.Type),
			testStrategy: fmt.Sprintf("locate the %s, perform its primary interaction, assert the resulting state", component.Type),
		}
	}

	p := types.NewPattern(component.Type, tmpl.description, tmpl.testStrategy)
	p.PatternType = types.PatternTypeBase
	if vector != nil {
		p.FeatureVector = make([]float32, len(vector))
		copy(p.FeatureVector, vector)
	}
	if component.Interactive {
		p.Tags = append(p.Tags, "interaction")
	}
	if component.RequiresAuth {
		p.Tags = append(p.Tags, "auth")
	}
	if component.RealTime {
		p.Tags = append(p.Tags, "realtime")
	}
	// The base pattern is an exact answer for the requested component.
	p.SimilarityScore = 1.0
	return p
}
