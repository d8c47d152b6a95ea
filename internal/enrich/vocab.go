package enrich

import "github.com/dshills/patternscout/pkg/types"

// contextVocabularies holds the keyword sets used both for query expansion
// and for relevance scoring of raw results.
var contextVocabularies = map[types.QueryContext][]string{
	types.ContextMobile: {
		"mobile", "touch", "gesture", "swipe", "tap", "device",
		"android", "ios", "viewport", "orientation",
	},
	types.ContextWeb: {
		"browser", "dom", "click", "selenium", "webdriver",
		"css", "responsive", "cross-browser", "iframe",
	},
	types.ContextAPI: {
		"endpoint", "rest", "request", "response", "status",
		"payload", "contract", "json", "schema",
	},
	types.ContextPerformance: {
		"latency", "load", "throughput", "benchmark", "stress",
		"memory", "profiling", "render",
	},
	types.ContextAccessibility: {
		"aria", "screen reader", "contrast", "keyboard", "wcag",
		"focus", "label", "semantic",
	},
	types.ContextGeneral: {
		"test", "verify", "assert", "coverage", "regression",
	},
}

// vocabularyFor returns the keyword set for a context, defaulting to the
// general vocabulary.
func vocabularyFor(qctx types.QueryContext) []string {
	if vocab, ok := contextVocabularies[qctx]; ok {
		return vocab
	}
	return contextVocabularies[types.ContextGeneral]
}

// DefaultAuthorityDomains lists recognized high-quality sources. Results
// hosted on these domains receive a fixed relevance bonus. Callers may
// replace the list through Config.
var DefaultAuthorityDomains = []string{
	"martinfowler.com",
	"testing.googleblog.com",
	"developer.mozilla.org",
	"web.dev",
	"selenium.dev",
	"playwright.dev",
	"docs.cypress.io",
	"appium.io",
}
