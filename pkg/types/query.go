package types

// QueryContext selects the vocabulary used for query expansion and
// relevance scoring against external search results.
type QueryContext string

const (
	ContextMobile        QueryContext = "mobile"
	ContextWeb           QueryContext = "web"
	ContextAPI           QueryContext = "api"
	ContextPerformance   QueryContext = "performance"
	ContextAccessibility QueryContext = "accessibility"
	ContextGeneral       QueryContext = "general"
)

// ValidContexts lists every recognized query context.
var ValidContexts = []QueryContext{
	ContextMobile,
	ContextWeb,
	ContextAPI,
	ContextPerformance,
	ContextAccessibility,
	ContextGeneral,
}

// Valid reports whether the context is one of the recognized values.
func (c QueryContext) Valid() bool {
	for _, v := range ValidContexts {
		if c == v {
			return true
		}
	}
	return false
}

// SearchQuery describes one pattern lookup.
type SearchQuery struct {
	Text      string
	Context   QueryContext
	Limit     int
	Threshold float64
	// Trending requests use a shorter cache TTL since their result sets
	// churn faster than stable queries.
	Trending bool
}

// Validate checks the query for caller mistakes.
func (q *SearchQuery) Validate() error {
	if q.Text == "" {
		return ErrEmptyQuery
	}
	if q.Limit <= 0 {
		return ErrInvalidLimit
	}
	if q.Threshold < 0 || q.Threshold > 1 {
		return ErrInvalidThreshold
	}
	if q.Context != "" && !q.Context.Valid() {
		return ErrUnknownContext
	}
	return nil
}
