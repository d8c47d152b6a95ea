// Package enrich discovers test patterns from an external web search
// source and transforms them into the internal pattern shape.
//
// The service is cache-first: a deterministic fingerprint of the full query
// parameter set addresses a TTL-bounded cache entry, and only a miss
// reaches the network — always through the rate-limited retry client.
// Without an API credential the service short-circuits to an empty result
// with zero network I/O; that is a designed degraded mode, not an error.
package enrich

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dshills/patternscout/internal/cache"
	"github.com/dshills/patternscout/internal/webclient"
	"github.com/dshills/patternscout/pkg/types"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultCacheTTL    = time.Hour
	DefaultTrendingTTL = 15 * time.Minute
	DefaultSearchDepth = "basic"

	// authorityBonus is the fixed relevance bonus for results hosted on a
	// recognized authority domain.
	authorityBonus = 0.1
	// relevanceBase is the floor for any returned result; overlap with the
	// context vocabulary raises it from there.
	relevanceBase = 0.3
	// relevancePerMatch is the relevance gained per matched vocabulary
	// term, capped at relevanceCap before the authority bonus.
	relevancePerMatch = 0.12
	relevanceCap      = 0.9

	// domainBoostPerMatch and domainBoostCap shape the separate
	// domain-relevance boost so callers can re-weight it independently.
	domainBoostPerMatch = 0.05
	domainBoostCap      = 0.2
)

// Config configures the enrichment service.
type Config struct {
	APIKey           string
	SearchDepth      string // "basic" or "advanced"
	CacheTTL         time.Duration
	TrendingTTL      time.Duration
	AuthorityDomains []string
	// DomainVocabulary feeds the separate domain-relevance boost; empty
	// means no boost is applied.
	DomainVocabulary []string
}

// Service builds context-aware queries and scores external results.
type Service struct {
	cfg    Config
	client *webclient.Client
	cache  cache.Cache
	logger *slog.Logger
}

// New creates the enrichment service. client may be nil only when no API
// key is configured (the service then never issues network calls).
func New(cfg Config, client *webclient.Client, c cache.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SearchDepth == "" {
		cfg.SearchDepth = DefaultSearchDepth
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.TrendingTTL <= 0 {
		cfg.TrendingTTL = DefaultTrendingTTL
	}
	if cfg.AuthorityDomains == nil {
		cfg.AuthorityDomains = DefaultAuthorityDomains
	}
	if c == nil {
		c = cache.NewNoop()
	}
	return &Service{cfg: cfg, client: client, cache: c, logger: logger}
}

// rawResult is the external source's result shape.
type rawResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// Search returns external pattern candidates for the query. Degraded
// conditions (no credential, exhausted retries, unreachable source) yield
// an empty list; only caller mistakes return an error.
func (s *Service) Search(ctx context.Context, query types.SearchQuery) ([]*types.Pattern, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if s.cfg.APIKey == "" || s.client == nil {
		// Designed degraded mode: no credential means no network I/O.
		return []*types.Pattern{}, nil
	}

	key := cache.QueryFingerprint(query.Text, string(query.Context), query.Limit, query.Trending)
	if data, ok := s.cache.Get(ctx, key); ok {
		var patterns []*types.Pattern
		if err := json.Unmarshal(data, &patterns); err == nil {
			return patterns, nil
		}
		// A corrupt entry is treated as a miss and overwritten below.
	}

	reqBody := map[string]any{
		"query":        s.buildQuery(query),
		"search_depth": s.cfg.SearchDepth,
		"max_results":  query.Limit,
	}
	var resp struct {
		Results []rawResult `json:"results"`
	}
	if err := s.client.Do(ctx, http.MethodPost, "/search", reqBody, &resp); err != nil {
		s.logger.Warn("external pattern search unavailable, returning no candidates", "error", err)
		return []*types.Pattern{}, nil
	}

	patterns := make([]*types.Pattern, 0, len(resp.Results))
	for _, r := range resp.Results {
		patterns = append(patterns, s.transform(r, query))
	}

	ttl := s.cfg.CacheTTL
	if query.Trending {
		ttl = s.cfg.TrendingTTL
	}
	if data, err := json.Marshal(patterns); err == nil {
		s.cache.Set(ctx, key, data, ttl)
	}

	return patterns, nil
}

// buildQuery composes the search string from the query text, the context
// vocabulary, and quality hints.
func (s *Service) buildQuery(query types.SearchQuery) string {
	vocab := vocabularyFor(query.Context)
	hints := vocab
	if len(hints) > 3 {
		hints = hints[:3]
	}
	parts := append([]string{query.Text}, hints...)
	parts = append(parts, "testing patterns", "best practices")
	return strings.Join(parts, " ")
}

// transform converts one raw result into an external pattern candidate.
func (s *Service) transform(r rawResult, query types.SearchQuery) *types.Pattern {
	p := types.NewPattern("", r.Title, snippet(r.Content, 500))
	p.PatternType = types.PatternTypeExternal
	p.Source = types.SourceExternal
	p.URL = r.URL
	p.Tags = []string{string(query.Context)}
	p.Relevance = s.relevance(r, query.Context)
	p.DomainBoost = s.domainBoost(r)
	return p
}

// relevance blends context-vocabulary overlap with the authority-domain
// bonus. More matched terms never lower the score.
func (s *Service) relevance(r rawResult, qctx types.QueryContext) float64 {
	text := strings.ToLower(r.Title + " " + r.Content)

	matched := 0
	for _, term := range vocabularyFor(qctx) {
		if strings.Contains(text, term) {
			matched++
		}
	}

	score := relevanceBase + relevancePerMatch*float64(matched)
	if score > relevanceCap {
		score = relevanceCap
	}
	if s.isAuthority(r.URL) {
		score += authorityBonus
	}
	if score > 1 {
		score = 1
	}
	return score
}

// domainBoost scores matches against the configured domain vocabulary,
// kept separate from relevance so callers can re-weight it.
func (s *Service) domainBoost(r rawResult) float64 {
	if len(s.cfg.DomainVocabulary) == 0 {
		return 0
	}
	text := strings.ToLower(r.Title + " " + r.Content)
	matched := 0
	for _, term := range s.cfg.DomainVocabulary {
		if strings.Contains(text, strings.ToLower(term)) {
			matched++
		}
	}
	boost := domainBoostPerMatch * float64(matched)
	if boost > domainBoostCap {
		boost = domainBoostCap
	}
	return boost
}

// isAuthority reports whether the result URL is hosted on a recognized
// high-quality domain.
func (s *Service) isAuthority(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range s.cfg.AuthorityDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// snippet truncates s to at most n runes.
func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
