// Package discovery is the pattern discovery facade.
//
// One Discover call runs the internal similarity lookup and the external
// enrichment lookup concurrently, scores both candidate sets, and merges
// them into a single bounded, deterministically ranked list. Degraded
// dependencies (missing credentials, unreachable backends) shrink the
// candidate pool; only caller mistakes and configuration errors cross the
// boundary as errors. When nothing matches, a starter pattern is
// synthesized and persisted so the same request is answered from the index
// next time.
package discovery

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/patternscout/internal/embedder"
	"github.com/dshills/patternscout/internal/enrich"
	"github.com/dshills/patternscout/internal/merge"
	"github.com/dshills/patternscout/internal/scorer"
	"github.com/dshills/patternscout/internal/simindex"
	"github.com/dshills/patternscout/internal/store"
	"github.com/dshills/patternscout/pkg/types"
)

// Construction errors.
var (
	ErrNilIndex = errors.New("similarity index is required")
	ErrNilStore = errors.New("pattern store is required")
)

// Deps are the engine's collaborators. Index and Store are required;
// Embedder and Enricher default to their degraded-but-working forms.
type Deps struct {
	Embedder *embedder.Embedder
	Index    simindex.Index
	Store    store.Store
	Enricher *enrich.Service
	Logger   *slog.Logger
}

// Engine coordinates one discovery pipeline. It is safe for concurrent use.
type Engine struct {
	cfg      Config
	embedder *embedder.Embedder
	index    simindex.Index
	store    store.Store
	enricher *enrich.Service
	scorer   *scorer.Scorer
	merger   *merge.Engine
	logger   *slog.Logger
}

// New creates an Engine. Configuration mistakes are the one error class
// this package refuses to absorb.
func New(cfg Config, deps Deps) (*Engine, error) {
	cfg = cfg.withDefaults()
	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 1 {
		return nil, types.ErrInvalidThreshold
	}
	if deps.Index == nil {
		return nil, ErrNilIndex
	}
	if deps.Store == nil {
		return nil, ErrNilStore
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	emb := deps.Embedder
	if emb == nil {
		emb = embedder.New(nil, nil, logger)
	}
	enr := deps.Enricher
	if enr == nil {
		// No credential: external lookups short-circuit to empty results.
		enr = enrich.New(enrich.Config{}, nil, nil, logger)
	}

	return &Engine{
		cfg:      cfg,
		embedder: emb,
		index:    deps.Index,
		store:    deps.Store,
		enricher: enr,
		scorer:   scorer.New(),
		merger:   merge.New(merge.Config{}),
		logger:   logger,
	}, nil
}

// Discover returns ranked test patterns for a component. Internal and
// external lookups run concurrently; if both come back empty a starter
// pattern is synthesized, persisted, and returned.
func (e *Engine) Discover(ctx context.Context, component types.ComponentDescriptor, qctx types.QueryContext) ([]*types.Pattern, error) {
	if err := component.Validate(); err != nil {
		return nil, err
	}
	qctx, err := normalizeContext(qctx)
	if err != nil {
		return nil, err
	}

	featureText := component.FeatureText()
	vector := e.embedder.Embed(ctx, featureText)

	internal, external, err := e.lookup(ctx, featureText, vector, qctx)
	if err != nil {
		return nil, err
	}

	e.scorer.ScoreAll(internal, &component)
	e.scorer.ScoreAll(external, &component)

	merged := e.merger.Merge(internal, external, e.cfg.MaxResults)
	if len(merged) > 0 {
		return merged, nil
	}

	base := synthesizeBasePattern(&component, vector)
	base.FinalScore = e.scorer.Score(base, &component)
	e.persistBase(ctx, base)
	return []*types.Pattern{base}, nil
}

// Search returns ranked patterns for a free-text query. No component is
// involved, so no agreement bonuses apply and nothing is synthesized on an
// empty result.
func (e *Engine) Search(ctx context.Context, text string, qctx types.QueryContext) ([]*types.Pattern, error) {
	if text == "" {
		return nil, types.ErrEmptyQuery
	}
	qctx, err := normalizeContext(qctx)
	if err != nil {
		return nil, err
	}

	vector := e.embedder.Embed(ctx, text)
	internal, external, err := e.lookup(ctx, text, vector, qctx)
	if err != nil {
		return nil, err
	}

	e.scorer.ScoreAll(internal, nil)
	e.scorer.ScoreAll(external, nil)
	return e.merger.Merge(internal, external, e.cfg.MaxResults), nil
}

// RecordOutcome appends one test run result to a pattern's success history.
func (e *Engine) RecordOutcome(ctx context.Context, patternID string, passed bool) error {
	if patternID == "" {
		return types.ErrPatternNotFound
	}
	err := e.store.AppendOutcome(ctx, patternID, passed)
	if errors.Is(err, store.ErrNotFound) {
		return types.ErrPatternNotFound
	}
	return err
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	var errs []error
	if err := e.embedder.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.index.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// lookup runs both candidate lookups concurrently and waits for both.
func (e *Engine) lookup(ctx context.Context, text string, vector []float32, qctx types.QueryContext) (internal, external []*types.Pattern, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		internal, err = e.lookupInternal(gctx, vector)
		return err
	})
	g.Go(func() error {
		var err error
		external, err = e.lookupExternal(gctx, text, qctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return internal, external, nil
}

// lookupInternal searches the similarity index and hydrates matches from
// the pattern store. Each retrieval bumps the stored usage counter.
func (e *Engine) lookupInternal(ctx context.Context, vector []float32) ([]*types.Pattern, error) {
	lctx, cancel := context.WithTimeout(ctx, e.cfg.LookupTimeout)
	defer cancel()

	matches, err := e.index.Search(lctx, vector, e.cfg.MaxResults, e.cfg.SimilarityThreshold)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}

	byID := make(map[string]*types.Pattern, len(matches))
	stored, err := e.store.GetPatterns(lctx, ids)
	if err != nil {
		e.logger.Warn("pattern store unavailable, serving index payloads without history", "error", err)
	} else {
		for _, p := range stored {
			byID[p.ID] = p
		}
	}

	patterns := make([]*types.Pattern, 0, len(matches))
	for _, m := range matches {
		p, ok := byID[m.ID]
		if !ok {
			// The index knows a pattern the store does not (remote backend
			// ahead of local state, or a store outage). The payload carries
			// enough to still serve it.
			if p = patternFromPayload(m); p == nil {
				continue
			}
		}
		p.Source = types.SourceInternal
		p.SimilarityScore = m.Score
		patterns = append(patterns, p)

		if err := e.store.IncrementUsage(lctx, m.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			e.logger.Warn("usage increment failed", "pattern", m.ID, "error", err)
		}
	}
	return patterns, nil
}

// lookupExternal asks the enrichment service for candidates. Degraded
// conditions surface as an empty list inside the service.
func (e *Engine) lookupExternal(ctx context.Context, text string, qctx types.QueryContext) ([]*types.Pattern, error) {
	lctx, cancel := context.WithTimeout(ctx, e.cfg.LookupTimeout)
	defer cancel()

	return e.enricher.Search(lctx, types.SearchQuery{
		Text:      text,
		Context:   qctx,
		Limit:     e.cfg.MaxResults,
		Threshold: e.cfg.SimilarityThreshold,
	})
}

// persistBase stores and indexes a synthesized pattern. Persistence
// failures are logged, not returned: the caller still gets the pattern.
func (e *Engine) persistBase(ctx context.Context, p *types.Pattern) {
	if err := e.store.UpsertPattern(ctx, p); err != nil {
		e.logger.Warn("failed to persist synthesized pattern", "pattern", p.ID, "error", err)
	}
	if err := e.index.Upsert(ctx, p.ID, p.FeatureVector, indexPayload(p)); err != nil {
		e.logger.Warn("failed to index synthesized pattern", "pattern", p.ID, "error", err)
	}
}

// indexPayload carries enough of the pattern alongside its vector that a
// match can be served even when the store cannot be reached.
func indexPayload(p *types.Pattern) map[string]string {
	return map[string]string{
		"component_type": p.ComponentType,
		"pattern_type":   p.PatternType,
		"description":    p.Description,
		"test_strategy":  p.TestStrategy,
	}
}

// patternFromPayload reconstructs a minimal pattern from an index match.
// Returns nil when the payload lacks a description to serve.
func patternFromPayload(m simindex.Match) *types.Pattern {
	if m.Payload["description"] == "" {
		return nil
	}
	p := types.NewPattern(m.Payload["component_type"], m.Payload["description"], m.Payload["test_strategy"])
	p.ID = m.ID
	p.PatternType = m.Payload["pattern_type"]
	return p
}

func normalizeContext(qctx types.QueryContext) (types.QueryContext, error) {
	if qctx == "" {
		return types.ContextGeneral, nil
	}
	if !qctx.Valid() {
		return "", types.ErrUnknownContext
	}
	return qctx, nil
}
