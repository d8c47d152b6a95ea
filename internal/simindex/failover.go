package simindex

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dshills/patternscout/pkg/types"
)

// FailoverIndex fronts a backend index with the in-memory fallback. Every
// upsert mirrors into the fallback so a backend outage mid-process still
// leaves a searchable index. Backend failures are absorbed and logged;
// dimension mismatches are configuration errors and propagate.
type FailoverIndex struct {
	backend  Index
	fallback *MemoryIndex
	logger   *slog.Logger
}

// NewFailoverIndex wraps backend with an in-memory fallback of the given
// dimension.
func NewFailoverIndex(backend Index, dim int, logger *slog.Logger) *FailoverIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &FailoverIndex{
		backend:  backend,
		fallback: NewMemoryIndex(dim),
		logger:   logger,
	}
}

// Upsert writes to the fallback first (its dimension check guards the
// contract) and then to the backend. A backend write failure is logged but
// does not fail the operation.
func (f *FailoverIndex) Upsert(ctx context.Context, id string, vector []float32, payload map[string]string) error {
	if err := f.fallback.Upsert(ctx, id, vector, payload); err != nil {
		return err
	}
	if err := f.backend.Upsert(ctx, id, vector, payload); err != nil {
		f.logger.Warn("similarity backend upsert failed, fallback holds the vector",
			"id", id, "error", err)
	}
	return nil
}

// Search queries the backend and retries once against the fallback on any
// backend error. Input errors from the fallback still propagate.
func (f *FailoverIndex) Search(ctx context.Context, vector []float32, limit int, threshold float64) ([]Match, error) {
	matches, err := f.backend.Search(ctx, vector, limit, threshold)
	if err == nil {
		return matches, nil
	}
	if errors.Is(err, types.ErrDimensionMismatch) || errors.Is(err, types.ErrInvalidLimit) {
		return nil, err
	}
	f.logger.Warn("similarity backend search failed, using in-memory fallback", "error", err)
	return f.fallback.Search(ctx, vector, limit, threshold)
}

// Count prefers the backend count and falls back on error.
func (f *FailoverIndex) Count(ctx context.Context) (int, error) {
	n, err := f.backend.Count(ctx)
	if err == nil {
		return n, nil
	}
	return f.fallback.Count(ctx)
}

// Close closes both indexes.
func (f *FailoverIndex) Close() error {
	err := f.backend.Close()
	if ferr := f.fallback.Close(); err == nil {
		err = ferr
	}
	return err
}
