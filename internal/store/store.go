// Package store persists patterns and is the sole owner of their identity
// and counters.
//
// The cache layer holds only transient serialized snapshots and may be
// evicted or rebuilt at any time; this store is the source of truth.
// UsageCount increments on every retrieval through the discovery engine,
// and SuccessHistory is append-only — outcomes are recorded, never
// rewritten.
package store

import (
	"context"
	"errors"

	"github.com/dshills/patternscout/pkg/types"
)

var (
	// ErrNotFound is returned when a requested pattern doesn't exist.
	ErrNotFound = errors.New("not found")
)

// Store defines the pattern persistence contract.
type Store interface {
	// UpsertPattern stores a pattern. On conflict the identity fields and
	// counters are preserved; only metadata timestamps move.
	UpsertPattern(ctx context.Context, p *types.Pattern) error

	// GetPattern loads a pattern with its usage counter and full success
	// history. Returns ErrNotFound when absent.
	GetPattern(ctx context.Context, id string) (*types.Pattern, error)

	// GetPatterns loads several patterns at once, skipping absent IDs.
	// Result order follows the input order.
	GetPatterns(ctx context.Context, ids []string) ([]*types.Pattern, error)

	// ListByComponentType returns up to limit patterns for a component
	// type, most recently updated first.
	ListByComponentType(ctx context.Context, componentType string, limit int) ([]*types.Pattern, error)

	// IncrementUsage bumps the usage counter by one.
	IncrementUsage(ctx context.Context, id string) error

	// AppendOutcome records one test run outcome for a pattern.
	AppendOutcome(ctx context.Context, id string, passed bool) error

	// CountPatterns returns the number of stored patterns.
	CountPatterns(ctx context.Context) (int, error)

	// Close releases database resources.
	Close() error
}
