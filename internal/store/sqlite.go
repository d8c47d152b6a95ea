package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/patternscout/pkg/types"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore creates a SQLite-backed pattern store. Use ":memory:" for
// an ephemeral store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// UpsertPattern stores a pattern. Identity fields and counters are
// preserved on conflict; the content hash ID makes re-inserts of identical
// content idempotent.
func (s *SQLiteStore) UpsertPattern(ctx context.Context, p *types.Pattern) error {
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO patterns (
			id, component_type, pattern_type, description, test_strategy,
			feature_vector, source, url, tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			updated_at = CURRENT_TIMESTAMP`,
		p.ID, p.ComponentType, p.PatternType, p.Description, p.TestStrategy,
		serializeVector(p.FeatureVector), string(p.Source), p.URL, string(tags),
	)
	if err != nil {
		return fmt.Errorf("upsert pattern %s: %w", p.ID, err)
	}
	return nil
}

// GetPattern loads a pattern with usage counter and success history.
func (s *SQLiteStore) GetPattern(ctx context.Context, id string) (*types.Pattern, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, component_type, pattern_type, description, test_strategy,
		       feature_vector, source, url, tags, usage_count,
		       created_at, updated_at
		FROM patterns WHERE id = ?`, id)

	p, err := scanPattern(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pattern %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get pattern %s: %w", id, err)
	}

	if p.SuccessHistory, err = s.loadHistory(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPatterns loads several patterns, skipping absent IDs and keeping the
// input order.
func (s *SQLiteStore) GetPatterns(ctx context.Context, ids []string) ([]*types.Pattern, error) {
	patterns := make([]*types.Pattern, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetPattern(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// ListByComponentType returns patterns for a component type, most recently
// updated first.
func (s *SQLiteStore) ListByComponentType(ctx context.Context, componentType string, limit int) ([]*types.Pattern, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, component_type, pattern_type, description, test_strategy,
		       feature_vector, source, url, tags, usage_count,
		       created_at, updated_at
		FROM patterns WHERE component_type = ?
		ORDER BY updated_at DESC, id
		LIMIT ?`, componentType, limit)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []*types.Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range patterns {
		if p.SuccessHistory, err = s.loadHistory(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return patterns, nil
}

// IncrementUsage bumps the usage counter by one.
func (s *SQLiteStore) IncrementUsage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE patterns SET usage_count = usage_count + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("increment usage %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pattern %s: %w", id, ErrNotFound)
	}
	return nil
}

// AppendOutcome records one test run outcome.
func (s *SQLiteStore) AppendOutcome(ctx context.Context, id string, passed bool) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM patterns WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("append outcome %s: %w", id, err)
	}
	if exists == 0 {
		return fmt.Errorf("pattern %s: %w", id, ErrNotFound)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO outcomes (pattern_id, passed) VALUES (?, ?)", id, passed)
	if err != nil {
		return fmt.Errorf("append outcome %s: %w", id, err)
	}
	return nil
}

// CountPatterns returns the number of stored patterns.
func (s *SQLiteStore) CountPatterns(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM patterns").Scan(&n); err != nil {
		return 0, fmt.Errorf("count patterns: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// loadHistory returns the append-only success history in recording order.
func (s *SQLiteStore) loadHistory(ctx context.Context, id string) ([]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT passed FROM outcomes WHERE pattern_id = ? ORDER BY id", id)
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	var history []bool
	for rows.Next() {
		var passed bool
		if err := rows.Scan(&passed); err != nil {
			return nil, err
		}
		history = append(history, passed)
	}
	return history, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for scanPattern.
type scanner interface {
	Scan(dest ...any) error
}

func scanPattern(row scanner) (*types.Pattern, error) {
	var (
		p         types.Pattern
		vector    []byte
		source    string
		tags      string
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&p.ID, &p.ComponentType, &p.PatternType, &p.Description, &p.TestStrategy,
		&vector, &source, &p.URL, &tags, &p.UsageCount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.FeatureVector = deserializeVector(vector)
	p.Source = types.Source(source)
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		p.Tags = nil
	}
	return &p, nil
}
