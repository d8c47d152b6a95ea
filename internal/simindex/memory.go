package simindex

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/patternscout/pkg/types"
)

// MemoryIndex is the in-memory fallback implementation. It adopts the
// dimension of the first vector upserted and rejects mismatches afterward.
type MemoryIndex struct {
	mu      sync.RWMutex
	dim     int
	order   []string // insertion order for stable tie-breaks
	entries map[string]memoryEntry
}

type memoryEntry struct {
	vector  []float32
	payload map[string]string
	seq     int
}

// NewMemoryIndex creates an empty in-memory index. dim may be 0 to adopt
// the dimension of the first upsert.
func NewMemoryIndex(dim int) *MemoryIndex {
	return &MemoryIndex{
		dim:     dim,
		entries: make(map[string]memoryEntry),
	}
}

// Upsert stores or replaces a vector. Replacing keeps the original
// insertion position so repeated upserts do not reshuffle tie-breaks.
func (m *MemoryIndex) Upsert(_ context.Context, id string, vector []float32, payload map[string]string) error {
	if id == "" {
		return fmt.Errorf("upsert: id cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := checkDimension(m.dim, vector); err != nil {
		return fmt.Errorf("upsert %s: %w (stored %d, got %d)", id, err, m.dim, len(vector))
	}
	if m.dim == 0 {
		m.dim = len(vector)
	}

	vec := make([]float32, len(vector))
	copy(vec, vector)

	existing, ok := m.entries[id]
	seq := existing.seq
	if !ok {
		seq = len(m.order)
		m.order = append(m.order, id)
	}
	m.entries[id] = memoryEntry{vector: vec, payload: payload, seq: seq}
	return nil
}

// Search computes cosine similarity against every stored vector, filters by
// threshold, and returns the top matches. Candidates are walked in
// insertion order and sorted with a stable sort, so equal scores keep
// insertion order and repeated runs produce identical output.
func (m *MemoryIndex) Search(_ context.Context, vector []float32, limit int, threshold float64) ([]Match, error) {
	if limit <= 0 {
		return nil, types.ErrInvalidLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.entries) == 0 {
		return []Match{}, nil
	}
	if err := checkDimension(m.dim, vector); err != nil {
		return nil, fmt.Errorf("search: %w (stored %d, got %d)", err, m.dim, len(vector))
	}

	matches := make([]Match, 0, len(m.entries))
	for _, id := range m.order {
		entry := m.entries[id]
		sim := CosineSimilarity(vector, entry.vector)
		if sim < threshold {
			continue
		}
		matches = append(matches, Match{ID: id, Score: sim, Payload: entry.payload})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Count returns the number of stored vectors.
func (m *MemoryIndex) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// Close is a no-op for the in-memory index.
func (m *MemoryIndex) Close() error { return nil }
