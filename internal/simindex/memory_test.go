package simindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/patternscout/pkg/types"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical vectors", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal vectors", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite vectors", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
		{name: "both zero", a: []float32{0, 0}, b: []float32{0, 0}, want: 0},
		{name: "length mismatch", a: []float32{1}, b: []float32{1, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineSimilaritySymmetryAndRange(t *testing.T) {
	vectors := [][]float32{
		{1, 2, 3},
		{-4, 0.5, 2},
		{0, 0, 0},
		{100, -100, 0.001},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			ab := CosineSimilarity(a, b)
			ba := CosineSimilarity(b, a)
			assert.InDelta(t, ab, ba, 1e-12, "symmetry")
			assert.GreaterOrEqual(t, ab, -1.0-1e-9)
			assert.LessOrEqual(t, ab, 1.0+1e-9)
		}
	}
}

func TestMemoryIndexEmptySearch(t *testing.T) {
	idx := NewMemoryIndex(3)
	matches, err := idx.Search(context.Background(), []float32{1, 0, 0}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMemoryIndexSearchRanking(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex(0)

	require.NoError(t, idx.Upsert(ctx, "exact", []float32{1, 0, 0}, nil))
	require.NoError(t, idx.Upsert(ctx, "close", []float32{1, 0.2, 0}, nil))
	require.NoError(t, idx.Upsert(ctx, "far", []float32{0, 1, 0}, nil))

	matches, err := idx.Search(ctx, []float32{1, 0, 0}, 10, 0.5)
	require.NoError(t, err)
	require.Len(t, matches, 2, "threshold should drop the orthogonal vector")
	assert.Equal(t, "exact", matches[0].ID)
	assert.Equal(t, "close", matches[1].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestMemoryIndexLimit(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex(2)
	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0}, nil))
	require.NoError(t, idx.Upsert(ctx, "b", []float32{1, 0.1}, nil))
	require.NoError(t, idx.Upsert(ctx, "c", []float32{1, 0.2}, nil))

	matches, err := idx.Search(ctx, []float32{1, 0}, 2, 0)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestMemoryIndexStableTies(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex(2)
	// Identical vectors score identically; insertion order must decide.
	require.NoError(t, idx.Upsert(ctx, "first", []float32{1, 1}, nil))
	require.NoError(t, idx.Upsert(ctx, "second", []float32{1, 1}, nil))
	require.NoError(t, idx.Upsert(ctx, "third", []float32{1, 1}, nil))

	for range 5 {
		matches, err := idx.Search(ctx, []float32{1, 1}, 10, 0)
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, "first", matches[0].ID)
		assert.Equal(t, "second", matches[1].ID)
		assert.Equal(t, "third", matches[2].ID)
	}
}

func TestMemoryIndexDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex(0)
	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0, 0}, nil))

	err := idx.Upsert(ctx, "b", []float32{1, 0}, nil)
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)

	_, err = idx.Search(ctx, []float32{1, 0}, 5, 0)
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)
}

func TestMemoryIndexInvalidLimit(t *testing.T) {
	idx := NewMemoryIndex(2)
	_, err := idx.Search(context.Background(), []float32{1, 0}, 0, 0)
	assert.ErrorIs(t, err, types.ErrInvalidLimit)
}

func TestMemoryIndexUpsertReplace(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex(2)
	require.NoError(t, idx.Upsert(ctx, "a", []float32{0, 1}, nil))
	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0}, map[string]string{"v": "2"}))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	matches, err := idx.Search(ctx, []float32{1, 0}, 1, 0.9)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "2", matches[0].Payload["v"])
}

func TestMemoryIndexCopiesVectors(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex(2)
	vec := []float32{1, 0}
	require.NoError(t, idx.Upsert(ctx, "a", vec, nil))
	vec[0] = -1

	matches, err := idx.Search(ctx, []float32{1, 0}, 1, 0.9)
	require.NoError(t, err)
	assert.Len(t, matches, 1, "stored vector must not alias caller memory")
}
