package simindex

import (
	"context"
	"math"

	"github.com/dshills/patternscout/pkg/types"
)

// Match is a single similarity search hit.
type Match struct {
	ID      string
	Score   float64 // Cosine similarity in [-1, 1]
	Payload map[string]string
}

// Index is the similarity index contract. Implementations must be safe for
// concurrent use.
type Index interface {
	// Upsert stores or replaces the vector and payload for id.
	Upsert(ctx context.Context, id string, vector []float32, payload map[string]string) error

	// Search returns up to limit matches with similarity >= threshold,
	// sorted descending by similarity. An empty index yields an empty
	// slice, never an error.
	Search(ctx context.Context, vector []float32, limit int, threshold float64) ([]Match, error)

	// Count returns the number of stored vectors.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the index.
	Close() error
}

// CosineSimilarity computes the cosine of the angle between a and b. It is
// symmetric, lies in [-1, 1], and is defined as 0 when either vector has
// zero magnitude or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// checkDimension validates a vector against the index dimension. dim == 0
// means the index is empty and adopts the vector's dimension.
func checkDimension(dim int, vector []float32) error {
	if dim != 0 && len(vector) != dim {
		return types.ErrDimensionMismatch
	}
	return nil
}
