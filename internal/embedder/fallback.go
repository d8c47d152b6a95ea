package embedder

import (
	"context"
	"crypto/sha256"
	"hash/fnv"
	"math"
)

// FallbackDimension is the vector size when no real provider is configured.
const FallbackDimension = 384

// HashProvider derives vectors deterministically from two independent hash
// functions over the text. Identical text always yields a bit-identical
// vector, and nonzero vectors are normalized to unit length.
type HashProvider struct {
	dim int
}

// NewHashProvider creates a fallback provider producing vectors of the
// given dimension.
func NewHashProvider(dim int) *HashProvider {
	if dim <= 0 {
		dim = FallbackDimension
	}
	return &HashProvider{dim: dim}
}

// Embed derives the vector for text. The error is always nil; the signature
// satisfies Provider.
func (h *HashProvider) Embed(_ context.Context, text string) ([]float32, error) {
	d1 := sha256.Sum256([]byte(text))

	f := fnv.New64a()
	_, _ = f.Write([]byte(text))
	d2 := f.Sum64()

	v := make([]float32, h.dim)
	for i := range v {
		b1 := d1[i%len(d1)]
		b2 := byte(d2 >> ((uint(i) % 8) * 8))
		// Mix the two digests and center around zero so the vector is not
		// biased toward one orthant.
		v[i] = float32(b1^b2) - 127.5
		// Rotate the second digest between positions so repeats of the
		// 32-byte SHA block do not repeat verbatim.
		d2 = (d2 << 1) | (d2 >> 63)
	}

	return normalize(v), nil
}

// Dimension returns the configured vector size.
func (h *HashProvider) Dimension() int { return h.dim }

// Name returns the provider name.
func (h *HashProvider) Name() string { return "hash-fallback" }

// Close is a no-op.
func (h *HashProvider) Close() error { return nil }

// normalize scales v to unit L2 norm. A zero vector is returned unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}
