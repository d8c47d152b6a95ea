package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrEmptyText      = errors.New("text cannot be empty")
	ErrProviderFailed = errors.New("embedding provider failed")
)

// DefaultCacheSize bounds the embedding cache.
const DefaultCacheSize = 10000

// DefaultTimeout bounds each real-provider call. On expiry the facade
// degrades to the hash fallback instead of blocking the request.
const DefaultTimeout = 10 * time.Second

// Provider generates a fixed-length vector for a piece of text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Name() string
	Close() error
}

// Cache provides in-memory LRU caching of vectors by content hash.
type Cache struct {
	cache *lru.Cache[string, []float32]
}

// NewCache creates an embedding cache with LRU eviction.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = DefaultCacheSize
	}
	cache, err := lru.New[string, []float32](maxLen)
	if err != nil {
		// Only possible with a non-positive size, which we just excluded.
		cache, _ = lru.New[string, []float32](DefaultCacheSize)
	}
	return &Cache{cache: cache}
}

// Get retrieves a copy of a cached vector. Returning a copy keeps caller
// mutations from polluting the cache.
func (c *Cache) Get(hash string) ([]float32, bool) {
	v, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}
	cp := make([]float32, len(v))
	copy(cp, v)
	return cp, true
}

// Set stores a vector, evicting the least recently used entry at capacity.
func (c *Cache) Set(hash string, v []float32) {
	c.cache.Add(hash, v)
}

// Size returns the current cache size.
func (c *Cache) Size() int {
	return c.cache.Len()
}

// ComputeHash computes the SHA-256 content hash used as the cache key.
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// Embedder is the non-erroring facade over a real provider and the hash
// fallback. It is safe for concurrent use.
type Embedder struct {
	provider Provider // nil when no credential is configured
	fallback *HashProvider
	cache    *Cache
	logger   *slog.Logger
	timeout  time.Duration
}

// New creates an Embedder. provider may be nil, in which case every call
// takes the fallback path. The fallback dimension always matches the
// provider dimension so index operations never mix vector sizes.
func New(provider Provider, cache *Cache, logger *slog.Logger) *Embedder {
	if logger == nil {
		logger = slog.Default()
	}
	dim := FallbackDimension
	if provider != nil {
		dim = provider.Dimension()
	}
	if cache == nil {
		cache = NewCache(DefaultCacheSize)
	}
	return &Embedder{
		provider: provider,
		fallback: NewHashProvider(dim),
		cache:    cache,
		logger:   logger,
		timeout:  DefaultTimeout,
	}
}

// Embed returns the vector for text. It never fails: provider errors and
// timeouts degrade to the deterministic hash fallback.
func (e *Embedder) Embed(ctx context.Context, text string) []float32 {
	hash := ComputeHash(text)
	if v, ok := e.cache.Get(hash); ok {
		return v
	}

	if e.provider != nil {
		cctx, cancel := context.WithTimeout(ctx, e.timeout)
		v, err := e.provider.Embed(cctx, text)
		cancel()
		if err == nil && len(v) == e.Dimension() {
			e.cache.Set(hash, v)
			return v
		}
		if err != nil {
			e.logger.Warn("embedding provider unavailable, using hash fallback",
				"provider", e.provider.Name(), "error", err)
		} else {
			e.logger.Warn("embedding provider returned wrong dimension, using hash fallback",
				"provider", e.provider.Name(), "got", len(v), "want", e.Dimension())
		}
	}

	v, _ := e.fallback.Embed(ctx, text) // never errors
	e.cache.Set(hash, v)
	return v
}

// Dimension returns the vector dimension produced by Embed.
func (e *Embedder) Dimension() int {
	return e.fallback.Dimension()
}

// Close releases provider resources.
func (e *Embedder) Close() error {
	if e.provider != nil {
		return e.provider.Close()
	}
	return nil
}
