// Package cache memoizes embeddings and external search responses under
// TTL-bounded keys.
//
// The layer degrades rather than fails: a Redis backend is used when
// reachable, an in-memory TTL/LRU cache serves single-process deployments,
// and the no-op cache stands in when the configured store is unreachable.
// Every Get past an entry's TTL is a miss, never an error, so callers must
// be correct (just slower) under an always-missing cache.
//
// Keys are deterministic fingerprints of the full query parameter set, so
// two logically identical queries always address the same entry.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Cache is the key/value contract shared by all backends. Implementations
// must be safe for concurrent use and must never return an error for a
// degraded backend; unavailability is a miss.
type Cache interface {
	// Get returns the value for key, or ok=false on a miss (including
	// expiry and backend unavailability).
	Get(ctx context.Context, key string) (value []byte, ok bool)

	// Set stores value under key for ttl. Failures are absorbed.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Close releases backend resources.
	Close() error
}

// Fingerprint derives the deterministic cache key for a parameter set. The
// parts are joined with an unambiguous separator before hashing so
// ("ab","c") and ("a","bc") cannot collide.
func Fingerprint(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(h[:])
}

// QueryFingerprint builds the cache key for an external search call from
// the full set of parameters that shape its result.
func QueryFingerprint(text, qctx string, limit int, trending bool) string {
	return Fingerprint("search", text, qctx, fmt.Sprintf("%d", limit), fmt.Sprintf("%t", trending))
}
