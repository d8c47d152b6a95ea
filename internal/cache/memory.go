package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryEntries bounds the in-memory cache.
const DefaultMemoryEntries = 1000

// memoryEntry pairs a value with its expiry deadline.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is the in-memory TTL cache backed by an LRU. It serves as the
// default backend when no durable store is configured.
type Memory struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

// NewMemory creates an in-memory cache holding up to maxEntries values.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	entries, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		entries, _ = lru.New[string, memoryEntry](DefaultMemoryEntries)
	}
	return &Memory{entries: entries, now: time.Now}
}

// Get returns the cached value, treating expired entries as misses and
// removing them.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return nil, false
	}
	if m.now().After(entry.expiresAt) {
		m.entries.Remove(key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value for ttl. Non-positive TTLs store nothing.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.entries.Add(key, memoryEntry{value: value, expiresAt: m.now().Add(ttl)})
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Noop is the degraded cache: every Get misses and every Set is dropped.
type Noop struct{}

// NewNoop returns the no-op cache.
func NewNoop() *Noop { return &Noop{} }

// Get always misses.
func (*Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }

// Set drops the value.
func (*Noop) Set(context.Context, string, []byte, time.Duration) {}

// Close is a no-op.
func (*Noop) Close() error { return nil }
