package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterminism(t *testing.T) {
	k1 := QueryFingerprint("foo", "mobile", 5, true)
	k2 := QueryFingerprint("foo", "mobile", 5, true)
	assert.Equal(t, k1, k2, "identical parameters must hit the same entry")

	assert.NotEqual(t, k1, QueryFingerprint("foo", "mobile", 5, false))
	assert.NotEqual(t, k1, QueryFingerprint("foo", "web", 5, true))
	assert.NotEqual(t, k1, QueryFingerprint("foo", "mobile", 6, true))
}

func TestFingerprintSeparator(t *testing.T) {
	// Concatenation ambiguity must not produce collisions.
	assert.NotEqual(t, Fingerprint("ab", "c"), Fingerprint("a", "bc"))
}

func TestMemoryHitAndMiss(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)

	_, ok := m.Get(ctx, "absent")
	assert.False(t, ok)

	m.Set(ctx, "k", []byte("v"), time.Minute)
	v, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)
}

func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)

	now := time.Now()
	m.now = func() time.Time { return now }

	m.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := m.Get(ctx, "k")
	require.True(t, ok)

	// An expired entry is a miss, not an error.
	now = now.Add(2 * time.Minute)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryNonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	m.Set(ctx, "k", []byte("v"), 0)
	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNoopAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	n := NewNoop()
	n.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := n.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, n.Close())
}

func TestRedisRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	r, err := NewRedis(ctx, RedisConfig{Addr: srv.Addr(), KeyPrefix: "test:"}, nil)
	require.NoError(t, err)
	defer r.Close()

	_, ok := r.Get(ctx, "absent")
	assert.False(t, ok)

	r.Set(ctx, "k", []byte("v"), time.Minute)
	v, ok := r.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)
}

func TestRedisTTLExpiry(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	r, err := NewRedis(ctx, RedisConfig{Addr: srv.Addr()}, nil)
	require.NoError(t, err)
	defer r.Close()

	r.Set(ctx, "k", []byte("v"), time.Second)
	srv.FastForward(2 * time.Second)

	_, ok := r.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := NewRedis(ctx, RedisConfig{Addr: "127.0.0.1:1"}, nil)
	assert.Error(t, err, "factory relies on this to degrade to the no-op cache")
}
