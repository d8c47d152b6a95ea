package cache

import (
	"context"
	"log/slog"
	"os"
)

// Environment variables recognized by NewFromEnv.
const (
	EnvRedisAddr     = "PATTERNSCOUT_REDIS_ADDR"
	EnvRedisPassword = "PATTERNSCOUT_REDIS_PASSWORD"
)

// NewFromEnv builds a Cache from environment configuration. A configured
// but unreachable Redis degrades to the no-op cache — callers are required
// to be correct under an always-missing cache, and silently serving a
// second stale store would mask the outage. With no Redis configured the
// in-memory TTL cache serves the process.
func NewFromEnv(ctx context.Context, logger *slog.Logger) Cache {
	if logger == nil {
		logger = slog.Default()
	}

	addr := os.Getenv(EnvRedisAddr)
	if addr == "" {
		return NewMemory(DefaultMemoryEntries)
	}

	r, err := NewRedis(ctx, RedisConfig{
		Addr:      addr,
		Password:  os.Getenv(EnvRedisPassword),
		KeyPrefix: "patternscout:",
	}, logger)
	if err != nil {
		logger.Warn("redis unreachable, degrading to no-op cache", "addr", addr, "error", err)
		return NewNoop()
	}
	return r
}
