package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default timeouts for Redis operations.
const (
	redisDialTimeout  = 5 * time.Second
	redisReadTimeout  = 3 * time.Second
	redisWriteTimeout = 3 * time.Second
)

// Redis is the durable cache backend. Operational failures are logged and
// reported as misses so a Redis outage never surfaces to callers.
type Redis struct {
	client    redis.UniversalClient
	keyPrefix string
	logger    *slog.Logger
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string // namespacing, e.g. "patternscout:"
}

// NewRedis connects to Redis and verifies the connection with a ping.
// Returns an error when the store is unreachable; the factory degrades to
// another backend in that case.
func NewRedis(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*Redis, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisReadTimeout,
		WriteTimeout: redisWriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Redis{client: client, keyPrefix: cfg.KeyPrefix, logger: logger}, nil
}

// Get fetches key from Redis. Redis expires entries server-side, so a read
// past the TTL is already a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, r.keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("redis get failed, treating as miss", "error", err)
		}
		return nil, false
	}
	return value, true
}

// Set stores value with ttl. Failures are logged and absorbed.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.client.Set(ctx, r.keyPrefix+key, value, ttl).Err(); err != nil {
		r.logger.Warn("redis set failed, dropping entry", "error", err)
	}
}

// Close closes the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
