package discovery

import (
	"os"
	"strconv"
	"time"
)

// Environment variables recognized by ConfigFromEnv and NewFromEnv.
const (
	EnvSimilarityThreshold = "PATTERNSCOUT_SIMILARITY_THRESHOLD"
	EnvMaxResults          = "PATTERNSCOUT_MAX_RESULTS"
	EnvLookupTimeout       = "PATTERNSCOUT_LOOKUP_TIMEOUT_MS"
	EnvSearchAPIKey        = "PATTERNSCOUT_SEARCH_API_KEY"
	EnvSearchURL           = "PATTERNSCOUT_SEARCH_URL"
	EnvMaxRetries          = "PATTERNSCOUT_MAX_RETRIES"
	EnvMinInterval         = "PATTERNSCOUT_MIN_REQUEST_INTERVAL_MS"
	EnvCacheTTL            = "PATTERNSCOUT_CACHE_TTL"
)

// Defaults applied when the corresponding Config field is zero.
const (
	DefaultSimilarityThreshold = 0.8
	DefaultMaxResults          = 15
	DefaultLookupTimeout       = 10 * time.Second
	DefaultSearchURL           = "https://api.tavily.com"
	DefaultCacheTTL            = time.Hour
)

// Config tunes the discovery engine. The zero value selects the defaults.
type Config struct {
	// SimilarityThreshold is the minimum cosine similarity for an
	// internal index hit, in [0, 1].
	SimilarityThreshold float64

	// MaxResults bounds every returned pattern list.
	MaxResults int

	// LookupTimeout bounds each internal and external lookup separately.
	LookupTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = DefaultLookupTimeout
	}
	return c
}

// ConfigFromEnv reads engine tunables from the environment. Unset or
// malformed values fall back to the defaults.
func ConfigFromEnv() Config {
	return Config{
		SimilarityThreshold: envFloat(EnvSimilarityThreshold, DefaultSimilarityThreshold),
		MaxResults:          envInt(EnvMaxResults, DefaultMaxResults),
		LookupTimeout:       envMillis(EnvLookupTimeout, DefaultLookupTimeout),
	}
}

func envFloat(key string, fallback float64) float64 {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return fallback
}

func envMillis(key string, fallback time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return time.Duration(v) * time.Millisecond
		}
	}
	return fallback
}

// envSeconds reads a duration expressed in whole seconds.
func envSeconds(key string, fallback time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return time.Duration(v) * time.Second
		}
	}
	return fallback
}
