package embedder

import (
	"log/slog"
	"os"
)

// Environment variables recognized by NewFromEnv.
const (
	EnvAPIKey = "PATTERNSCOUT_EMBEDDING_API_KEY"
	EnvAPIURL = "PATTERNSCOUT_EMBEDDING_URL"
)

// NewFromEnv builds an Embedder from environment configuration.
//
//  1. PATTERNSCOUT_EMBEDDING_API_KEY set -> HTTP provider with hash fallback
//  2. otherwise                          -> hash fallback only
//
// A missing credential is a supported configuration, not an error, so this
// constructor cannot fail.
func NewFromEnv(logger *slog.Logger) *Embedder {
	if logger == nil {
		logger = slog.Default()
	}

	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		logger.Info("no embedding credential configured, using hash fallback")
		return New(nil, nil, logger)
	}

	var opts []HTTPProviderOption
	if url := os.Getenv(EnvAPIURL); url != "" {
		opts = append(opts, WithAPIURL(url))
	}

	provider, err := NewHTTPProvider(apiKey, opts...)
	if err != nil {
		logger.Warn("embedding provider setup failed, using hash fallback", "error", err)
		return New(nil, nil, logger)
	}
	return New(provider, nil, logger)
}
