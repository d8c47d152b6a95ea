package simindex

import (
	"log/slog"
	"os"
)

// Environment variables recognized by NewFromEnv.
const (
	EnvBackendURL = "PATTERNSCOUT_INDEX_URL"
	EnvBackendKey = "PATTERNSCOUT_INDEX_API_KEY"
	EnvCollection = "PATTERNSCOUT_INDEX_COLLECTION"
)

// NewFromEnv builds an Index from environment configuration. With
// PATTERNSCOUT_INDEX_URL set, the backend is fronted by the failover
// wrapper; otherwise the in-memory index serves alone. Either way the
// returned index honors the same contract, so this constructor cannot fail.
func NewFromEnv(dim int, logger *slog.Logger) Index {
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := os.Getenv(EnvBackendURL)
	if baseURL == "" {
		logger.Info("no similarity backend configured, using in-memory index")
		return NewMemoryIndex(dim)
	}

	backend, err := NewBackendIndex(BackendConfig{
		BaseURL:    baseURL,
		Collection: os.Getenv(EnvCollection),
		APIKey:     os.Getenv(EnvBackendKey),
	})
	if err != nil {
		logger.Warn("similarity backend setup failed, using in-memory index", "error", err)
		return NewMemoryIndex(dim)
	}
	return NewFailoverIndex(backend, dim, logger)
}
