package discovery

import (
	"context"
	"log/slog"
	"os"

	"github.com/dshills/patternscout/internal/cache"
	"github.com/dshills/patternscout/internal/embedder"
	"github.com/dshills/patternscout/internal/enrich"
	"github.com/dshills/patternscout/internal/simindex"
	"github.com/dshills/patternscout/internal/store"
	"github.com/dshills/patternscout/internal/webclient"
)

// NewFromEnv assembles the full discovery stack from environment
// configuration. Every optional dependency (embedding provider, similarity
// backend, Redis, search credential) degrades to a local or no-op form;
// only the pattern store must open successfully.
func NewFromEnv(ctx context.Context, dbPath string, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	emb := embedder.NewFromEnv(logger)
	idx := simindex.NewFromEnv(emb.Dimension(), logger)
	c := cache.NewFromEnv(ctx, logger)

	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv(EnvSearchAPIKey)
	var client *webclient.Client
	if apiKey != "" {
		baseURL := os.Getenv(EnvSearchURL)
		if baseURL == "" {
			baseURL = DefaultSearchURL
		}
		client = webclient.New(webclient.Config{
			BaseURL:     baseURL,
			APIKey:      apiKey,
			MaxRetries:  envInt(EnvMaxRetries, webclient.DefaultMaxRetries),
			MinInterval: envMillis(EnvMinInterval, webclient.DefaultMinInterval),
		}, logger)
	}
	enr := enrich.New(enrich.Config{
		APIKey:   apiKey,
		CacheTTL: envSeconds(EnvCacheTTL, DefaultCacheTTL),
	}, client, c, logger)

	eng, err := New(ConfigFromEnv(), Deps{
		Embedder: emb,
		Index:    idx,
		Store:    st,
		Enricher: enr,
		Logger:   logger,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return eng, nil
}
