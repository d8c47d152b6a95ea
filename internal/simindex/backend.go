package simindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BackendIndex delegates to a nearest-neighbor service speaking the
// Qdrant-compatible REST shape: points are upserted under a named
// collection and searched with a score threshold.
type BackendIndex struct {
	baseURL    string
	collection string
	apiKey     string
	httpClient *http.Client
}

// BackendConfig configures a BackendIndex.
type BackendConfig struct {
	BaseURL    string
	Collection string
	APIKey     string // optional
	Timeout    time.Duration
}

// NewBackendIndex creates a backend-mode index client.
func NewBackendIndex(cfg BackendConfig) (*BackendIndex, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend index: base URL is required")
	}
	if cfg.Collection == "" {
		cfg.Collection = "patterns"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &BackendIndex{
		baseURL:    cfg.BaseURL,
		collection: cfg.Collection,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Upsert writes one point into the backend collection.
func (b *BackendIndex) Upsert(ctx context.Context, id string, vector []float32, payload map[string]string) error {
	body := map[string]any{
		"points": []map[string]any{
			{"id": id, "vector": vector, "payload": payload},
		},
	}
	path := fmt.Sprintf("/collections/%s/points", b.collection)
	return b.call(ctx, http.MethodPut, path, body, nil)
}

// Search queries the backend for the nearest stored vectors.
func (b *BackendIndex) Search(ctx context.Context, vector []float32, limit int, threshold float64) ([]Match, error) {
	body := map[string]any{
		"vector":          vector,
		"limit":           limit,
		"score_threshold": threshold,
		"with_payload":    true,
	}

	var resp struct {
		Result []struct {
			ID      string            `json:"id"`
			Score   float64           `json:"score"`
			Payload map[string]string `json:"payload"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/search", b.collection)
	if err := b.call(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	matches := make([]Match, len(resp.Result))
	for i, r := range resp.Result {
		matches[i] = Match{ID: r.ID, Score: r.Score, Payload: r.Payload}
	}
	return matches, nil
}

// Count returns the number of points in the collection.
func (b *BackendIndex) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/count", b.collection)
	if err := b.call(ctx, http.MethodPost, path, map[string]any{}, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

// Close releases idle connections.
func (b *BackendIndex) Close() error {
	b.httpClient.CloseIdleConnections()
	return nil
}

// call issues one JSON request against the backend and decodes the response
// into out when non-nil.
func (b *BackendIndex) call(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("api-key", b.apiKey)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backend error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
