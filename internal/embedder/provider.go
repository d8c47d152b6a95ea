package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultAPIURL is the OpenAI-compatible embeddings endpoint.
	DefaultAPIURL = "https://api.openai.com/v1/embeddings"
	// DefaultModel is the embedding model requested by default.
	DefaultModel = "text-embedding-3-small"
	// DefaultModelDimension is the vector size of DefaultModel.
	DefaultModelDimension = 1536
)

// HTTPProvider implements Provider against an OpenAI-compatible
// embeddings API.
type HTTPProvider struct {
	apiKey     string
	apiURL     string
	model      string
	dimension  int
	httpClient *http.Client
}

// HTTPProviderOption customizes an HTTPProvider.
type HTTPProviderOption func(*HTTPProvider)

// WithAPIURL overrides the API endpoint (self-hosted gateways, tests).
func WithAPIURL(url string) HTTPProviderOption {
	return func(p *HTTPProvider) { p.apiURL = url }
}

// WithModel overrides the model and its expected dimension.
func WithModel(model string, dimension int) HTTPProviderOption {
	return func(p *HTTPProvider) {
		p.model = model
		p.dimension = dimension
	}
}

// NewHTTPProvider creates a provider using the given bearer credential.
func NewHTTPProvider(apiKey string, opts ...HTTPProviderOption) (*HTTPProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: no API key", ErrProviderFailed)
	}
	p := &HTTPProvider{
		apiKey:    apiKey,
		apiURL:    DefaultAPIURL,
		model:     DefaultModel,
		dimension: DefaultModelDimension,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Embed requests an embedding for a single text.
func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	reqBody := map[string]any{
		"input": []string{text},
		"model": p.model,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: api error %d: %s", ErrProviderFailed, resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", ErrProviderFailed)
	}

	return apiResp.Data[0].Embedding, nil
}

// Dimension returns the expected vector size for the configured model.
func (p *HTTPProvider) Dimension() int { return p.dimension }

// Name returns the provider name.
func (p *HTTPProvider) Name() string { return "http:" + p.model }

// Close releases idle connections.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
