// Package webclient is the sole egress point to the external pattern
// search source.
//
// Every outbound request passes one rate budget (a minimum inter-request
// interval enforced by blocking, not spinning) and one retry policy
// (bounded exponential backoff on HTTP 429 and 5xx). Routing all calls
// through this client keeps both invariants global: no other component
// may reach the external source directly.
package webclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultMaxRetries     = 3
	DefaultMinInterval    = 100 * time.Millisecond
	DefaultTimeout        = 15 * time.Second
	DefaultInitialBackoff = 200 * time.Millisecond
)

// StatusError reports a non-2xx response from the external source.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("external source returned %d: %s", e.Code, e.Body)
}

// Retryable reports whether the status indicates a transient condition.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Config configures the client.
type Config struct {
	BaseURL        string
	APIKey         string // sent as a bearer credential when set
	MaxRetries     int
	MinInterval    time.Duration
	Timeout        time.Duration // per attempt
	InitialBackoff time.Duration
}

// Client wraps outbound HTTP with the rate budget and retry policy. It is
// safe for concurrent use; the limiter serializes concurrent requesters so
// none can observe a stale last-request time and burst past the budget.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a client. The rate budget is initialized once per client and
// lives until the client is discarded.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		logger:     logger,
	}
}

// Do issues one logical request: rate-limited, retried on 429/5xx up to
// MaxRetries additional attempts, with other 4xx propagated immediately.
// On success the response body is decoded into out when non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = c.cfg.InitialBackoff
	expBackoff.MaxInterval = 60 * c.cfg.InitialBackoff

	operation := func() ([]byte, error) {
		// The rate budget applies to every attempt, retries included.
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}
		respBody, err := c.doOnce(ctx, method, path, payload)
		if err == nil {
			return respBody, nil
		}
		if statusErr, ok := err.(*StatusError); ok && !statusErr.Retryable() {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	// MaxTries counts the initial attempt, so MaxRetries retries means
	// MaxRetries+1 tries in total.
	respBody, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(uint(c.cfg.MaxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Debug("retrying external request", "path", path, "after", next, "error", err)
		}),
	)
	if err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// doOnce performs a single HTTP attempt.
func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors (timeouts, refused connections) are transient.
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
