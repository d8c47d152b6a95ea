package simindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackendServer(t *testing.T, fail *bool) *httptest.Server {
	t.Helper()
	store := map[string][]float32{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if *fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/points/search"):
			var req struct {
				Vector []float32 `json:"vector"`
				Limit  int       `json:"limit"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			type hit struct {
				ID    string  `json:"id"`
				Score float64 `json:"score"`
			}
			hits := []hit{}
			for id, vec := range store {
				hits = append(hits, hit{ID: id, Score: CosineSimilarity(req.Vector, vec)})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"result": hits})
		case strings.HasSuffix(r.URL.Path, "/points/count"):
			_ = json.NewEncoder(w).Encode(map[string]any{"result": map[string]int{"count": len(store)}})
		default: // upsert
			var req struct {
				Points []struct {
					ID     string    `json:"id"`
					Vector []float32 `json:"vector"`
				} `json:"points"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			for _, p := range req.Points {
				store[p.ID] = p.Vector
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
		}
	}))
}

func TestBackendIndexRoundTrip(t *testing.T) {
	fail := false
	server := newBackendServer(t, &fail)
	defer server.Close()

	backend, err := NewBackendIndex(BackendConfig{BaseURL: server.URL})
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, backend.Upsert(ctx, "p1", []float32{1, 0}, nil))

	matches, err := backend.Search(ctx, []float32{1, 0}, 5, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "p1", matches[0].ID)

	n, err := backend.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFailoverIndexUsesFallbackOnBackendError(t *testing.T) {
	fail := false
	server := newBackendServer(t, &fail)
	defer server.Close()

	backend, err := NewBackendIndex(BackendConfig{BaseURL: server.URL})
	require.NoError(t, err)
	idx := NewFailoverIndex(backend, 2, nil)
	defer idx.Close()

	ctx := context.Background()
	require.NoError(t, idx.Upsert(ctx, "p1", []float32{1, 0}, nil))
	require.NoError(t, idx.Upsert(ctx, "p2", []float32{0, 1}, nil))

	// Kill the backend; the search must transparently fall back.
	fail = true
	matches, err := idx.Search(ctx, []float32{1, 0}, 5, 0.5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "p1", matches[0].ID)
}

func TestFailoverIndexUpsertSurvivesBackendOutage(t *testing.T) {
	fail := true
	server := newBackendServer(t, &fail)
	defer server.Close()

	backend, err := NewBackendIndex(BackendConfig{BaseURL: server.URL})
	require.NoError(t, err)
	idx := NewFailoverIndex(backend, 2, nil)
	defer idx.Close()

	ctx := context.Background()
	// Backend down for the entire lifetime; the fallback carries the load.
	require.NoError(t, idx.Upsert(ctx, "p1", []float32{1, 0}, nil))

	matches, err := idx.Search(ctx, []float32{1, 0}, 5, 0)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
