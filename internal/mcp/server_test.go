package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/patternscout/internal/discovery"
	"github.com/dshills/patternscout/internal/embedder"
	"github.com/dshills/patternscout/internal/simindex"
	"github.com/dshills/patternscout/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	emb := embedder.New(nil, nil, logger)
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	engine, err := discovery.New(discovery.Config{}, discovery.Deps{
		Embedder: emb,
		Index:    simindex.NewMemoryIndex(emb.Dimension()),
		Store:    st,
		Logger:   logger,
	})
	require.NoError(t, err)

	return newServer(engine, logger)
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func TestDiscoverPatternsTool(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleDiscoverPatterns(context.Background(), callRequest(map[string]interface{}{
		"component_type": "button",
		"component_id":   "login_btn",
		"interactive":    true,
		"context":        "mobile",
	}))
	require.NoError(t, err)

	out := resultJSON(t, res)
	assert.Equal(t, float64(1), out["count"])

	patterns, ok := out["patterns"].([]interface{})
	require.True(t, ok)
	first := patterns[0].(map[string]interface{})
	assert.Equal(t, "base", first["pattern_type"])
	assert.Equal(t, "button", first["component_type"])
	assert.NotEmpty(t, first["test_strategy"])
}

func TestDiscoverPatternsMissingType(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleDiscoverPatterns(context.Background(), callRequest(map[string]interface{}{
		"label": "Log in",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestSearchPatternsTool(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleSearchPatterns(context.Background(), callRequest(map[string]interface{}{
		"query": "form validation on submit",
	}))
	require.NoError(t, err)

	out := resultJSON(t, res)
	assert.Equal(t, float64(0), out["count"], "nothing indexed, nothing synthesized for free text")

	_, err = s.handleSearchPatterns(context.Background(), callRequest(map[string]interface{}{
		"query": "",
	}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestRecordOutcomeTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	// Discover first so a pattern exists to report against.
	res, err := s.handleDiscoverPatterns(ctx, callRequest(map[string]interface{}{
		"component_type": "form",
	}))
	require.NoError(t, err)
	out := resultJSON(t, res)
	patterns := out["patterns"].([]interface{})
	id := patterns[0].(map[string]interface{})["id"].(string)

	res, err = s.handleRecordOutcome(ctx, callRequest(map[string]interface{}{
		"pattern_id": id,
		"passed":     true,
	}))
	require.NoError(t, err)
	recorded := resultJSON(t, res)
	assert.Equal(t, true, recorded["recorded"])

	_, err = s.handleRecordOutcome(ctx, callRequest(map[string]interface{}{
		"pattern_id": "missing",
		"passed":     false,
	}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodePatternNotFound, mcpErr.Code)
}

func TestMCPErrorFormatting(t *testing.T) {
	err := &MCPError{Code: ErrorCodeInvalidParams, Message: "invalid params"}
	assert.Equal(t, "MCP error -32602: invalid params", err.Error())
}
