package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/patternscout/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodePatternNotFound = -32001 // No pattern with the given identifier
)

// handleDiscoverPatterns handles the discover_patterns tool invocation
func (s *Server) handleDiscoverPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	componentType, ok := args["component_type"].(string)
	if !ok || componentType == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "component_type parameter is required", map[string]interface{}{
			"param":  "component_type",
			"reason": "missing or empty",
		})
	}

	component := types.ComponentDescriptor{
		Type:         componentType,
		ID:           getStringDefault(args, "component_id", ""),
		Label:        getStringDefault(args, "label", ""),
		Interactive:  getBoolDefault(args, "interactive", false),
		RequiresAuth: getBoolDefault(args, "requires_auth", false),
		RealTime:     getBoolDefault(args, "real_time", false),
		Attributes:   getStringMap(args, "attributes"),
	}
	qctx := types.QueryContext(getStringDefault(args, "context", string(types.ContextGeneral)))

	patterns, err := s.engine.Discover(ctx, component, qctx)
	if err != nil {
		return nil, toolError("discovery failed", err)
	}

	return mcp.NewToolResultText(formatJSON(patternsResponse(patterns))), nil
}

// handleSearchPatterns handles the search_patterns tool invocation
func (s *Server) handleSearchPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}
	qctx := types.QueryContext(getStringDefault(args, "context", string(types.ContextGeneral)))

	patterns, err := s.engine.Search(ctx, query, qctx)
	if err != nil {
		return nil, toolError("search failed", err)
	}

	return mcp.NewToolResultText(formatJSON(patternsResponse(patterns))), nil
}

// handleRecordOutcome handles the record_outcome tool invocation
func (s *Server) handleRecordOutcome(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	patternID, ok := args["pattern_id"].(string)
	if !ok || patternID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "pattern_id parameter is required", map[string]interface{}{
			"param":  "pattern_id",
			"reason": "missing or empty",
		})
	}
	passed, ok := args["passed"].(bool)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "passed parameter is required", map[string]interface{}{
			"param":  "passed",
			"reason": "missing or not a boolean",
		})
	}

	if err := s.engine.RecordOutcome(ctx, patternID, passed); err != nil {
		if errors.Is(err, types.ErrPatternNotFound) {
			return nil, newMCPError(ErrorCodePatternNotFound, "pattern not found", map[string]interface{}{
				"pattern_id": patternID,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to record outcome", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"recorded":   true,
		"pattern_id": patternID,
		"passed":     passed,
	})), nil
}

// patternsResponse formats a ranked pattern list for the wire.
func patternsResponse(patterns []*types.Pattern) map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(patterns))
	for _, p := range patterns {
		entry := map[string]interface{}{
			"id":             p.ID,
			"component_type": p.ComponentType,
			"pattern_type":   p.PatternType,
			"description":    p.Description,
			"test_strategy":  p.TestStrategy,
			"source":         string(p.Source),
			"final_score":    p.FinalScore,
		}
		if p.URL != "" {
			entry["url"] = p.URL
		}
		if len(p.Tags) > 0 {
			entry["tags"] = p.Tags
		}
		out = append(out, entry)
	}
	return map[string]interface{}{
		"patterns": out,
		"count":    len(out),
	}
}

// toolError maps engine errors onto MCP error codes: caller mistakes are
// invalid params, everything else is internal.
func toolError(message string, err error) error {
	switch {
	case errors.Is(err, types.ErrEmptyComponentType),
		errors.Is(err, types.ErrEmptyQuery),
		errors.Is(err, types.ErrUnknownContext),
		errors.Is(err, types.ErrInvalidThreshold),
		errors.Is(err, types.ErrInvalidLimit):
		return newMCPError(ErrorCodeInvalidParams, message, map[string]interface{}{
			"reason": err.Error(),
		})
	default:
		return newMCPError(ErrorCodeInternalError, message, map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// getStringMap extracts a string-valued object parameter. Non-string values
// are dropped.
func getStringMap(args map[string]interface{}, key string) map[string]string {
	raw, ok := args[key].(map[string]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
