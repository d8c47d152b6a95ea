package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// discoverPatternsTool returns the tool definition for discover_patterns
func discoverPatternsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "discover_patterns",
		Description: "Discover ranked test patterns for a described UI component",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"component_type": map[string]interface{}{
					"type":        "string",
					"description": "Component kind, e.g. button, input, form, list, modal",
				},
				"component_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the component instance, e.g. login_btn",
				},
				"label": map[string]interface{}{
					"type":        "string",
					"description": "Visible text or accessibility label",
				},
				"interactive": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether the component responds to user interaction",
					"default":     false,
				},
				"requires_auth": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether the component sits behind authentication",
					"default":     false,
				},
				"real_time": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether the component updates in real time",
					"default":     false,
				},
				"attributes": map[string]interface{}{
					"type":        "object",
					"description": "Arbitrary framework attributes (enabled, placeholder, ...)",
				},
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Query context selecting vocabulary and scoring emphasis",
					"enum":        []string{"mobile", "web", "api", "performance", "accessibility", "general"},
					"default":     "general",
				},
			},
			Required: []string{"component_type"},
		},
	}
}

// searchPatternsTool returns the tool definition for search_patterns
func searchPatternsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_patterns",
		Description: "Search test patterns with a free-text query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text search query",
				},
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Query context selecting vocabulary and scoring emphasis",
					"enum":        []string{"mobile", "web", "api", "performance", "accessibility", "general"},
					"default":     "general",
				},
			},
			Required: []string{"query"},
		},
	}
}

// recordOutcomeTool returns the tool definition for record_outcome
func recordOutcomeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "record_outcome",
		Description: "Record whether a test built from a pattern passed or failed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pattern_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the pattern the test was built from",
				},
				"passed": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether the test passed",
				},
			},
			Required: []string{"pattern_id", "passed"},
		},
	}
}
