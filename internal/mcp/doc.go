// Package mcp implements the Model Context Protocol (MCP) server for PatternScout.
//
// The MCP server exposes three tools to AI coding assistants:
//   - discover_patterns: Find ranked test patterns for a UI component
//   - search_patterns: Free-text search for test patterns
//   - record_outcome: Report whether an applied pattern's test passed
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output,
// making it simple to integrate with any MCP-compatible client.
//
// # Tool: discover_patterns
//
// Discover ranked test patterns for a described component:
//
//	Request:
//	{
//	  "name": "discover_patterns",
//	  "arguments": {
//	    "component_type": "button",
//	    "component_id": "login_btn",
//	    "label": "Log in",
//	    "interactive": true,
//	    "context": "mobile"
//	  }
//	}
//
//	Response:
//	{
//	  "patterns": [
//	    {
//	      "id": "3f6c...",
//	      "component_type": "button",
//	      "pattern_type": "base",
//	      "description": "Tap the button and verify the expected state change occurs",
//	      "test_strategy": "locate by id or label, tap, assert resulting state or navigation",
//	      "source": "internal",
//	      "final_score": 1.05
//	    }
//	  ],
//	  "count": 1
//	}
//
// An empty index never yields an empty answer: a starter pattern is
// synthesized, persisted, and returned.
//
// # Tool: search_patterns
//
// Search patterns by free text:
//
//	Request:
//	{
//	  "name": "search_patterns",
//	  "arguments": {
//	    "query": "form validation on submit",
//	    "context": "web",
//	    "limit": 10
//	  }
//	}
//
// # Tool: record_outcome
//
// Feed a test run result back into a pattern's success history:
//
//	Request:
//	{
//	  "name": "record_outcome",
//	  "arguments": {
//	    "pattern_id": "3f6c...",
//	    "passed": true
//	  }
//	}
//
// # Error Handling
//
// The server returns standard JSON-RPC error responses. Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error
//   - -32001: Pattern not found
//
// # Logging
//
// The MCP server logs to stderr (stdout is reserved for MCP protocol).
package mcp
