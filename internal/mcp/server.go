package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/patternscout/internal/discovery"
)

const (
	// ServerName is the MCP server name
	ServerName = "patternscout"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the pattern database
	DefaultDBPath = "~/.patternscout"
)

// Server wraps the MCP server with the discovery engine.
type Server struct {
	mcp    *server.MCPServer
	engine *discovery.Engine
	logger *slog.Logger
}

// NewServer creates a new MCP server instance backed by the full discovery
// stack assembled from the environment.
func NewServer(ctx context.Context, dbPath string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".patternscout")
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	dbFile := filepath.Join(dbPath, "patterns.db")

	engine, err := discovery.NewFromEnv(ctx, dbFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize discovery engine: %w", err)
	}

	return newServer(engine, logger), nil
}

// newServer wires an existing engine. Split out so tests can supply an
// engine built on in-memory components.
func newServer(engine *discovery.Engine, logger *slog.Logger) *Server {
	s := &Server{
		mcp:    server.NewMCPServer(ServerName, ServerVersion),
		engine: engine,
		logger: logger,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.engine.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcp.AddTool(discoverPatternsTool(), s.handleDiscoverPatterns)
	s.mcp.AddTool(searchPatternsTool(), s.handleSearchPatterns)
	s.mcp.AddTool(recordOutcomeTool(), s.handleRecordOutcome)
}
