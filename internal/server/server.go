// Package server provides the MCP server wrapper with lifecycle management.
package server

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with logging middleware and lifecycle
// management. One server owns one agent run's ledger.
type Server struct {
	mcp    *mcp.Server
	logger *slog.Logger
}

// New creates a new MCP server with the given version and logger.
// Request logging middleware is installed up front.
func New(version string, logger *slog.Logger) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "retrace",
		Version: version,
	}, nil)
	mcpServer.AddReceivingMiddleware(LoggingMiddleware(logger))

	return &Server{
		mcp:    mcpServer,
		logger: logger,
	}
}

// Run starts the server on stdio transport and blocks until disconnect or
// context cancellation.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server", "transport", "stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// RunTransport runs the server on a caller-supplied transport (tests use
// in-memory transports).
func (s *Server) RunTransport(ctx context.Context, transport mcp.Transport) error {
	return s.mcp.Run(ctx, transport)
}

// MCPServer returns the underlying MCP server for tool registration.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}
