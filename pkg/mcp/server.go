package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/eunoia/pkg/invoke"
	"github.com/unowned-ai/eunoia/pkg/journal"
)

// EunoiaMCPServer exposes the journal services as MCP tools over stdio.
type EunoiaMCPServer struct {
	mcpServer *server.MCPServer
	svc       *journal.Services
	reg       *invoke.Registry
}

// NewEunoiaMCPServer builds the server and registers every tool.
func NewEunoiaMCPServer(svc *journal.Services, reg *invoke.Registry, version string) *EunoiaMCPServer {
	s := server.NewMCPServer(
		"Eunoia MCP Server",
		version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
		server.WithRecovery(),
	)
	srv := &EunoiaMCPServer{mcpServer: s, svc: svc, reg: reg}
	srv.registerTools()
	return srv
}

// Start runs the stdio event loop.
func (s *EunoiaMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the raw mcp-go server.
func (s *EunoiaMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}
