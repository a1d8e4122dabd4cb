// Package mcpserver exposes variable change analysis as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/varscope/internal/service/analysis"
)

// Server wraps the MCP server and registers the varscope tools.
type Server struct {
	server  *mcp.Server
	service *analysis.Service
}

// NewServer creates a new MCP server. A nil service uses the configuration
// found in the working directory.
func NewServer(version string, service *analysis.Service) *Server {
	if version == "" {
		version = "dev"
	}
	if service == nil {
		service = analysis.New()
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "varscope",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, service: service}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_variables",
		Description: describeAnalyzeVariables(),
	}, s.handleAnalyzeVariables)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_commit",
		Description: describeAnalyzeCommit(),
	}, s.handleAnalyzeCommit)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_methods",
		Description: describeListMethods(),
	}, s.handleListMethods)
}
