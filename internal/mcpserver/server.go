// Package mcpserver exposes the retrieval engine as MCP tools over
// stdio, for clients that drive the corpus through a tool-calling model.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/safetykb/msharag/internal/service"
)

const Version = "1.0.0"

type Server struct {
	search *service.SearchService
	server *mcp.Server
}

func NewServer(search *service.SearchService) *Server {
	impl := &mcp.Implementation{
		Name:    "msha-rag-server",
		Version: Version,
	}
	s := &Server{
		search: search,
		server: mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
