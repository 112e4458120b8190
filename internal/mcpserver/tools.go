package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/safetykb/msharag/internal/corpus"
	"github.com/safetykb/msharag/internal/model"
	"github.com/safetykb/msharag/internal/service"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query       string    `json:"query" jsonschema:"search query"`
	QueryVector []float64 `json:"query_vector,omitempty" jsonschema:"precomputed embedding vector, required for semantic and hybrid modes"`
	Mode        string    `json:"mode,omitempty" jsonschema:"one of keyword, semantic, hybrid (default keyword)"`
	TopK        int       `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []model.EnrichedResult `json:"results"`
	Total   int                    `json:"total"`
	Mode    string                 `json:"mode"`
}

// GetChunkInput is the input schema for the get_chunk tool.
type GetChunkInput struct {
	ChunkID string `json:"chunk_id" jsonschema:"chunk identifier"`
}

// GetChunkOutput carries the chunk when found.
type GetChunkOutput struct {
	Found bool         `json:"found"`
	Chunk *model.Chunk `json:"chunk,omitempty"`
}

// StatsOutput reports corpus size.
type StatsOutput struct {
	Stats corpus.Stats `json:"stats"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "RAG search API for MSHA mine safety regulations and compliance guidance",
	}, s.handleSearch)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_chunk",
		Description: "Get a specific chunk by ID",
	}, s.handleGetChunk)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stats",
		Description: "Get index statistics",
	}, s.handleStats)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	mode := input.Mode
	if mode == "" {
		mode = "keyword"
	}
	topK := input.TopK
	if topK <= 0 {
		topK = service.DefaultTopK
	}
	result := s.search.Search(ctx, input.Query, mode, topK, input.QueryVector)
	return nil, SearchOutput{
		Results: result.Results,
		Total:   result.Total,
		Mode:    result.Mode,
	}, nil
}

func (s *Server) handleGetChunk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetChunkInput,
) (*mcp.CallToolResult, GetChunkOutput, error) {
	chunk, ok := s.search.GetChunk(ctx, input.ChunkID)
	if !ok {
		return nil, GetChunkOutput{Found: false}, nil
	}
	return nil, GetChunkOutput{Found: true, Chunk: &chunk}, nil
}

func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatsOutput, error) {
	return nil, StatsOutput{Stats: s.search.Stats(ctx)}, nil
}
