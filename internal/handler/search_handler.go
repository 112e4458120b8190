package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safetykb/msharag/internal/pkg/response"
	"github.com/safetykb/msharag/internal/service"
)

type SearchHandler struct {
	search *service.SearchService
}

func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

type searchRequest struct {
	Query       string    `json:"query"`
	QueryVector []float64 `json:"query_vector"`
	Mode        string    `json:"mode"`
	TopK        int       `json:"top_k"`
}

func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Mode == "" {
		req.Mode = "keyword"
	}
	if req.TopK == 0 {
		req.TopK = service.DefaultTopK
	}
	result := h.search.Search(c.Request.Context(), req.Query, req.Mode, req.TopK, req.QueryVector)
	response.Success(c, result)
}

func (h *SearchHandler) GetChunk(c *gin.Context) {
	chunkID := c.Param("id")
	chunk, ok := h.search.GetChunk(c.Request.Context(), chunkID)
	if !ok {
		response.Error(c, http.StatusNotFound, "chunk not found")
		return
	}
	response.Success(c, chunk)
}

func (h *SearchHandler) Stats(c *gin.Context) {
	response.Success(c, h.search.Stats(c.Request.Context()))
}

func (h *SearchHandler) Health(c *gin.Context) {
	stats := h.search.Stats(c.Request.Context())
	response.Success(c, gin.H{"status": "ok", "chunks": stats.Chunks})
}
