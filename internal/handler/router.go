package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Search *SearchHandler
	Chat   *ChatHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/health", deps.Search.Health)
	api.GET("/stats", deps.Search.Stats)
	api.GET("/chunks/:id", deps.Search.GetChunk)
	api.POST("/search", deps.Search.Search)
	api.POST("/chat", deps.Chat.Chat)
}
