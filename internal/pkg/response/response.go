package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers reply with the resource body at the top level, not wrapped in
// an envelope; error replies carry a single error field.

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
