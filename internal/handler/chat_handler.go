package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/safetykb/msharag/internal/pkg/response"
	"github.com/safetykb/msharag/internal/service"
)

type ChatHandler struct {
	answer *service.AnswerService
}

func NewChatHandler(answer *service.AnswerService) *ChatHandler {
	return &ChatHandler{answer: answer}
}

type chatRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// Chat streams the grounded answer as server-sent events. Validation
// failures surface as plain JSON errors because no event has been
// written yet; once the stream is open, terminal conditions are events.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request")
		return
	}

	streamStarted := false
	emit := func(event service.StreamEvent) error {
		if !streamStarted {
			c.Writer.Header().Set("Content-Type", "text/event-stream")
			c.Writer.Header().Set("Cache-Control", "no-cache")
			c.Writer.Header().Set("Connection", "keep-alive")
			streamStarted = true
		}
		data, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := c.Writer.WriteString("data: " + string(data) + "\n\n"); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	}

	err := h.answer.Answer(c.Request.Context(), req.Question, req.TopK, emit)
	if err == nil {
		return
	}
	if streamStarted {
		// The client went away mid-stream; there is nobody to tell.
		logutil.GetLogger(c.Request.Context()).Warn("chat stream aborted", zap.Error(err))
		return
	}
	switch {
	case errors.Is(err, service.ErrQuestionRequired):
		response.Error(c, http.StatusBadRequest, "question is required")
	case errors.Is(err, service.ErrAIUnavailable):
		response.Error(c, http.StatusInternalServerError, "ai provider not configured")
	default:
		response.Error(c, http.StatusInternalServerError, "internal error")
	}
}
