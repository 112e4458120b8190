package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/safetykb/msharag/internal/ai"
	"github.com/safetykb/msharag/internal/model"
	"github.com/safetykb/msharag/internal/search"
)

var (
	ErrQuestionRequired = errors.New("question is required")
	ErrAIUnavailable    = ai.ErrUnavailable
)

const (
	EventSources = "sources"
	EventDelta   = "delta"
	EventDone    = "done"
	EventError   = "error"
)

const systemPrompt = `You are an MSHA (Mine Safety and Health Administration) compliance expert assistant.
Answer questions about mine safety regulations, training requirements, and compliance procedures.

Use the following retrieved document excerpts to inform your answer. Cite sources using [Source N] notation.
If the documents don't contain relevant information, say so and provide general guidance.

Keep responses clear, practical, and actionable for mine operators.

RETRIEVED DOCUMENTS:
`

const noDocumentsFallback = "No specific documents found. Please answer based on general MSHA knowledge."

// StreamEvent is one event of a streamed answer.
type StreamEvent struct {
	Type    string                 `json:"type"`
	Sources []model.EnrichedResult `json:"sources,omitempty"`
	Text    string                 `json:"text,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// EmitFunc delivers one event to the client. An error means the client is
// gone and the relay must stop.
type EmitFunc func(event StreamEvent) error

// AnswerService turns a question into a streamed, grounded answer:
// retrieve context with keyword search, compose a prompt, relay the
// upstream generation as delta events. The sources event always precedes
// the first delta, and done/error always terminates the stream.
type AnswerService struct {
	search   *SearchService
	provider ai.IProvider
	model    string
	topK     int
	timeout  time.Duration
}

func NewAnswerService(searchSvc *SearchService, provider ai.IProvider, model string, topK int, timeout time.Duration) *AnswerService {
	if topK <= 0 {
		topK = 5
	}
	return &AnswerService{
		search:   searchSvc,
		provider: provider,
		model:    model,
		topK:     topK,
		timeout:  timeout,
	}
}

// Answer validates, then streams. Validation failures are returned before
// any event is emitted so the caller can answer with a structured error.
// Once streaming has begun, upstream failures become a terminal error
// event and a nil return; deltas already relayed are never retracted.
func (s *AnswerService) Answer(ctx context.Context, question string, topK int, emit EmitFunc) error {
	if question == "" {
		return ErrQuestionRequired
	}
	if !s.provider.Configured() {
		return ErrAIUnavailable
	}
	if topK <= 0 {
		topK = s.topK
	}

	result := s.search.Search(ctx, question, search.ModeKeyword, topK, nil)
	prompt := buildPrompt(question, result.Results)

	if err := emit(StreamEvent{Type: EventSources, Sources: result.Results}); err != nil {
		return err
	}

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var emitErr error
	err := s.provider.GenerateStream(genCtx, s.model, prompt, func(text string) error {
		if cbErr := emit(StreamEvent{Type: EventDelta, Text: text}); cbErr != nil {
			emitErr = cbErr
			return cbErr
		}
		return nil
	})
	if emitErr != nil {
		// Client disconnected mid-stream; nothing left to write.
		return emitErr
	}
	if err != nil {
		logutil.GetLogger(ctx).Error("answer generation failed", zap.Error(err))
		message := "Failed to generate response"
		var upstream *ai.UpstreamError
		if errors.As(err, &upstream) {
			message = upstream.Message
		}
		return emit(StreamEvent{Type: EventError, Error: message})
	}
	return emit(StreamEvent{Type: EventDone})
}

func buildPrompt(question string, results []model.EnrichedResult) string {
	excerpts := make([]string, 0, len(results))
	for i, r := range results {
		excerpts = append(excerpts, fmt.Sprintf("[Source %d]: %s", i+1, r.Text))
	}
	context := strings.Join(excerpts, "\n\n")
	if context == "" {
		context = noDocumentsFallback
	}
	return systemPrompt + context + "\n\nUser Question: " + question
}
