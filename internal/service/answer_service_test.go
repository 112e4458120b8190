package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/safetykb/msharag/internal/ai"
	"github.com/safetykb/msharag/internal/corpus"
	"github.com/safetykb/msharag/internal/model"
)

type fakeProvider struct {
	configured bool
	deltas     []string
	err        error
	failBefore bool
	lastPrompt string
}

func (f *fakeProvider) Name() string {
	return "fake"
}

func (f *fakeProvider) Configured() bool {
	return f.configured
}

func (f *fakeProvider) GenerateStream(ctx context.Context, model string, prompt string, onDelta ai.DeltaFunc) error {
	f.lastPrompt = prompt
	if f.failBefore {
		return f.err
	}
	for _, d := range f.deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return f.err
}

func newTestSearchService(chunks []model.Chunk, sources []model.Source) *SearchService {
	return NewSearchService(corpus.NewStore(corpus.NewSnapshot(sources, chunks, nil)))
}

func collectEvents(t *testing.T, svc *AnswerService, question string, topK int) ([]StreamEvent, error) {
	t.Helper()
	var events []StreamEvent
	err := svc.Answer(context.Background(), question, topK, func(event StreamEvent) error {
		events = append(events, event)
		return nil
	})
	return events, err
}

func TestAnswer_SourcesPrecedeDeltasThenDone(t *testing.T) {
	searchSvc := newTestSearchService(
		[]model.Chunk{{ChunkID: "c1", SourceID: "s1", Text: "Miners must wear hard hats"}},
		[]model.Source{{SourceID: "s1", SourceName: "Part 56"}},
	)
	provider := &fakeProvider{configured: true, deltas: []string{"Hard ", "hats ", "are required."}}
	svc := NewAnswerService(searchSvc, provider, "m", 5, 0)

	events, err := collectEvents(t, svc, "hard hats", 0)
	require.NoError(t, err)
	require.Len(t, events, 5)
	require.Equal(t, EventSources, events[0].Type)
	require.Len(t, events[0].Sources, 1)
	require.Equal(t, "c1", events[0].Sources[0].ChunkID)
	for i, want := range []string{"Hard ", "hats ", "are required."} {
		require.Equal(t, EventDelta, events[i+1].Type)
		require.Equal(t, want, events[i+1].Text)
	}
	require.Equal(t, EventDone, events[4].Type)

	require.Contains(t, provider.lastPrompt, "[Source 1]: Miners must wear hard hats")
	require.Contains(t, provider.lastPrompt, "User Question: hard hats")
}

func TestAnswer_NoMatchesStillStreams(t *testing.T) {
	searchSvc := newTestSearchService(nil, nil)
	provider := &fakeProvider{configured: true, deltas: []string{"General guidance."}}
	svc := NewAnswerService(searchSvc, provider, "m", 5, 0)

	events, err := collectEvents(t, svc, "unrelated question", 0)
	require.NoError(t, err)
	require.Equal(t, EventSources, events[0].Type)
	require.Empty(t, events[0].Sources)
	require.Equal(t, EventDelta, events[1].Type)
	require.Equal(t, EventDone, events[2].Type)
	require.Contains(t, provider.lastPrompt, noDocumentsFallback)
}

func TestAnswer_UpstreamFailureEmitsSingleError(t *testing.T) {
	searchSvc := newTestSearchService(nil, nil)
	provider := &fakeProvider{
		configured: true,
		failBefore: true,
		err:        &ai.UpstreamError{StatusCode: 500, Message: "model overloaded"},
	}
	svc := NewAnswerService(searchSvc, provider, "m", 5, 0)

	events, err := collectEvents(t, svc, "question", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, EventSources, events[0].Type)
	require.Equal(t, EventError, events[1].Type)
	require.Equal(t, "model overloaded", events[1].Error)
}

func TestAnswer_MidStreamFailureKeepsSentDeltas(t *testing.T) {
	searchSvc := newTestSearchService(nil, nil)
	provider := &fakeProvider{
		configured: true,
		deltas:     []string{"partial ", "answer"},
		err:        errors.New("connection reset"),
	}
	svc := NewAnswerService(searchSvc, provider, "m", 5, 0)

	events, err := collectEvents(t, svc, "question", 0)
	require.NoError(t, err)
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	require.Equal(t, []string{EventSources, EventDelta, EventDelta, EventError}, types)
	// Network failures surface as a generic message, not the raw error.
	require.Equal(t, "Failed to generate response", events[3].Error)
}

func TestAnswer_ValidationFailsBeforeAnyEvent(t *testing.T) {
	searchSvc := newTestSearchService(nil, nil)

	svc := NewAnswerService(searchSvc, &fakeProvider{configured: true}, "m", 5, 0)
	events, err := collectEvents(t, svc, "", 0)
	require.ErrorIs(t, err, ErrQuestionRequired)
	require.Empty(t, events)

	svc = NewAnswerService(searchSvc, &fakeProvider{configured: false}, "m", 5, 0)
	events, err = collectEvents(t, svc, "question", 0)
	require.ErrorIs(t, err, ErrAIUnavailable)
	require.Empty(t, events)
}

func TestAnswer_TopKDefaultBoundsRetrieval(t *testing.T) {
	chunks := []model.Chunk{
		{ChunkID: "c1", SourceID: "s1", Text: "dust sampling procedure one"},
		{ChunkID: "c2", SourceID: "s1", Text: "dust sampling procedure two"},
	}
	searchSvc := newTestSearchService(chunks, nil)
	provider := &fakeProvider{configured: true, deltas: []string{"ok"}}
	svc := NewAnswerService(searchSvc, provider, "m", 1, 0)

	events, err := collectEvents(t, svc, "dust sampling", 0)
	require.NoError(t, err)
	require.Len(t, events[0].Sources, 1)
	require.Contains(t, provider.lastPrompt, "[Source 1]")
	require.False(t, strings.Contains(provider.lastPrompt, "[Source 2]"))
}

func TestAnswer_ClientDisconnectStopsRelay(t *testing.T) {
	searchSvc := newTestSearchService(nil, nil)
	provider := &fakeProvider{configured: true, deltas: []string{"a", "b", "c"}}
	svc := NewAnswerService(searchSvc, provider, "m", 5, 0)

	sent := 0
	sinkErr := errors.New("client gone")
	err := svc.Answer(context.Background(), "question", 0, func(event StreamEvent) error {
		sent++
		if sent > 2 {
			return sinkErr
		}
		return nil
	})
	require.ErrorIs(t, err, sinkErr)
	// sources + first delta accepted, second delta rejected, no
	// terminal event after the sink failed.
	require.Equal(t, 3, sent)
}
