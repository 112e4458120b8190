package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/safetykb/msharag/internal/corpus"
	"github.com/safetykb/msharag/internal/model"
	"github.com/safetykb/msharag/internal/search"
)

func TestSearchService_KeywordSearchAndLookup(t *testing.T) {
	store := corpus.NewStore(corpus.NewSnapshot(
		[]model.Source{{SourceID: "s1", SourceName: "Part 56", URI: "http://x", Type: "regulation"}},
		[]model.Chunk{{ChunkID: "c1", SourceID: "s1", Text: "Miners must wear hard hats"}},
		[]model.Vector{{ChunkID: "c1", Embedding: []float64{1, 0}}},
	))
	svc := NewSearchService(store)

	result := svc.Search(context.Background(), "hard hats", search.ModeKeyword, 10, nil)
	require.Equal(t, 1, result.Total)
	require.Equal(t, "Part 56", *result.Results[0].SourceName)

	chunk, ok := svc.GetChunk(context.Background(), "c1")
	require.True(t, ok)
	require.Equal(t, "Miners must wear hard hats", chunk.Text)
	_, ok = svc.GetChunk(context.Background(), "ghost")
	require.False(t, ok)

	require.Equal(t, corpus.Stats{Chunks: 1, Vectors: 1}, svc.Stats(context.Background()))
}

func TestSearchService_DefaultsModeToKeyword(t *testing.T) {
	store := corpus.NewStore(corpus.NewSnapshot(nil, []model.Chunk{{ChunkID: "c1", Text: "roof bolts"}}, nil))
	svc := NewSearchService(store)
	result := svc.Search(context.Background(), "roof", "", 10, nil)
	require.Equal(t, search.ModeKeyword, result.Mode)
	require.Equal(t, 1, result.Total)
}

func TestSearchService_CacheInvalidatedBySnapshotSwap(t *testing.T) {
	store := corpus.NewStore(corpus.NewSnapshot(nil, []model.Chunk{{ChunkID: "old", Text: "methane rules"}}, nil))
	svc := NewSearchService(store)

	first := svc.Search(context.Background(), "methane", search.ModeKeyword, 10, nil)
	require.Equal(t, "old", first.Results[0].ChunkID)
	// Warm hit returns the same ranking.
	require.Equal(t, first, svc.Search(context.Background(), "methane", search.ModeKeyword, 10, nil))

	store.Swap(corpus.NewSnapshot(nil, []model.Chunk{{ChunkID: "new", Text: "methane rules revised"}}, nil))
	second := svc.Search(context.Background(), "methane", search.ModeKeyword, 10, nil)
	require.Equal(t, "new", second.Results[0].ChunkID)
}

func TestSearchService_SemanticNotCached(t *testing.T) {
	store := corpus.NewStore(corpus.NewSnapshot(
		nil,
		[]model.Chunk{{ChunkID: "c1", Text: "x"}},
		[]model.Vector{{ChunkID: "c1", Embedding: []float64{1, 0}}},
	))
	svc := NewSearchService(store)

	result := svc.Search(context.Background(), "", search.ModeSemantic, 10, []float64{1, 0})
	require.Equal(t, 1, result.Total)
	// Same query without a vector degrades to empty rather than
	// replaying a cached ranking.
	result = svc.Search(context.Background(), "", search.ModeSemantic, 10, nil)
	require.Equal(t, 0, result.Total)
}
