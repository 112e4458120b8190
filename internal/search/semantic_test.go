package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/safetykb/msharag/internal/model"
)

func TestScoreSemantic_RanksByCosineSimilarity(t *testing.T) {
	vectors := []model.Vector{
		{ChunkID: "c1", Embedding: []float64{1, 0}},
		{ChunkID: "c2", Embedding: []float64{0, 1}},
		{ChunkID: "c3", Embedding: []float64{0.7, 0.7}},
	}
	results := ScoreSemantic([]float64{1, 0}, vectors, 10)
	require.Len(t, results, 3)
	require.Equal(t, "c1", results[0].ChunkID)
	require.InDelta(t, 1.0, results[0].Score, 1e-9)
	require.Equal(t, "c3", results[1].ChunkID)
	require.Equal(t, "c2", results[2].ChunkID)
	require.InDelta(t, 0.0, results[2].Score, 1e-9)
}

func TestScoreSemantic_SelfSimilarityIsOne(t *testing.T) {
	v := []float64{0.3, -1.2, 4.5, 0.01}
	results := ScoreSemantic(v, []model.Vector{{ChunkID: "c1", Embedding: v}}, 1)
	require.Len(t, results, 1)
	require.InDelta(t, 1.0, results[0].Score, 1e-12)
}

func TestScoreSemantic_TruncatesToTopK(t *testing.T) {
	vectors := []model.Vector{
		{ChunkID: "c1", Embedding: []float64{1, 0}},
		{ChunkID: "c2", Embedding: []float64{0, 1}},
	}
	require.Len(t, ScoreSemantic([]float64{1, 0}, vectors, 1), 1)
	// topK larger than the vector set returns everything.
	require.Len(t, ScoreSemantic([]float64{1, 0}, vectors, 5), 2)
}

func TestScoreSemantic_NoZeroFiltering(t *testing.T) {
	vectors := []model.Vector{
		{ChunkID: "c1", Embedding: []float64{-1, 0}},
	}
	results := ScoreSemantic([]float64{1, 0}, vectors, 10)
	require.Len(t, results, 1)
	require.InDelta(t, -1.0, results[0].Score, 1e-9)
}

func TestScoreSemantic_ZeroVectorYieldsNaN(t *testing.T) {
	// All-zero embeddings are a known data edge; the score is passed
	// through undefined rather than repaired.
	results := ScoreSemantic([]float64{1, 0}, []model.Vector{{ChunkID: "c1", Embedding: []float64{0, 0}}}, 10)
	require.Len(t, results, 1)
	require.True(t, math.IsNaN(results[0].Score))
}
