package search

import (
	"math"
	"sort"

	"github.com/safetykb/msharag/internal/model"
)

// ScoredID pairs a chunk id with a similarity score.
type ScoredID struct {
	ChunkID string
	Score   float64
}

// ScoreSemantic ranks all vectors by cosine similarity to the query
// embedding and truncates to topK. Unlike keyword scoring, no zero-score
// filtering is applied. An all-zero embedding on either side produces a
// NaN score; this is a known edge of the corpus data and is passed
// through, not repaired.
func ScoreSemantic(queryVector []float64, vectors []model.Vector, topK int) []ScoredID {
	scored := make([]ScoredID, 0, len(vectors))
	for _, v := range vectors {
		scored = append(scored, ScoredID{
			ChunkID: v.ChunkID,
			Score:   cosineSimilarity(queryVector, v.Embedding),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored
}

func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
