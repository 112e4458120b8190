package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/safetykb/msharag/internal/model"
)

// ScoredChunk pairs a chunk with a request-scoped relevance score.
type ScoredChunk struct {
	Chunk model.Chunk
	Score float64
}

var termSplit = regexp.MustCompile(`\s+`)

// ScoreKeyword ranks chunks by the fraction of query terms found as
// case-insensitive substrings of the chunk text. The query is split on
// runs of whitespace; leading or trailing whitespace yields an empty term
// that still counts toward the denominator (and matches every text).
// Ranking is stable on ties, truncated to topK, and only then stripped of
// zero scores, so a mostly-zero ranking can return fewer than topK
// entries even when matches exist past the cut.
func ScoreKeyword(query string, chunks []model.Chunk, topK int) []ScoredChunk {
	terms := termSplit.Split(strings.ToLower(query), -1)

	scored := make([]ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		text := strings.ToLower(chunk.Text)
		matches := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				matches++
			}
		}
		scored = append(scored, ScoredChunk{
			Chunk: chunk,
			Score: float64(matches) / float64(len(terms)),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if topK < len(scored) {
		scored = scored[:topK]
	}
	results := scored[:0:0]
	for _, item := range scored {
		if item.Score > 0 {
			results = append(results, item)
		}
	}
	return results
}
