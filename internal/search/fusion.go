package search

import "sort"

// FuseRanks merges a keyword ranking and a semantic ranking with
// reciprocal-rank fusion: position i in either list contributes
// 1/(i+1) to that chunk's fused score. A chunk present in only one list
// receives only that list's contribution. Ties keep first-seen order,
// keyword list first. The fused ranking is truncated to topK.
func FuseRanks(keyword []ScoredChunk, semantic []ScoredID, topK int) []ScoredID {
	scores := make(map[string]float64, len(keyword)+len(semantic))
	order := make([]string, 0, len(keyword)+len(semantic))

	add := func(chunkID string, rank int) {
		if _, seen := scores[chunkID]; !seen {
			order = append(order, chunkID)
		}
		scores[chunkID] += 1 / float64(rank+1)
	}
	for i, item := range keyword {
		add(item.Chunk.ChunkID, i)
	}
	for i, item := range semantic {
		add(item.ChunkID, i)
	}

	fused := make([]ScoredID, 0, len(order))
	for _, chunkID := range order {
		fused = append(fused, ScoredID{ChunkID: chunkID, Score: scores[chunkID]})
	}
	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})
	if topK < len(fused) {
		fused = fused[:topK]
	}
	return fused
}
