package search

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/safetykb/msharag/internal/corpus"
	"github.com/safetykb/msharag/internal/model"
)

const (
	ModeKeyword  = "keyword"
	ModeSemantic = "semantic"
	ModeHybrid   = "hybrid"
)

// Result is one ranked, enriched result set.
type Result struct {
	Results []model.EnrichedResult `json:"results"`
	Total   int                    `json:"total"`
	Mode    string                 `json:"mode"`
}

// Engine is the single retrieval entry point. It dispatches on mode and
// returns enriched, ranked results. Missing preconditions (no query
// vector for semantic or hybrid, unknown mode) degrade to an empty
// result set rather than an error.
type Engine struct {
	store *corpus.Store
}

func NewEngine(store *corpus.Store) *Engine {
	return &Engine{store: store}
}

func (e *Engine) Search(ctx context.Context, query string, mode string, topK int, queryVector []float64) Result {
	if topK < 1 {
		topK = 1
	}
	snap := e.store.Current()

	var scored []ScoredChunk
	switch {
	case mode == ModeKeyword:
		scored = ScoreKeyword(query, snap.Chunks(), topK)
	case mode == ModeSemantic && len(queryVector) > 0:
		semantic := ScoreSemantic(queryVector, snap.Vectors(), topK)
		scored = resolveChunks(snap, semantic)
	case mode == ModeHybrid && len(queryVector) > 0:
		keyword := ScoreKeyword(query, snap.Chunks(), topK*2)
		semantic := ScoreSemantic(queryVector, snap.Vectors(), topK*2)
		fused := FuseRanks(keyword, semantic, topK)
		scored = resolveChunks(snap, fused)
	default:
		logutil.GetLogger(ctx).Debug("search precondition not met, returning empty set",
			zap.String("mode", mode),
			zap.Bool("has_vector", len(queryVector) > 0),
		)
	}

	results := make([]model.EnrichedResult, 0, len(scored))
	for _, item := range scored {
		results = append(results, enrich(snap, item.Chunk, item.Score))
	}
	return Result{Results: results, Total: len(results), Mode: mode}
}

// resolveChunks maps ranked ids back to chunks, silently dropping ids a
// stale vector may still carry for a chunk that no longer exists.
func resolveChunks(snap *corpus.Snapshot, ranked []ScoredID) []ScoredChunk {
	scored := make([]ScoredChunk, 0, len(ranked))
	for _, item := range ranked {
		chunk, ok := snap.Chunk(item.ChunkID)
		if !ok {
			continue
		}
		scored = append(scored, ScoredChunk{Chunk: chunk, Score: item.Score})
	}
	return scored
}

// enrich joins a scored chunk with its source metadata. An unresolved
// source_id leaves the source fields null; that is expected, not an
// error.
func enrich(snap *corpus.Snapshot, chunk model.Chunk, score float64) model.EnrichedResult {
	result := model.EnrichedResult{
		ChunkID:  chunk.ChunkID,
		Text:     chunk.Text,
		Score:    score,
		SourceID: chunk.SourceID,
		Metadata: chunk.Metadata,
	}
	if source, ok := snap.Source(chunk.SourceID); ok {
		result.SourceURL = &source.URI
		result.SourceName = &source.SourceName
		result.SourceType = &source.Type
	}
	return result
}
