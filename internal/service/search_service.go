package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/safetykb/msharag/internal/corpus"
	"github.com/safetykb/msharag/internal/model"
	"github.com/safetykb/msharag/internal/search"
)

const DefaultTopK = 10

// SearchService fronts the retrieval engine. Keyword results are cached
// briefly; the cache key carries the snapshot generation so a corpus
// reload invalidates every cached entry at once.
type SearchService struct {
	store  *corpus.Store
	engine *search.Engine
	cache  *expirable.LRU[string, search.Result]
}

func NewSearchService(store *corpus.Store) *SearchService {
	return &SearchService{
		store:  store,
		engine: search.NewEngine(store),
		cache:  expirable.NewLRU[string, search.Result](4096, nil, 5*time.Minute),
	}
}

func (s *SearchService) Search(ctx context.Context, query string, mode string, topK int, queryVector []float64) search.Result {
	if mode == "" {
		mode = search.ModeKeyword
	}
	if topK < 1 {
		topK = 1
	}
	if mode == search.ModeKeyword {
		key := fmt.Sprintf("%d|%d|%s", s.store.Current().Generation(), topK, query)
		if cached, ok := s.cache.Get(key); ok {
			return cached
		}
		result := s.engine.Search(ctx, query, mode, topK, queryVector)
		s.cache.Add(key, result)
		return result
	}
	return s.engine.Search(ctx, query, mode, topK, queryVector)
}

func (s *SearchService) GetChunk(ctx context.Context, chunkID string) (model.Chunk, bool) {
	_ = ctx
	return s.store.Current().Chunk(chunkID)
}

func (s *SearchService) Stats(ctx context.Context) corpus.Stats {
	_ = ctx
	return s.store.Current().Stats()
}

// Reload fetches a fresh corpus and swaps it in atomically. In-flight
// requests keep the snapshot they started with.
func (s *SearchService) Reload(ctx context.Context, fetcher corpus.Fetcher) error {
	snap, err := corpus.Load(ctx, fetcher)
	if err != nil {
		return err
	}
	s.store.Swap(snap)
	stats := snap.Stats()
	logutil.GetLogger(ctx).Info("corpus snapshot swapped",
		zap.Uint64("generation", snap.Generation()),
		zap.Int("chunks", stats.Chunks),
		zap.Int("vectors", stats.Vectors),
	)
	return nil
}
