package job

import (
	"context"

	"github.com/safetykb/msharag/internal/corpus"
	"github.com/safetykb/msharag/internal/service"
)

// CorpusReloadJob refreshes the corpus from its configured source and
// installs it with an atomic snapshot swap. A failed fetch leaves the
// current snapshot in place.
type CorpusReloadJob struct {
	search  *service.SearchService
	fetcher corpus.Fetcher
}

func NewCorpusReloadJob(search *service.SearchService, fetcher corpus.Fetcher) *CorpusReloadJob {
	return &CorpusReloadJob{search: search, fetcher: fetcher}
}

func (j *CorpusReloadJob) Name() string {
	return "corpus_reload"
}

func (j *CorpusReloadJob) Run(ctx context.Context) error {
	return j.search.Reload(ctx, j.fetcher)
}
