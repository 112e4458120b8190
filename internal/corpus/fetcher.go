package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/safetykb/msharag/internal/config"
)

// ErrNotExist is returned by a Fetcher when the named collection file is
// absent. The loader treats it as an empty collection.
var ErrNotExist = errors.New("corpus file does not exist")

// Fetcher retrieves one corpus collection file by name, e.g.
// "chunks.jsonl".
type Fetcher interface {
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)
}

type Factory func(args interface{}) (Fetcher, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func NewFetcher(cfg config.CorpusConfig) (Fetcher, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Source))
	if key == "" {
		return nil, fmt.Errorf("corpus.source is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported corpus source: %s", cfg.Source)
	}
	return factory(cfg.Data)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("corpus source config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode corpus source config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode corpus source config: %w", err)
	}
	return nil
}
