package corpus

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type localConfig struct {
	Dir string `json:"dir"`
}

type localFetcher struct {
	dir string
}

func init() {
	Register("local", createLocalFetcher)
}

func createLocalFetcher(args interface{}) (Fetcher, error) {
	cfg := &localConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("local corpus dir is required")
	}
	return &localFetcher{dir: cfg.Dir}, nil
}

func (f *localFetcher) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	_ = ctx
	file, err := os.Open(filepath.Join(f.dir, filepath.Base(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return file, nil
}
