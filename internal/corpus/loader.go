package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/safetykb/msharag/internal/model"
)

const (
	sourcesFile = "sources.jsonl"
	chunksFile  = "chunks.jsonl"
	vectorsFile = "vectors.jsonl"

	// Chunk text can run long; lines up to this size are accepted.
	maxLineBytes = 4 << 20
)

// Load fetches the three corpus collections and builds a snapshot. A
// missing collection file is tolerated and yields an empty collection;
// a malformed line fails the whole load.
func Load(ctx context.Context, fetcher Fetcher) (*Snapshot, error) {
	logger := logutil.GetLogger(ctx)

	sources, err := loadCollection[model.Source](ctx, fetcher, sourcesFile)
	if err != nil {
		return nil, err
	}
	chunks, err := loadCollection[model.Chunk](ctx, fetcher, chunksFile)
	if err != nil {
		return nil, err
	}
	vectors, err := loadCollection[model.Vector](ctx, fetcher, vectorsFile)
	if err != nil {
		return nil, err
	}

	logger.Info("corpus loaded",
		zap.Int("sources", len(sources)),
		zap.Int("chunks", len(chunks)),
		zap.Int("vectors", len(vectors)),
	)
	return NewSnapshot(sources, chunks, vectors), nil
}

func loadCollection[T any](ctx context.Context, fetcher Fetcher, name string) ([]T, error) {
	rc, err := fetcher.Fetch(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			logutil.GetLogger(ctx).Warn("corpus file missing, continuing without it", zap.String("file", name))
			return nil, nil
		}
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer rc.Close()
	records, err := decodeLines[T](rc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return records, nil
}

func decodeLines[T any](r io.Reader) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	var records []T
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
