package corpus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/safetykb/msharag/internal/model"
)

func TestSnapshotLookups(t *testing.T) {
	snap := NewSnapshot(
		[]model.Source{{SourceID: "s1", SourceName: "Part 56"}},
		[]model.Chunk{
			{ChunkID: "c1", SourceID: "s1", Text: "first"},
			{ChunkID: "c2", SourceID: "missing", Text: "second"},
		},
		[]model.Vector{{ChunkID: "c1", Embedding: []float64{1, 2}}},
	)

	chunk, ok := snap.Chunk("c1")
	require.True(t, ok)
	require.Equal(t, "first", chunk.Text)

	_, ok = snap.Chunk("nope")
	require.False(t, ok)

	source, ok := snap.Source("s1")
	require.True(t, ok)
	require.Equal(t, "Part 56", source.SourceName)

	_, ok = snap.Source("missing")
	require.False(t, ok)

	require.Len(t, snap.Chunks(), 2)
	require.Equal(t, "c1", snap.Chunks()[0].ChunkID)
	require.Len(t, snap.Vectors(), 1)
	require.Equal(t, Stats{Chunks: 2, Vectors: 1}, snap.Stats())
}

func TestStoreSwapAdvancesGeneration(t *testing.T) {
	store := NewStore(NewSnapshot(nil, nil, nil))
	first := store.Current()
	require.Equal(t, uint64(1), first.Generation())

	store.Swap(NewSnapshot(nil, []model.Chunk{{ChunkID: "c1"}}, nil))
	second := store.Current()
	require.Equal(t, uint64(2), second.Generation())
	require.Equal(t, 1, second.Stats().Chunks)

	// The old snapshot is untouched by the swap.
	require.Equal(t, 0, first.Stats().Chunks)
}
