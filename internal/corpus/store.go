package corpus

import (
	"sync/atomic"

	"github.com/safetykb/msharag/internal/model"
)

// Stats reports the size of the loaded corpus.
type Stats struct {
	Chunks  int `json:"chunks"`
	Vectors int `json:"vectors"`
}

// Snapshot is an immutable view of the corpus. All lookups are by value
// and absence is reported through the ok flag, never an error. A snapshot
// is safe for concurrent use because nothing mutates it after construction.
type Snapshot struct {
	sources []model.Source
	chunks  []model.Chunk
	vectors []model.Vector

	chunkByID  map[string]model.Chunk
	sourceByID map[string]model.Source
	generation uint64
}

func NewSnapshot(sources []model.Source, chunks []model.Chunk, vectors []model.Vector) *Snapshot {
	snap := &Snapshot{
		sources:    sources,
		chunks:     chunks,
		vectors:    vectors,
		chunkByID:  make(map[string]model.Chunk, len(chunks)),
		sourceByID: make(map[string]model.Source, len(sources)),
	}
	for _, c := range chunks {
		snap.chunkByID[c.ChunkID] = c
	}
	for _, s := range sources {
		snap.sourceByID[s.SourceID] = s
	}
	return snap
}

func (s *Snapshot) Chunk(chunkID string) (model.Chunk, bool) {
	c, ok := s.chunkByID[chunkID]
	return c, ok
}

func (s *Snapshot) Source(sourceID string) (model.Source, bool) {
	src, ok := s.sourceByID[sourceID]
	return src, ok
}

// Chunks returns all chunks in load order. Callers must not modify the
// returned slice.
func (s *Snapshot) Chunks() []model.Chunk {
	return s.chunks
}

// Vectors returns all vectors in load order. Callers must not modify the
// returned slice.
func (s *Snapshot) Vectors() []model.Vector {
	return s.vectors
}

func (s *Snapshot) Stats() Stats {
	return Stats{Chunks: len(s.chunks), Vectors: len(s.vectors)}
}

// Generation distinguishes snapshots across reloads. It is only used to
// key derived caches, never for ordering.
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// Store hands out the current corpus snapshot. Reloads install a fresh
// snapshot with an atomic swap; readers holding the previous one keep a
// consistent view until they drop it.
type Store struct {
	current atomic.Pointer[Snapshot]
	nextGen atomic.Uint64
}

func NewStore(snap *Snapshot) *Store {
	s := &Store{}
	s.Swap(snap)
	return s
}

func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

func (s *Store) Swap(snap *Snapshot) {
	snap.generation = s.nextGen.Add(1)
	s.current.Store(snap)
}
