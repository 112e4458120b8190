package model

// Source is a provenance record for one or more chunks. Loaded once at
// startup and never mutated afterwards.
type Source struct {
	SourceID   string   `json:"source_id"`
	Type       string   `json:"type"`
	URI        string   `json:"uri"`
	SourceName string   `json:"source_name"`
	Tags       []string `json:"tags,omitempty"`
}

// Chunk is a unit of retrievable text. SourceID may reference a source
// that is not loaded; enrichment then leaves the source fields null.
// Metadata carries the JSON scalar/array/object variants and is opaque to
// the engine.
type Chunk struct {
	ChunkID  string         `json:"chunk_id"`
	SourceID string         `json:"source_id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// Vector is a precomputed embedding keyed by chunk id. A chunk without a
// vector is unreachable by semantic search.
type Vector struct {
	ChunkID   string    `json:"chunk_id"`
	Embedding []float64 `json:"embedding"`
}

// EnrichedResult joins a scored chunk with its source display metadata.
// The source fields are nil when the chunk's source_id does not resolve.
type EnrichedResult struct {
	ChunkID    string         `json:"chunk_id"`
	Text       string         `json:"text"`
	Score      float64        `json:"score"`
	SourceID   string         `json:"source_id"`
	SourceURL  *string        `json:"source_url"`
	SourceName *string        `json:"source_name"`
	SourceType *string        `json:"source_type"`
	Metadata   map[string]any `json:"metadata"`
}
