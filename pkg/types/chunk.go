package types

import "crypto/sha256"

// ChunkKind distinguishes chunks built from ordinary text segments from
// chunks built out of a single table segment.
type ChunkKind string

const (
	ChunkComposite ChunkKind = "composite"
	ChunkTable     ChunkKind = "table"
)

// ChunkMetadata is the aggregated metadata of a chunk's contributing
// segments. Scalar fields follow a first-seen-non-null merge; page numbers
// are retained as an ordered set so a chunk can span pages.
type ChunkMetadata struct {
	PageNumbers []int
	SectionID   *string
	TableHTML   string
	Source      string
	Extra       map[string]any
}

// Chunk is one output record of the chunking engine: a size-bounded grouping
// of one or more segments, or one piece of a single oversized segment.
type Chunk struct {
	Kind     ChunkKind
	Text     string
	Metadata ChunkMetadata

	// Origins lists the contributing segments in input order. Every piece of
	// a split oversized segment references that one segment. Nil when the
	// engine was configured not to retain originals.
	Origins []Segment
}

// ContentHash returns the SHA-256 hash of the chunk text, used by storage
// for incremental re-ingestion.
func (c *Chunk) ContentHash() [32]byte {
	return sha256.Sum256([]byte(c.Text))
}

// Validate checks structural invariants of a produced chunk.
func (c *Chunk) Validate() error {
	switch c.Kind {
	case ChunkComposite, ChunkTable:
	default:
		return ErrInvalidChunkKind
	}
	if c.Kind == ChunkTable && len(c.Origins) > 1 {
		return ErrTableNotIsolated
	}
	return nil
}
