package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mvickers/docchunk-mcp/pkg/types"
)

// Storage defines the interface for persisting partitioned documents and
// their derived chunks.
type Storage interface {
	// Document operations
	UpsertDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, path string) (*Document, error)
	GetDocumentByID(ctx context.Context, docID int64) (*Document, error)
	ListDocuments(ctx context.Context) ([]*Document, error)
	DeleteDocument(ctx context.Context, docID int64) error

	// Chunk operations
	InsertChunk(ctx context.Context, chunk *Chunk) error
	GetChunk(ctx context.Context, chunkID int64) (*Chunk, error)
	ListChunksByDocument(ctx context.Context, docID int64) ([]*Chunk, error)
	DeleteChunksByDocument(ctx context.Context, docID int64) error
	SearchChunks(ctx context.Context, query string, limit int) ([]*Chunk, error)

	// Status operations
	GetStatus(ctx context.Context) (*CorpusStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Document represents one ingested source document
type Document struct {
	ID             int64
	Path           string
	ContentHash    [32]byte
	SizeBytes      int64
	ModTime        time.Time
	SegmentCount   int
	ChunkCount     int
	LastIngestedAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Chunk represents one stored chunk record
type Chunk struct {
	ID          int64
	DocumentID  int64
	Position    int // order within the document's chunk sequence
	Kind        string
	Text        string
	ContentHash [32]byte
	CharCount   int
	SectionID   *string
	PageNumbers string // JSON array, empty when unknown
	TableHTML   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CorpusStatus contains statistics about the stored corpus
type CorpusStatus struct {
	DocumentsCount   int
	ChunksCount      int
	TableChunksCount int
	IndexSizeMB      float64
	Health           HealthStatus
}

// HealthStatus represents the health of the chunk store
type HealthStatus struct {
	DatabaseAccessible bool
	FTSIndexBuilt      bool
}

// FromTypesChunk converts an engine chunk into its storage record.
func FromTypesChunk(c *types.Chunk, docID int64, position int) *Chunk {
	record := &Chunk{
		DocumentID:  docID,
		Position:    position,
		Kind:        string(c.Kind),
		Text:        c.Text,
		ContentHash: c.ContentHash(),
		CharCount:   len(c.Text),
		SectionID:   c.Metadata.SectionID,
		TableHTML:   c.Metadata.TableHTML,
	}
	if len(c.Metadata.PageNumbers) > 0 {
		if pages, err := json.Marshal(c.Metadata.PageNumbers); err == nil {
			record.PageNumbers = string(pages)
		}
	}
	return record
}

// Pages decodes the stored page number set.
func (c *Chunk) Pages() []int {
	if c.PageNumbers == "" {
		return nil
	}
	var pages []int
	if err := json.Unmarshal([]byte(c.PageNumbers), &pages); err != nil {
		return nil
	}
	return pages
}
