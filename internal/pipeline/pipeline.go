package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mvickers/docchunk-mcp/internal/chunker"
	"github.com/mvickers/docchunk-mcp/internal/partitioner"
	"github.com/mvickers/docchunk-mcp/internal/storage"
)

// Pipeline coordinates the ingest flow: partition -> chunk -> store
type Pipeline struct {
	chunker *chunker.Chunker
	storage storage.Storage

	// Worker pool configuration
	workers int
}

// Config contains configuration for an ingest run
type Config struct {
	Workers   int  // Number of concurrent workers (default: runtime.NumCPU())
	BatchSize int  // Number of documents to commit per transaction (default: 20)
	Force     bool // Re-ingest documents even when their content hash is unchanged
}

// Statistics contains statistics about the ingest operation
type Statistics struct {
	DocumentsIngested   int
	DocumentsSkipped    int
	DocumentsFailed     int
	SegmentsPartitioned int
	ChunksCreated       int
	Duration            time.Duration
	ErrorMessages       []string
}

// New creates a new Pipeline instance
func New(ck *chunker.Chunker, store storage.Storage) *Pipeline {
	return &Pipeline{
		chunker: ck,
		storage: store,
		workers: runtime.NumCPU(),
	}
}

// IngestDir ingests every supported document under rootPath
func (p *Pipeline) IngestDir(ctx context.Context, rootPath string, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{
			Workers:   runtime.NumCPU(),
			BatchSize: 20,
		}
	}

	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	p.workers = config.Workers

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	files, err := p.discoverFiles(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	if err := p.ingestFiles(ctx, rootPath, files, config, stats); err != nil {
		return nil, fmt.Errorf("failed to ingest files: %w", err)
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// IngestFile ingests a single document
func (p *Pipeline) IngestFile(ctx context.Context, rootPath, filePath string, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{}
	}

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	var ingested, skipped, segments, chunks int32
	tx, err := p.storage.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := p.ingestOne(ctx, tx, rootPath, filePath, config, &ingested, &skipped, &segments, &chunks); err != nil {
		stats.DocumentsFailed = 1
		stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", filePath, err))
		return stats, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	stats.DocumentsIngested = int(ingested)
	stats.DocumentsSkipped = int(skipped)
	stats.SegmentsPartitioned = int(segments)
	stats.ChunksCreated = int(chunks)
	stats.Duration = time.Since(startTime)
	return stats, nil
}

// discoverFiles finds all supported documents under rootPath
func (p *Pipeline) discoverFiles(rootPath string) ([]string, error) {
	var files []string

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			// Skip hidden directories
			if strings.HasPrefix(info.Name(), ".") && path != rootPath {
				return filepath.SkipDir
			}
			return nil
		}

		if !partitioner.Supported(path) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// ingestFiles processes documents concurrently in transactional batches
func (p *Pipeline) ingestFiles(ctx context.Context, rootPath string, files []string, config *Config, stats *Statistics) error {
	semaphore := make(chan struct{}, p.workers)

	var (
		ingested int32
		skipped  int32
		failed   int32
		segments int32
		chunks   int32
	)

	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex // Protect stats.ErrorMessages

	for i := 0; i < len(files); i += batchSize {
		end := i + batchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[i:end]

		g.Go(func() error {
			return p.ingestBatch(gctx, rootPath, batch, config, semaphore,
				&ingested, &skipped, &failed, &segments, &chunks, &mu, stats)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	stats.DocumentsIngested = int(ingested)
	stats.DocumentsSkipped = int(skipped)
	stats.DocumentsFailed = int(failed)
	stats.SegmentsPartitioned = int(segments)
	stats.ChunksCreated = int(chunks)

	return nil
}

// ingestBatch ingests a batch of documents within a transaction
func (p *Pipeline) ingestBatch(ctx context.Context, rootPath string, files []string, config *Config,
	semaphore chan struct{}, ingested, skipped, failed, segments, chunks *int32,
	mu *sync.Mutex, stats *Statistics) error {

	tx, err := p.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, filePath := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case semaphore <- struct{}{}:
			// Acquire semaphore
		}

		err := p.ingestOne(ctx, tx, rootPath, filePath, config, ingested, skipped, segments, chunks)
		<-semaphore // Release semaphore

		if err != nil {
			atomic.AddInt32(failed, 1)
			mu.Lock()
			stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", filePath, err))
			mu.Unlock()
			// Continue with other documents
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ingestOne partitions, chunks, and stores a single document
func (p *Pipeline) ingestOne(ctx context.Context, store storage.Storage, rootPath, filePath string,
	config *Config, ingested, skipped, segments, chunks *int32) error {

	relPath, err := filepath.Rel(rootPath, filePath)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	hash := sha256.Sum256(content)

	info, err := os.Stat(filePath)
	if err != nil {
		return err
	}

	// Skip unchanged documents unless a re-ingest is forced
	existing, err := store.GetDocument(ctx, relPath)
	if err != nil && err != storage.ErrNotFound {
		return err
	}
	if err == nil && !config.Force && existing.ContentHash == hash {
		atomic.AddInt32(skipped, 1)
		return nil
	}

	segs, err := partitioner.Partition(content, relPath)
	if err != nil {
		return fmt.Errorf("failed to partition document: %w", err)
	}

	docChunks := p.chunker.Chunk(segs)

	doc := &storage.Document{
		Path:         relPath,
		ContentHash:  hash,
		SizeBytes:    info.Size(),
		ModTime:      info.ModTime(),
		SegmentCount: len(segs),
		ChunkCount:   len(docChunks),
	}
	if err := store.UpsertDocument(ctx, doc); err != nil {
		return err
	}

	// Replace any chunks from a previous ingest of this document
	if err := store.DeleteChunksByDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("failed to delete old chunks: %w", err)
	}

	for i := range docChunks {
		record := storage.FromTypesChunk(&docChunks[i], doc.ID, i)
		if err := store.InsertChunk(ctx, record); err != nil {
			return fmt.Errorf("failed to store chunk: %w", err)
		}
	}

	atomic.AddInt32(ingested, 1)
	atomic.AddInt32(segments, int32(len(segs)))
	atomic.AddInt32(chunks, int32(len(docChunks)))

	return nil
}
