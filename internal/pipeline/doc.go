// Package pipeline coordinates the end-to-end ingest flow for document corpora.
//
// The pipeline orchestrates partitioning, chunking, and storage operations,
// managing concurrency and error handling for directory-scale ingests.
//
// # Basic Usage
//
//	ck, _ := chunker.New(chunker.WithMaxCharacters(500))
//	p := pipeline.New(ck, store)
//
//	stats, err := p.IngestDir(ctx, "/path/to/docs", nil)
//
//	fmt.Printf("Ingested %d documents in %v\n", stats.DocumentsIngested, stats.Duration)
//
// # Ingest Flow
//
// The pipeline executes a multi-stage flow per document:
//
//  1. Discovery: Walk the directory, keep supported extensions, skip hidden dirs
//  2. Incremental Decision: Compare content hashes, skip unchanged documents
//  3. Partition: Split raw content into typed segments
//  4. Chunk: Pack segments into size-bounded chunks
//  5. Store: Persist document and chunks to SQLite in transactions
//
// # Incremental Ingest
//
// By default the pipeline only processes changed documents. Change detection
// uses SHA-256 content hashing:
//
//	currentHash := sha256.Sum256(content)
//	if stored.ContentHash == currentHash {
//	    skip(document) // unchanged
//	}
//
// Force a full re-ingest with:
//
//	config.Force = true
//
// # Concurrent Processing
//
// Documents are processed in transactional batches by a bounded worker pool.
// Failures are per-document: one bad file is recorded in
// Statistics.ErrorMessages and the rest of the batch continues.
package pipeline
