// Package storage provides SQLite-based persistence for ingested documents
// and their derived chunks.
//
// The storage layer manages:
//   - Document metadata and content hashes
//   - Chunk records with ordering and metadata
//   - Full-text search indexes
//
// # Database Schema
//
// Tables:
//   - documents: Source paths, SHA-256 hashes, ingest bookkeeping
//   - chunks: Chunk text, kind, section and page metadata
//   - chunks_fts: FTS5 full-text search index over chunk text
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.docchunk/corpus.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	doc := &storage.Document{Path: "docs/guide.md", ContentHash: hash}
//	if err := db.UpsertDocument(ctx, doc); err != nil {
//	    return err
//	}
//
// # Transactions
//
// Use transactions so a document and its chunks land atomically:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	tx.UpsertDocument(ctx, doc)
//	tx.DeleteChunksByDocument(ctx, doc.ID)
//	for i, c := range chunks {
//	    tx.InsertChunk(ctx, storage.FromTypesChunk(&c, doc.ID, i))
//	}
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Incremental Updates
//
// Compare stored hashes to skip unchanged documents:
//
//	stored, err := db.GetDocument(ctx, path)
//	if err == nil && stored.ContentHash == currentHash {
//	    return nil // unchanged
//	}
//
// # Full-Text Search
//
// Query chunk text through the FTS5 index:
//
//	chunks, err := db.SearchChunks(ctx, "error handling", 10)
//
// The index is kept in sync by triggers on the chunks table.
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// CGO Build (fts5 tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires a C compiler
//
//     CGO_ENABLED=1 go build -tags "fts5"
//
// Pure Go Build (default):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build
package storage
