package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// Document operations

func (s *SQLiteStorage) upsertDocumentWithQuerier(ctx context.Context, q querier, doc *Document) error {
	query := `
		INSERT INTO documents (path, content_hash, size_bytes, mod_time, segment_count, chunk_count, last_ingested_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash = excluded.content_hash,
			size_bytes = excluded.size_bytes,
			mod_time = excluded.mod_time,
			segment_count = excluded.segment_count,
			chunk_count = excluded.chunk_count,
			last_ingested_at = excluded.last_ingested_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		doc.Path, doc.ContentHash[:], doc.SizeBytes, doc.ModTime,
		doc.SegmentCount, doc.ChunkCount, now, now, now).Scan(&doc.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	doc.LastIngestedAt = now
	doc.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertDocument(ctx context.Context, doc *Document) error {
	return s.upsertDocumentWithQuerier(ctx, s.db, doc)
}

const documentColumns = `id, path, content_hash, size_bytes, mod_time, segment_count,
       chunk_count, last_ingested_at, created_at, updated_at`

func scanDocument(row interface{ Scan(...interface{}) error }) (*Document, error) {
	var doc Document
	var hash []byte
	var modTime, lastIngestedAt sql.NullTime
	err := row.Scan(
		&doc.ID, &doc.Path, &hash, &doc.SizeBytes, &modTime,
		&doc.SegmentCount, &doc.ChunkCount, &lastIngestedAt,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	copy(doc.ContentHash[:], hash)
	if modTime.Valid {
		doc.ModTime = modTime.Time
	}
	if lastIngestedAt.Valid {
		doc.LastIngestedAt = lastIngestedAt.Time
	}
	return &doc, nil
}

func (s *SQLiteStorage) getDocumentWithQuerier(ctx context.Context, q querier, path string) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE path = ?`
	return scanDocument(q.QueryRowContext(ctx, query, path))
}

func (s *SQLiteStorage) GetDocument(ctx context.Context, path string) (*Document, error) {
	return s.getDocumentWithQuerier(ctx, s.db, path)
}

func (s *SQLiteStorage) getDocumentByIDWithQuerier(ctx context.Context, q querier, docID int64) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	return scanDocument(q.QueryRowContext(ctx, query, docID))
}

func (s *SQLiteStorage) GetDocumentByID(ctx context.Context, docID int64) (*Document, error) {
	return s.getDocumentByIDWithQuerier(ctx, s.db, docID)
}

func (s *SQLiteStorage) listDocumentsWithQuerier(ctx context.Context, q querier) ([]*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY path`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStorage) ListDocuments(ctx context.Context) ([]*Document, error) {
	return s.listDocumentsWithQuerier(ctx, s.db)
}

func (s *SQLiteStorage) deleteDocumentWithQuerier(ctx context.Context, q querier, docID int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteDocument(ctx context.Context, docID int64) error {
	return s.deleteDocumentWithQuerier(ctx, s.db, docID)
}

// Chunk operations

func (s *SQLiteStorage) insertChunkWithQuerier(ctx context.Context, q querier, chunk *Chunk) error {
	query := `
		INSERT INTO chunks (document_id, position, kind, text, content_hash, char_count, section_id, page_numbers, table_html, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		chunk.DocumentID, chunk.Position, chunk.Kind, chunk.Text,
		chunk.ContentHash[:], chunk.CharCount, chunk.SectionID,
		nullString(chunk.PageNumbers), nullString(chunk.TableHTML), now, now)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	chunk.ID = id
	chunk.CreatedAt = now
	chunk.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertChunk(ctx context.Context, chunk *Chunk) error {
	return s.insertChunkWithQuerier(ctx, s.db, chunk)
}

const chunkColumns = `id, document_id, position, kind, text, content_hash, char_count,
       section_id, page_numbers, table_html, created_at, updated_at`

func scanChunk(row interface{ Scan(...interface{}) error }) (*Chunk, error) {
	var chunk Chunk
	var hash []byte
	var sectionID, pageNumbers, tableHTML sql.NullString
	err := row.Scan(
		&chunk.ID, &chunk.DocumentID, &chunk.Position, &chunk.Kind, &chunk.Text,
		&hash, &chunk.CharCount, &sectionID, &pageNumbers, &tableHTML,
		&chunk.CreatedAt, &chunk.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	copy(chunk.ContentHash[:], hash)
	if sectionID.Valid {
		chunk.SectionID = &sectionID.String
	}
	if pageNumbers.Valid {
		chunk.PageNumbers = pageNumbers.String
	}
	if tableHTML.Valid {
		chunk.TableHTML = tableHTML.String
	}
	return &chunk, nil
}

func (s *SQLiteStorage) getChunkWithQuerier(ctx context.Context, q querier, chunkID int64) (*Chunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE id = ?`
	return scanChunk(q.QueryRowContext(ctx, query, chunkID))
}

func (s *SQLiteStorage) GetChunk(ctx context.Context, chunkID int64) (*Chunk, error) {
	return s.getChunkWithQuerier(ctx, s.db, chunkID)
}

func (s *SQLiteStorage) listChunksByDocumentWithQuerier(ctx context.Context, q querier, docID int64) ([]*Chunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE document_id = ? ORDER BY position`
	rows, err := q.QueryContext(ctx, query, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []*Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStorage) ListChunksByDocument(ctx context.Context, docID int64) ([]*Chunk, error) {
	return s.listChunksByDocumentWithQuerier(ctx, s.db, docID)
}

func (s *SQLiteStorage) deleteChunksByDocumentWithQuerier(ctx context.Context, q querier, docID int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, docID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteChunksByDocument(ctx context.Context, docID int64) error {
	return s.deleteChunksByDocumentWithQuerier(ctx, s.db, docID)
}

func (s *SQLiteStorage) searchChunksWithQuerier(ctx context.Context, q querier, match string, limit int) ([]*Chunk, error) {
	if strings.TrimSpace(match) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT ` + chunkColumns + `
		FROM chunks
		WHERE id IN (SELECT rowid FROM chunks_fts WHERE chunks_fts MATCH ?)
		ORDER BY document_id, position
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, query, match, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []*Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStorage) SearchChunks(ctx context.Context, match string, limit int) ([]*Chunk, error) {
	return s.searchChunksWithQuerier(ctx, s.db, match, limit)
}

// Status operations

func (s *SQLiteStorage) getStatusWithQuerier(ctx context.Context, q querier) (*CorpusStatus, error) {
	status := &CorpusStatus{
		Health: HealthStatus{DatabaseAccessible: true},
	}

	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&status.DocumentsCount); err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&status.ChunksCount); err != nil {
		return nil, fmt.Errorf("failed to count chunks: %w", err)
	}
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks WHERE kind = 'table'`).Scan(&status.TableChunksCount); err != nil {
		return nil, fmt.Errorf("failed to count table chunks: %w", err)
	}

	var pageCount, pageSize float64
	if err := q.QueryRowContext(ctx, `PRAGMA page_count`).Scan(&pageCount); err == nil {
		if err := q.QueryRowContext(ctx, `PRAGMA page_size`).Scan(&pageSize); err == nil {
			status.IndexSizeMB = pageCount * pageSize / (1024 * 1024)
		}
	}

	var ftsName string
	err := q.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='chunks_fts'").Scan(&ftsName)
	status.Health.FTSIndexBuilt = err == nil

	return status, nil
}

func (s *SQLiteStorage) GetStatus(ctx context.Context) (*CorpusStatus, error) {
	return s.getStatusWithQuerier(ctx, s.db)
}

// nullString maps "" to NULL for optional text columns.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Transaction method implementations delegate to the shared querier helpers.

func (t *sqliteTx) UpsertDocument(ctx context.Context, doc *Document) error {
	return t.storage.upsertDocumentWithQuerier(ctx, t.tx, doc)
}

func (t *sqliteTx) GetDocument(ctx context.Context, path string) (*Document, error) {
	return t.storage.getDocumentWithQuerier(ctx, t.tx, path)
}

func (t *sqliteTx) GetDocumentByID(ctx context.Context, docID int64) (*Document, error) {
	return t.storage.getDocumentByIDWithQuerier(ctx, t.tx, docID)
}

func (t *sqliteTx) ListDocuments(ctx context.Context) ([]*Document, error) {
	return t.storage.listDocumentsWithQuerier(ctx, t.tx)
}

func (t *sqliteTx) DeleteDocument(ctx context.Context, docID int64) error {
	return t.storage.deleteDocumentWithQuerier(ctx, t.tx, docID)
}

func (t *sqliteTx) InsertChunk(ctx context.Context, chunk *Chunk) error {
	return t.storage.insertChunkWithQuerier(ctx, t.tx, chunk)
}

func (t *sqliteTx) GetChunk(ctx context.Context, chunkID int64) (*Chunk, error) {
	return t.storage.getChunkWithQuerier(ctx, t.tx, chunkID)
}

func (t *sqliteTx) ListChunksByDocument(ctx context.Context, docID int64) ([]*Chunk, error) {
	return t.storage.listChunksByDocumentWithQuerier(ctx, t.tx, docID)
}

func (t *sqliteTx) DeleteChunksByDocument(ctx context.Context, docID int64) error {
	return t.storage.deleteChunksByDocumentWithQuerier(ctx, t.tx, docID)
}

func (t *sqliteTx) SearchChunks(ctx context.Context, match string, limit int) ([]*Chunk, error) {
	return t.storage.searchChunksWithQuerier(ctx, t.tx, match, limit)
}

func (t *sqliteTx) GetStatus(ctx context.Context) (*CorpusStatus, error) {
	return t.storage.getStatusWithQuerier(ctx, t.tx)
}

func (t *sqliteTx) Close() error {
	return nil // The owning storage closes the database
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, errors.New("nested transactions are not supported")
}
