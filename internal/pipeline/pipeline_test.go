package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvickers/docchunk-mcp/internal/chunker"
	"github.com/mvickers/docchunk-mcp/internal/storage"
)

func setupPipeline(t *testing.T) (*Pipeline, *storage.SQLiteStorage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ck, err := chunker.New(chunker.WithMaxCharacters(200))
	require.NoError(t, err)

	return New(ck, store), store
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestDir(t *testing.T) {
	p, store := setupPipeline(t)
	dir := t.TempDir()

	writeFile(t, dir, "guide.md", "# Guide\n\nSome opening text.\n\n## Details\n\nMore text here.\n")
	writeFile(t, dir, "notes.txt", "first paragraph\n\nsecond paragraph\n")
	writeFile(t, dir, "image.png", "not a document")

	ctx := context.Background()
	stats, err := p.IngestDir(ctx, dir, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.DocumentsIngested)
	assert.Equal(t, 0, stats.DocumentsSkipped)
	assert.Equal(t, 0, stats.DocumentsFailed)
	assert.Greater(t, stats.SegmentsPartitioned, 0)
	assert.Greater(t, stats.ChunksCreated, 0)

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "guide.md", docs[0].Path)
	assert.Equal(t, "notes.txt", docs[1].Path)
	assert.Greater(t, docs[0].ChunkCount, 0)

	chunks, err := store.ListChunksByDocument(ctx, docs[0].ID)
	require.NoError(t, err)
	assert.Len(t, chunks, docs[0].ChunkCount)
}

func TestIngestDir_SkipsUnchanged(t *testing.T) {
	p, _ := setupPipeline(t)
	dir := t.TempDir()
	writeFile(t, dir, "doc.md", "# Title\n\nbody text\n")

	ctx := context.Background()
	first, err := p.IngestDir(ctx, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.DocumentsIngested)

	second, err := p.IngestDir(ctx, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, second.DocumentsIngested)
	assert.Equal(t, 1, second.DocumentsSkipped)
}

func TestIngestDir_ForceReingests(t *testing.T) {
	p, _ := setupPipeline(t)
	dir := t.TempDir()
	writeFile(t, dir, "doc.md", "# Title\n\nbody text\n")

	ctx := context.Background()
	_, err := p.IngestDir(ctx, dir, nil)
	require.NoError(t, err)

	stats, err := p.IngestDir(ctx, dir, &Config{Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentsIngested)
	assert.Equal(t, 0, stats.DocumentsSkipped)
}

func TestIngestDir_ChangedDocumentReplacesChunks(t *testing.T) {
	p, store := setupPipeline(t)
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", "original content\n")

	ctx := context.Background()
	_, err := p.IngestDir(ctx, dir, nil)
	require.NoError(t, err)

	writeFile(t, dir, "doc.txt", "replacement content\n")
	stats, err := p.IngestDir(ctx, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentsIngested)

	doc, err := store.GetDocument(ctx, "doc.txt")
	require.NoError(t, err)
	chunks, err := store.ListChunksByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "replacement content", chunks[0].Text)
}

func TestIngestDir_SkipsHiddenDirectories(t *testing.T) {
	p, _ := setupPipeline(t)
	dir := t.TempDir()
	writeFile(t, dir, "visible.txt", "visible\n")
	writeFile(t, dir, ".cache/hidden.txt", "hidden\n")

	stats, err := p.IngestDir(context.Background(), dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentsIngested)
}

func TestIngestDir_BadDocumentRecordedNotFatal(t *testing.T) {
	p, _ := setupPipeline(t)
	dir := t.TempDir()
	writeFile(t, dir, "good.txt", "fine content\n")
	writeFile(t, dir, "broken.pdf", "this is not a pdf")

	stats, err := p.IngestDir(context.Background(), dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentsIngested)
	assert.Equal(t, 1, stats.DocumentsFailed)
	require.Len(t, stats.ErrorMessages, 1)
	assert.Contains(t, stats.ErrorMessages[0], "broken.pdf")
}

func TestIngestFile(t *testing.T) {
	p, store := setupPipeline(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "single.md", "# One\n\ncontent body\n")

	ctx := context.Background()
	stats, err := p.IngestFile(ctx, dir, path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentsIngested)

	doc, err := store.GetDocument(ctx, "single.md")
	require.NoError(t, err)
	assert.Equal(t, "single.md", doc.Path)
}

func TestIngestDir_EmptyDirectory(t *testing.T) {
	p, _ := setupPipeline(t)
	dir := t.TempDir()

	stats, err := p.IngestDir(context.Background(), dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.DocumentsIngested)
	assert.Empty(t, stats.ErrorMessages)
}
