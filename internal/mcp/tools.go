package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvickers/docchunk-mcp/internal/chunker"
	"github.com/mvickers/docchunk-mcp/internal/partitioner"
	"github.com/mvickers/docchunk-mcp/internal/pipeline"
	"github.com/mvickers/docchunk-mcp/internal/storage"
	"github.com/mvickers/docchunk-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeDocumentNotFound = -32001 // Document path not present in the corpus
	ErrorCodeEmptyContent     = -32002 // Content parameter is empty
	ErrorCodeEmptyQuery       = -32003 // Query parameter is empty
)

// handleChunkText handles the chunk_text tool invocation
func (s *Server) handleChunkText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	content, ok := args["content"].(string)
	if !ok || content == "" {
		return nil, newMCPError(ErrorCodeEmptyContent, "content parameter is required and cannot be empty", map[string]interface{}{
			"param":  "content",
			"reason": "missing or empty",
		})
	}

	contentType := getStringDefault(args, "content_type", "markdown")
	if contentType != "markdown" && contentType != "text" {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid content_type", map[string]interface{}{
			"param":   "content_type",
			"value":   contentType,
			"allowed": []string{"markdown", "text"},
		})
	}

	ck, err := s.chunkerFromArgs(args)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid chunking configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	var segments []types.Segment
	switch contentType {
	case "markdown":
		segments, err = partitioner.PartitionMarkdown([]byte(content), "inline.md")
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "partitioning failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	case "text":
		segments = partitioner.PartitionText([]byte(content), "inline.txt")
	}

	chunks := ck.Chunk(segments)

	response := map[string]interface{}{
		"segment_count": len(segments),
		"chunk_count":   len(chunks),
		"chunks":        formatChunks(chunks),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleIngestDocuments handles the ingest_documents tool invocation
func (s *Server) handleIngestDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validateDir(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	config := &pipeline.Config{
		Workers: getIntDefault(args, "workers", s.cfg.Workers),
		Force:   getBoolDefault(args, "force", false),
	}

	stats, err := s.pipeline.IngestDir(ctx, path, config)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "ingest failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"documents_ingested":   stats.DocumentsIngested,
		"documents_skipped":    stats.DocumentsSkipped,
		"documents_failed":     stats.DocumentsFailed,
		"segments_partitioned": stats.SegmentsPartitioned,
		"chunks_created":       stats.ChunksCreated,
		"duration_ms":          stats.Duration.Milliseconds(),
	}

	if len(stats.ErrorMessages) > 0 {
		// Include first few errors
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListChunks handles the list_chunks tool invocation
func (s *Server) handleListChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	doc, err := s.storage.GetDocument(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		response := map[string]interface{}{
			"found":   false,
			"path":    path,
			"message": "Document not ingested. Use ingest_documents to ingest it first.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load document", map[string]interface{}{
			"error": err.Error(),
		})
	}

	chunks, err := s.storage.ListChunksByDocument(ctx, doc.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list chunks", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"found": true,
		"document": map[string]interface{}{
			"path":             doc.Path,
			"segment_count":    doc.SegmentCount,
			"chunk_count":      doc.ChunkCount,
			"last_ingested_at": doc.LastIngestedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		"chunks": formatStoredChunks(chunks),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchChunks handles the search_chunks tool invocation
func (s *Server) handleSearchChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	chunks, err := s.storage.SearchChunks(ctx, query, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Resolve document paths for the hits
	paths := make(map[int64]string)
	results := make([]map[string]interface{}, 0, len(chunks))
	for _, chunk := range chunks {
		path, cached := paths[chunk.DocumentID]
		if !cached {
			doc, err := s.storage.GetDocumentByID(ctx, chunk.DocumentID)
			if err == nil {
				path = doc.Path
			}
			paths[chunk.DocumentID] = path
		}
		record := formatStoredChunk(chunk)
		record["document_path"] = path
		results = append(results, record)
	}

	response := map[string]interface{}{
		"query":        query,
		"result_count": len(results),
		"results":      results,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.storage.GetStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"statistics": map[string]interface{}{
			"documents_count":    status.DocumentsCount,
			"chunks_count":       status.ChunksCount,
			"table_chunks_count": status.TableChunksCount,
			"index_size_mb":      fmt.Sprintf("%.2f", status.IndexSizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"fts_index_built":     status.Health.FTSIndexBuilt,
		},
		"defaults": map[string]interface{}{
			"policy":         s.cfg.Policy,
			"max_characters": s.cfg.MaxCharacters,
			"overlap":        s.cfg.Overlap,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// chunkerFromArgs builds a chunker from the server defaults overridden by any
// chunking parameters present in the tool arguments.
func (s *Server) chunkerFromArgs(args map[string]interface{}) (*chunker.Chunker, error) {
	opts := []chunker.Option{
		chunker.WithMaxCharacters(getIntDefault(args, "max_characters", s.cfg.MaxCharacters)),
		chunker.WithOverlap(getIntDefault(args, "overlap", s.cfg.Overlap)),
		chunker.WithOverlapAll(getBoolDefault(args, "overlap_all", s.cfg.OverlapAll)),
		chunker.WithMultipageSections(getBoolDefault(args, "multipage_sections", s.cfg.MultipageSections)),
		chunker.WithIncludeOrigSegments(getBoolDefault(args, "include_orig_segments", s.cfg.IncludeOrigSegments)),
	}

	if v, ok := intArg(args, "new_after_n_chars"); ok {
		opts = append(opts, chunker.WithNewAfterNChars(v))
	} else if s.cfg.NewAfterNChars >= 0 {
		opts = append(opts, chunker.WithNewAfterNChars(s.cfg.NewAfterNChars))
	}

	if v, ok := intArg(args, "combine_text_under_n_chars"); ok {
		opts = append(opts, chunker.WithCombineTextUnderNChars(v))
	} else if s.cfg.CombineTextUnderNChars >= 0 {
		opts = append(opts, chunker.WithCombineTextUnderNChars(s.cfg.CombineTextUnderNChars))
	}

	policy := chunker.Policy(getStringDefault(args, "policy", s.cfg.Policy))
	return chunker.NewWithPolicy(policy, opts...)
}

// formatChunks converts engine chunks into JSON-friendly records.
func formatChunks(chunks []types.Chunk) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(chunks))
	for i := range chunks {
		c := &chunks[i]
		record := map[string]interface{}{
			"position":   i,
			"kind":       string(c.Kind),
			"text":       c.Text,
			"char_count": len(c.Text),
		}
		if c.Metadata.SectionID != nil {
			record["section_id"] = *c.Metadata.SectionID
		}
		if len(c.Metadata.PageNumbers) > 0 {
			record["page_numbers"] = c.Metadata.PageNumbers
		}
		if c.Metadata.TableHTML != "" {
			record["table_html"] = c.Metadata.TableHTML
		}
		if len(c.Origins) > 0 {
			record["orig_segment_count"] = len(c.Origins)
		}
		records = append(records, record)
	}
	return records
}

// formatStoredChunk converts one storage chunk record for JSON output.
func formatStoredChunk(c *storage.Chunk) map[string]interface{} {
	record := map[string]interface{}{
		"position":   c.Position,
		"kind":       c.Kind,
		"text":       c.Text,
		"char_count": c.CharCount,
	}
	if c.SectionID != nil {
		record["section_id"] = *c.SectionID
	}
	if pages := c.Pages(); len(pages) > 0 {
		record["page_numbers"] = pages
	}
	if c.TableHTML != "" {
		record["table_html"] = c.TableHTML
	}
	return record
}

func formatStoredChunks(chunks []*storage.Chunk) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(chunks))
	for _, c := range chunks {
		records = append(records, formatStoredChunk(c))
	}
	return records
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validateDir checks if a path exists and is a readable directory
func validateDir(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := intArg(args, key); ok {
		return val
	}
	return defaultValue
}

// intArg extracts an integer parameter, reporting whether it was present
func intArg(args map[string]interface{}, key string) (int, bool) {
	if val, ok := args[key].(float64); ok {
		return int(val), true
	}
	if val, ok := args[key].(int); ok {
		return val, true
	}
	return 0, false
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
