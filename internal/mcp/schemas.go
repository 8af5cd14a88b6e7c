package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// chunkingProperties describes the chunking options shared by tools that run
// the engine directly. Absent parameters fall back to the server defaults.
func chunkingProperties() map[string]interface{} {
	return map[string]interface{}{
		"policy": map[string]interface{}{
			"type":        "string",
			"description": "Boundary policy: basic (size only) or by_section (Titles and section changes force boundaries)",
			"enum":        []string{"basic", "by_section"},
		},
		"max_characters": map[string]interface{}{
			"type":        "integer",
			"description": "Hard maximum chunk length in characters (> 0)",
			"minimum":     1,
		},
		"new_after_n_chars": map[string]interface{}{
			"type":        "integer",
			"description": "Soft maximum: a chunk at or past this length stops accepting segments (<= max_characters)",
			"minimum":     0,
		},
		"overlap": map[string]interface{}{
			"type":        "integer",
			"description": "Characters carried from the end of a split piece into the next (< max_characters)",
			"minimum":     0,
		},
		"overlap_all": map[string]interface{}{
			"type":        "boolean",
			"description": "If true, also apply overlap between chunks produced by normal packing",
		},
		"combine_text_under_n_chars": map[string]interface{}{
			"type":        "integer",
			"description": "by_section only: suppress Title boundaries while the open chunk is shorter than this (0 disables combining)",
			"minimum":     0,
		},
		"multipage_sections": map[string]interface{}{
			"type":        "boolean",
			"description": "by_section only: if false, page number changes force chunk boundaries",
		},
		"include_orig_segments": map[string]interface{}{
			"type":        "boolean",
			"description": "If true, chunks report their contributing segments",
		},
	}
}

// chunkTextTool returns the tool definition for chunk_text
func chunkTextTool() mcp.Tool {
	properties := map[string]interface{}{
		"content": map[string]interface{}{
			"type":        "string",
			"description": "Document content to chunk",
		},
		"content_type": map[string]interface{}{
			"type":        "string",
			"description": "How to partition the content before chunking",
			"enum":        []string{"markdown", "text"},
			"default":     "markdown",
		},
	}
	for name, schema := range chunkingProperties() {
		properties[name] = schema
	}

	return mcp.Tool{
		Name:        "chunk_text",
		Description: "Partition inline content into segments and chunk them, returning the chunks as JSON",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   []string{"content"},
		},
	}
}

// ingestDocumentsTool returns the tool definition for ingest_documents
func ingestDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ingest_documents",
		Description: "Partition, chunk, and store all supported documents under a directory",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a directory of documents (.md, .markdown, .txt, .pdf)",
				},
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, re-ingest documents whose content hash is unchanged",
					"default":     false,
				},
				"workers": map[string]interface{}{
					"type":        "integer",
					"description": "Number of concurrent workers (default: number of CPUs)",
					"minimum":     1,
				},
			},
			Required: []string{"path"},
		},
	}
}

// listChunksTool returns the tool definition for list_chunks
func listChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_chunks",
		Description: "Return the stored chunks for an ingested document, in order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Document path as recorded at ingest time (relative to the ingest root)",
				},
			},
			Required: []string{"path"},
		},
	}
}

// searchChunksTool returns the tool definition for search_chunks
func searchChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_chunks",
		Description: "Full-text search over stored chunk text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "FTS5 match expression (plain words work)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query corpus statistics for the chunk store",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
