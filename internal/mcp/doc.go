// Package mcp implements the Model Context Protocol (MCP) server for docchunk.
//
// The MCP server exposes five tools to AI assistants:
//   - chunk_text: Partition and chunk inline content, returning the chunks
//   - ingest_documents: Partition, chunk, and store a directory of documents
//   - list_chunks: Return the stored chunks for an ingested document
//   - search_chunks: Full-text search over stored chunk text
//   - get_status: Corpus statistics for the chunk store
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output; all
// logging goes to stderr so stdout stays clean for the protocol.
//
// # Tool: chunk_text
//
// Chunk inline content synchronously:
//
//	Request:
//	{
//	  "name": "chunk_text",
//	  "arguments": {
//	    "content": "# Title\n\nSome body text...",
//	    "content_type": "markdown",
//	    "policy": "by_section",
//	    "max_characters": 500,
//	    "overlap": 50
//	  }
//	}
//
// Chunking parameters left out of the request fall back to the server's
// environment configuration.
//
// # Tool: ingest_documents
//
// Ingest every supported document under a directory:
//
//	Request:
//	{
//	  "name": "ingest_documents",
//	  "arguments": {
//	    "path": "/path/to/docs",
//	    "force": false
//	  }
//	}
//
// The response reports Statistics: documents ingested, skipped, and failed,
// segments partitioned, chunks created, and per-document error messages.
//
// # Error Handling
//
// Handlers return MCP protocol errors with structured data:
//
//	-32602  invalid parameters
//	-32603  internal error
//	-32001  document not found
//	-32002  empty content
//	-32003  empty query
package mcp
