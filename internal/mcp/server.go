package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvickers/docchunk-mcp/internal/chunker"
	"github.com/mvickers/docchunk-mcp/internal/config"
	"github.com/mvickers/docchunk-mcp/internal/pipeline"
	"github.com/mvickers/docchunk-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "docchunk-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	cfg      *config.Config
	storage  storage.Storage
	pipeline *pipeline.Pipeline
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config) (*Server, error) {
	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ck, err := defaultChunker(cfg)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("invalid chunking configuration: %w", err)
	}

	p := pipeline.New(ck, store)

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		cfg:      cfg,
		storage:  store,
		pipeline: p,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(chunkTextTool(), s.handleChunkText)
	s.mcp.AddTool(ingestDocumentsTool(), s.handleIngestDocuments)
	s.mcp.AddTool(listChunksTool(), s.handleListChunks)
	s.mcp.AddTool(searchChunksTool(), s.handleSearchChunks)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}

// defaultChunker builds the chunker the ingest pipeline uses from the
// environment configuration.
func defaultChunker(cfg *config.Config) (*chunker.Chunker, error) {
	opts := []chunker.Option{
		chunker.WithMaxCharacters(cfg.MaxCharacters),
		chunker.WithOverlap(cfg.Overlap),
		chunker.WithOverlapAll(cfg.OverlapAll),
		chunker.WithMultipageSections(cfg.MultipageSections),
		chunker.WithIncludeOrigSegments(cfg.IncludeOrigSegments),
	}
	if cfg.NewAfterNChars >= 0 {
		opts = append(opts, chunker.WithNewAfterNChars(cfg.NewAfterNChars))
	}
	if cfg.CombineTextUnderNChars >= 0 {
		opts = append(opts, chunker.WithCombineTextUnderNChars(cfg.CombineTextUnderNChars))
	}
	return chunker.NewWithPolicy(chunker.Policy(cfg.Policy), opts...)
}
