package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/MightyChubz/tag-parser/internal/config"
	"github.com/MightyChubz/tag-parser/internal/indexer"
	"github.com/MightyChubz/tag-parser/internal/parser"
	"github.com/MightyChubz/tag-parser/internal/searcher"
	"github.com/MightyChubz/tag-parser/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "tagfile-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.tagfile/indices"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	storage   storage.Storage
	indexer   *indexer.Indexer
	searcher  *searcher.Searcher
	indexLock indexer.IndexLock

	// Environment-derived defaults; tool arguments override per call.
	delimiter  rune
	workers    int
	extensions []string
}

// NewServer creates a new MCP server instance. The configuration
// supplies the database location and the indexing defaults that tool
// arguments may override per call.
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}

	// Expand home directory if needed
	dbPath := cfg.DBPath
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".tagfile", "indices")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// A single database file holds all indexed libraries; rows are
	// scoped by library ID.
	dbFile := filepath.Join(dbPath, "tagfile.db")

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Create indexer
	idx := indexer.New(store)

	// Create searcher
	srch := searcher.NewSearcher(store)

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	delimiter := cfg.Delimiter
	if delimiter == 0 {
		delimiter = parser.DefaultDelimiter
	}
	extensions := cfg.Extensions
	if len(extensions) == 0 {
		extensions = []string{indexer.DefaultExtension}
	}

	s := &Server{
		mcp:        mcpServer,
		storage:    store,
		indexer:    idx,
		searcher:   srch,
		delimiter:  delimiter,
		workers:    cfg.Workers,
		extensions: extensions,
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	// Register index_library tool
	s.mcp.AddTool(indexLibraryTool(), s.handleIndexLibrary)

	// Register search_tags tool
	s.mcp.AddTool(searchTagsTool(), s.handleSearchTags)

	// Register get_status tool
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	return nil
}
