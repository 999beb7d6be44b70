package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MightyChubz/tag-parser/internal/config"
	"github.com/MightyChubz/tag-parser/internal/storage"
)

// openStorage opens the index database, resolving the directory from the
// --db flag or the environment configuration.
func openStorage() (storage.Storage, error) {
	dir := dbPath
	if dir == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		dir = cfg.DBPath
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "tagfile.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	return store, nil
}
