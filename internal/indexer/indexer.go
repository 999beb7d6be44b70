package indexer

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MightyChubz/tag-parser/internal/parser"
	"github.com/MightyChubz/tag-parser/internal/storage"
)

// DefaultExtension is the file extension indexed when none is configured.
const DefaultExtension = ".tags"

// Indexer coordinates the indexing pipeline: discover -> parse -> store
type Indexer struct {
	storage storage.Storage

	// Worker pool configuration
	workers int
}

// Config contains configuration for the indexer
type Config struct {
	Workers      int      // Number of concurrent workers (default: runtime.NumCPU())
	BatchSize    int      // Number of files to commit per transaction (default: 20)
	Delimiter    rune     // Line delimiter for parsing (default: newline)
	Extensions   []string // File extensions to index (default: [".tags"])
	ForceReindex bool     // Re-index all files ignoring content hashes
}

// Statistics contains statistics about the indexing operation
type Statistics struct {
	SourcesIndexed int
	SourcesSkipped int
	SourcesFailed  int
	GroupsStored   int
	TagsStored     int
	Duration       time.Duration
	ErrorMessages  []string
}

// New creates a new Indexer instance
func New(storage storage.Storage) *Indexer {
	return &Indexer{
		storage: storage,
		workers: runtime.NumCPU(),
	}
}

// normalize fills in defaults for unset config fields
func (cfg *Config) normalize() {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = parser.DefaultDelimiter
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{DefaultExtension}
	}
}

// IndexLibrary indexes every tag file under rootPath
func (idx *Indexer) IndexLibrary(ctx context.Context, rootPath string, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{}
	}
	config.normalize()
	idx.workers = config.Workers

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	// Get or create library
	library, err := idx.getOrCreateLibrary(ctx, rootPath, config.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create library: %w", err)
	}

	// Discover tag files
	files, err := idx.discoverFiles(rootPath, config)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	// Index files concurrently
	err = idx.indexFiles(ctx, library, files, config, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to index files: %w", err)
	}

	// Update library statistics
	if err := idx.updateLibraryStats(ctx, library); err != nil {
		return nil, fmt.Errorf("failed to update library stats: %w", err)
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// getOrCreateLibrary retrieves an existing library or creates a new one
func (idx *Indexer) getOrCreateLibrary(ctx context.Context, rootPath string, delimiter rune) (*storage.Library, error) {
	library, err := idx.storage.GetLibrary(ctx, rootPath)
	if err == nil {
		// Re-index with the current delimiter
		library.Delimiter = string(delimiter)
		return library, nil
	}

	if err != storage.ErrNotFound {
		return nil, err
	}

	library = &storage.Library{
		RootPath:     rootPath,
		Delimiter:    string(delimiter),
		IndexVersion: storage.CurrentSchemaVersion,
	}

	if err := idx.storage.CreateLibrary(ctx, library); err != nil {
		return nil, err
	}

	return library, nil
}

// discoverFiles finds all tag files in the library
func (idx *Indexer) discoverFiles(rootPath string, config *Config) ([]string, error) {
	var files []string

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			// Skip hidden directories
			if path != rootPath && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		for _, ext := range config.Extensions {
			if strings.HasSuffix(path, ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})

	return files, err
}

// indexFiles indexes a batch of files concurrently
func (idx *Indexer) indexFiles(ctx context.Context, library *storage.Library, files []string, config *Config, stats *Statistics) error {
	// Create worker pool with semaphore
	semaphore := make(chan struct{}, idx.workers)

	// Track progress with atomic counters
	var (
		indexed int32
		skipped int32
		failed  int32
		groups  int32
		tags    int32
	)

	p := parser.New(parser.WithDelimiter(config.Delimiter))

	// Use errgroup for concurrent processing with error propagation
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex // Protect stats.ErrorMessages

	for i := 0; i < len(files); i += config.BatchSize {
		end := i + config.BatchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[i:end]

		g.Go(func() error {
			return idx.indexBatch(gctx, p, library, batch, config, semaphore,
				&indexed, &skipped, &failed, &groups, &tags, &mu, stats)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	stats.SourcesIndexed = int(indexed)
	stats.SourcesSkipped = int(skipped)
	stats.SourcesFailed = int(failed)
	stats.GroupsStored = int(groups)
	stats.TagsStored = int(tags)

	return nil
}

// indexBatch indexes a batch of files within a transaction
func (idx *Indexer) indexBatch(ctx context.Context, p *parser.Parser, library *storage.Library,
	files []string, config *Config, semaphore chan struct{},
	indexed, skipped, failed, groups, tags *int32,
	mu *sync.Mutex, stats *Statistics) error {

	// Start a transaction for this batch
	tx, err := idx.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, filePath := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case semaphore <- struct{}{}:
			// Acquire semaphore
		}

		err := idx.indexFile(ctx, tx, p, library, filePath, config, indexed, skipped, groups, tags)
		<-semaphore // Release semaphore

		if err != nil {
			atomic.AddInt32(failed, 1)
			mu.Lock()
			stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", filePath, err))
			mu.Unlock()
			// Continue with other files
			continue
		}
	}

	// Commit the batch
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// indexFile parses and stores a single tag file
func (idx *Indexer) indexFile(ctx context.Context, store storage.Storage, p *parser.Parser,
	library *storage.Library, filePath string, config *Config,
	indexed, skipped, groups, tags *int32) error {

	// Compute relative path
	relPath, err := filepath.Rel(library.RootPath, filePath)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return err
	}

	hash := sha256.Sum256(content)

	// Check if file has changed and handle incremental update
	if !config.ForceReindex {
		shouldSkip, err := idx.checkSourceChanged(ctx, store, library.ID, relPath, hash, skipped)
		if err != nil {
			return err
		}
		if shouldSkip {
			return nil
		}
	} else if err := idx.deleteExistingGroups(ctx, store, library.ID, relPath); err != nil {
		return err
	}

	source := &storage.Source{
		LibraryID:   library.ID,
		SourcePath:  relPath,
		ContentHash: hash,
		ModTime:     info.ModTime(),
		SizeBytes:   info.Size(),
	}

	// Parse the file
	result, parseErr := p.Parse(string(content))
	if parseErr != nil {
		// Record the format error but keep the source tracked so the
		// failure is visible in status output.
		msg := parseErr.Error()
		source.ParseError = &msg
		if err := store.UpsertSource(ctx, source); err != nil {
			return err
		}
		return parseErr
	}

	if err := store.UpsertSource(ctx, source); err != nil {
		return err
	}

	// Store groups and their tag lines
	groupCount := 0
	tagCount := 0
	for pos, group := range result.Groups {
		record := &storage.GroupRecord{
			SourceID: source.ID,
			Name:     group.Name,
			Position: pos,
		}
		if err := store.InsertGroup(ctx, record); err != nil {
			return fmt.Errorf("failed to store group: %w", err)
		}
		groupCount++

		for tagPos, line := range group.Tags {
			tagRecord := &storage.TagRecord{
				GroupID:  record.ID,
				Line:     line,
				Position: tagPos,
			}
			if err := store.InsertTag(ctx, tagRecord); err != nil {
				return fmt.Errorf("failed to store tag: %w", err)
			}
			tagCount++
		}
	}

	// Update counters
	atomic.AddInt32(indexed, 1)
	atomic.AddInt32(groups, int32(groupCount))
	atomic.AddInt32(tags, int32(tagCount))

	return nil
}

// checkSourceChanged checks if a source has changed and needs re-indexing
func (idx *Indexer) checkSourceChanged(ctx context.Context, store storage.Storage, libraryID int64,
	relPath string, hash [32]byte, skipped *int32) (bool, error) {

	existing, err := store.GetSource(ctx, libraryID, relPath)
	if err == storage.ErrNotFound {
		// New source, needs indexing
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if existing.ContentHash == hash {
		// Unchanged, skip
		atomic.AddInt32(skipped, 1)
		return true, nil
	}

	// Changed - delete old groups (tags cascade) before re-indexing
	if err := store.DeleteGroupsBySource(ctx, existing.ID); err != nil {
		return false, fmt.Errorf("failed to delete old groups: %w", err)
	}

	return false, nil
}

// deleteExistingGroups removes previously stored groups for a source, if any
func (idx *Indexer) deleteExistingGroups(ctx context.Context, store storage.Storage, libraryID int64, relPath string) error {
	existing, err := store.GetSource(ctx, libraryID, relPath)
	if err == storage.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return store.DeleteGroupsBySource(ctx, existing.ID)
}

// updateLibraryStats updates the library's source and tag counts
func (idx *Indexer) updateLibraryStats(ctx context.Context, library *storage.Library) error {
	status, err := idx.storage.GetStatus(ctx, library.ID)
	if err != nil {
		return err
	}

	library.TotalSources = status.SourcesCount
	library.TotalTags = status.TagsCount
	library.LastIndexedAt = time.Now()

	return idx.storage.UpdateLibrary(ctx, library)
}
