package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/MightyChubz/tag-parser/internal/indexer"
	"github.com/MightyChubz/tag-parser/internal/storage"
)

// IndexingTestSuite contains tests for the indexing pipeline
type IndexingTestSuite struct {
	suite.Suite
	storage    storage.Storage
	indexer    *indexer.Indexer
	libraryDir string
	ctx        context.Context
}

// SetupTest runs before each test
func (s *IndexingTestSuite) SetupTest() {
	s.ctx = context.Background()

	// Fresh in-memory storage for each test
	store, err := storage.NewSQLiteStorage(":memory:")
	s.Require().NoError(err)
	s.storage = store

	s.indexer = indexer.New(s.storage)

	// Build a fixture library
	s.libraryDir = s.T().TempDir()
	s.writeFixture("anime.tags", "[Generic]\naction\nadventure\n進撃の巨人\n\n[IDs]\n102349\n")
	s.writeFixture("media/movies.tags", "[Watched]\nthriller\n\n[Queued]\ndrama\ncomedy\n")
	s.writeFixture("notes.txt", "not a tag file")
}

// TearDownTest runs after each test
func (s *IndexingTestSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *IndexingTestSuite) writeFixture(name, content string) {
	path := filepath.Join(s.libraryDir, name)
	s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0755))
	s.Require().NoError(os.WriteFile(path, []byte(content), 0644))
}

// TestFullIndexing tests the complete indexing pipeline
func (s *IndexingTestSuite) TestFullIndexing() {
	config := &indexer.Config{
		Workers:   2,
		BatchSize: 10,
	}

	stats, err := s.indexer.IndexLibrary(s.ctx, s.libraryDir, config)
	s.Require().NoError(err, "indexing should succeed")
	s.NotNil(stats)

	s.Equal(2, stats.SourcesIndexed, "should index both tag files, not the txt file")
	s.Equal(4, stats.GroupsStored)
	s.Equal(7, stats.TagsStored)
	s.Equal(0, stats.SourcesFailed)

	// Verify library was created
	library, err := s.storage.GetLibrary(s.ctx, s.libraryDir)
	s.Require().NoError(err)
	s.Equal(s.libraryDir, library.RootPath)
	s.Equal(2, library.TotalSources)
	s.Equal(7, library.TotalTags)
	s.False(library.LastIndexedAt.IsZero())

	// Verify sources, groups and tags round-trip
	sources, err := s.storage.ListSources(s.ctx, library.ID)
	s.Require().NoError(err)
	s.Len(sources, 2)

	for _, source := range sources {
		groups, err := s.storage.ListGroupsBySource(s.ctx, source.ID)
		s.NoError(err)
		s.NotEmpty(groups, "every indexed source should have groups")

		for _, group := range groups {
			tags, err := s.storage.ListTagsByGroup(s.ctx, group.ID)
			s.NoError(err)
			s.NotEmpty(tags)
		}
	}
}

// TestIncrementalIndexing tests re-indexing with unchanged files
func (s *IndexingTestSuite) TestIncrementalIndexing() {
	config := &indexer.Config{}

	stats1, err := s.indexer.IndexLibrary(s.ctx, s.libraryDir, config)
	s.Require().NoError(err)
	s.Equal(2, stats1.SourcesIndexed)

	// Re-index without changes
	stats2, err := s.indexer.IndexLibrary(s.ctx, s.libraryDir, config)
	s.Require().NoError(err)
	s.Equal(0, stats2.SourcesIndexed, "should skip unchanged files")
	s.Equal(2, stats2.SourcesSkipped)

	// Database state stays consistent
	library, err := s.storage.GetLibrary(s.ctx, s.libraryDir)
	s.Require().NoError(err)
	sources, err := s.storage.ListSources(s.ctx, library.ID)
	s.NoError(err)
	s.Len(sources, 2)
}

// TestModifiedFileReindexing tests re-indexing when a file changes
func (s *IndexingTestSuite) TestModifiedFileReindexing() {
	config := &indexer.Config{}

	_, err := s.indexer.IndexLibrary(s.ctx, s.libraryDir, config)
	s.Require().NoError(err)

	library, err := s.storage.GetLibrary(s.ctx, s.libraryDir)
	s.Require().NoError(err)

	source, err := s.storage.GetSource(s.ctx, library.ID, "anime.tags")
	s.Require().NoError(err)
	initialGroups, err := s.storage.ListGroupsBySource(s.ctx, source.ID)
	s.Require().NoError(err)
	s.Len(initialGroups, 2)

	// Modify the file
	time.Sleep(10 * time.Millisecond) // Ensure mod time changes
	s.writeFixture("anime.tags", "[Generic]\naction\n\n[IDs]\n102349\n\n[Extra]\nbonus\n")

	stats, err := s.indexer.IndexLibrary(s.ctx, s.libraryDir, config)
	s.Require().NoError(err)
	s.Equal(1, stats.SourcesIndexed, "should re-index modified file")
	s.Equal(1, stats.SourcesSkipped, "should skip unmodified file")

	// Groups were replaced, not appended
	source, err = s.storage.GetSource(s.ctx, library.ID, "anime.tags")
	s.Require().NoError(err)
	groups, err := s.storage.ListGroupsBySource(s.ctx, source.ID)
	s.Require().NoError(err)
	s.Len(groups, 3)
}

// TestFormatErrorHandling tests that indexing continues despite malformed files
func (s *IndexingTestSuite) TestFormatErrorHandling() {
	s.writeFixture("broken.tags", "stray_tag\n[Group]\nvalid\n")

	stats, err := s.indexer.IndexLibrary(s.ctx, s.libraryDir, &indexer.Config{})
	s.Require().NoError(err, "indexing should succeed despite format errors")

	s.Equal(1, stats.SourcesFailed, "the malformed file should be counted as failed")
	s.NotEmpty(stats.ErrorMessages, "should record error messages")
	s.Equal(2, stats.SourcesIndexed, "valid files should still be indexed")

	// The failed source keeps its parse error for status reporting
	library, err := s.storage.GetLibrary(s.ctx, s.libraryDir)
	s.Require().NoError(err)
	source, err := s.storage.GetSource(s.ctx, library.ID, "broken.tags")
	s.Require().NoError(err)
	s.Require().NotNil(source.ParseError)
	s.Contains(*source.ParseError, "before any group header")
}

// TestEmptyDirectory tests indexing a directory without tag files
func (s *IndexingTestSuite) TestEmptyDirectory() {
	tempDir := s.T().TempDir()

	stats, err := s.indexer.IndexLibrary(s.ctx, tempDir, &indexer.Config{})
	s.Require().NoError(err)
	s.Equal(0, stats.SourcesIndexed)
	s.Equal(0, stats.GroupsStored)
	s.Equal(0, stats.TagsStored)
}

// TestCustomDelimiter tests indexing files that use a non-newline delimiter
func (s *IndexingTestSuite) TestCustomDelimiter() {
	tempDir := s.T().TempDir()
	content := "[Generic];action;adventure;[IDs];102349"
	s.Require().NoError(os.WriteFile(filepath.Join(tempDir, "inline.tags"), []byte(content), 0644))

	stats, err := s.indexer.IndexLibrary(s.ctx, tempDir, &indexer.Config{Delimiter: ';'})
	s.Require().NoError(err)
	s.Equal(1, stats.SourcesIndexed)
	s.Equal(2, stats.GroupsStored)
	s.Equal(3, stats.TagsStored)

	// Delimiter is recorded on the library
	library, err := s.storage.GetLibrary(s.ctx, tempDir)
	s.Require().NoError(err)
	s.Equal(";", library.Delimiter)
}

// TestConcurrentWorkers tests that multi-worker indexing stays consistent
func (s *IndexingTestSuite) TestConcurrentWorkers() {
	// Many small files, small batches, several workers
	for i := 0; i < 20; i++ {
		s.writeFixture(filepath.Join("bulk", fmt.Sprintf("file_%02d.tags", i)), "[Group]\ntag_a\ntag_b\n")
	}

	config := &indexer.Config{
		Workers:   4,
		BatchSize: 1,
	}

	stats, err := s.indexer.IndexLibrary(s.ctx, s.libraryDir, config)
	s.Require().NoError(err)
	s.Equal(22, stats.SourcesIndexed)
	s.Equal(0, stats.SourcesFailed)

	library, err := s.storage.GetLibrary(s.ctx, s.libraryDir)
	s.Require().NoError(err)

	sources, err := s.storage.ListSources(s.ctx, library.ID)
	s.NoError(err)
	s.Len(sources, 22)

	for _, source := range sources {
		s.NotEmpty(source.SourcePath)
		s.Nil(source.ParseError)
	}
}

// TestIndexingTestSuite runs the suite
func TestIndexingTestSuite(t *testing.T) {
	suite.Run(t, new(IndexingTestSuite))
}
