package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/MightyChubz/tag-parser/internal/indexer"
	"github.com/MightyChubz/tag-parser/internal/searcher"
	"github.com/MightyChubz/tag-parser/internal/storage"
)

// SearchTestSuite contains end-to-end tests for indexing followed by search
type SearchTestSuite struct {
	suite.Suite
	storage  storage.Storage
	searcher *searcher.Searcher
	library  *storage.Library
	ctx      context.Context
}

// SetupTest indexes a fixture library before each test
func (s *SearchTestSuite) SetupTest() {
	s.ctx = context.Background()

	store, err := storage.NewSQLiteStorage(":memory:")
	s.Require().NoError(err)
	s.storage = store
	s.searcher = searcher.NewSearcher(store)

	dir := s.T().TempDir()
	fixtures := map[string]string{
		"anime.tags":  "[Generic]\naction shounen\n進撃の巨人\n\n[IDs]\n102349\n",
		"movies.tags": "[Generic]\nthriller\n\n[Watched]\naction classic\nnoir\n",
	}
	for name, content := range fixtures {
		s.Require().NoError(os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	_, err = indexer.New(store).IndexLibrary(s.ctx, dir, &indexer.Config{})
	s.Require().NoError(err)

	library, err := store.GetLibrary(s.ctx, dir)
	s.Require().NoError(err)
	s.library = library
}

// TearDownTest runs after each test
func (s *SearchTestSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *SearchTestSuite) search(req searcher.SearchRequest) *searcher.SearchResponse {
	req.LibraryID = s.library.ID
	resp, err := s.searcher.Search(s.ctx, req)
	s.Require().NoError(err)
	return resp
}

// TestTagSearch tests full-text search over tag lines
func (s *SearchTestSuite) TestTagSearch() {
	resp := s.search(searcher.SearchRequest{
		Query: "action",
		Mode:  searcher.SearchModeTags,
	})

	s.Equal(2, resp.TotalResults, "both action tag lines should match")
	s.Equal(searcher.SearchModeTags, resp.SearchMode)

	for i, result := range resp.Results {
		s.Equal(i+1, result.Rank)
		s.Contains(result.Line, "action")
		s.NotEmpty(result.GroupName)
		s.NotEmpty(result.SourcePath)
	}
}

// TestUnicodeTagSearch tests that non-ASCII tag lines are searchable
func (s *SearchTestSuite) TestUnicodeTagSearch() {
	resp := s.search(searcher.SearchRequest{
		Query: "進撃の巨人",
		Mode:  searcher.SearchModeTags,
	})

	s.Require().Equal(1, resp.TotalResults)
	s.Equal("進撃の巨人", resp.Results[0].Line)
	s.Equal("Generic", resp.Results[0].GroupName)
}

// TestGroupSearch tests exact group-name lookup
func (s *SearchTestSuite) TestGroupSearch() {
	resp := s.search(searcher.SearchRequest{
		Query: "Generic",
		Mode:  searcher.SearchModeGroups,
	})

	s.Equal(2, resp.TotalResults, "Generic group exists in both sources")
	for _, result := range resp.Results {
		s.Equal("Generic", result.GroupName)
		s.Greater(result.TagCount, 0)
	}
}

// TestSearchLimit tests that the limit parameter caps results
func (s *SearchTestSuite) TestSearchLimit() {
	resp := s.search(searcher.SearchRequest{
		Query: "action",
		Mode:  searcher.SearchModeTags,
		Limit: 1,
	})

	s.Equal(1, resp.TotalResults)
}

// TestSearchNoResults tests a query that matches nothing
func (s *SearchTestSuite) TestSearchNoResults() {
	resp := s.search(searcher.SearchRequest{
		Query: "nonexistent",
		Mode:  searcher.SearchModeTags,
	})

	s.Equal(0, resp.TotalResults)
	s.Empty(resp.Results)
}

// TestSearchCache tests that repeated queries hit the cache
func (s *SearchTestSuite) TestSearchCache() {
	req := searcher.SearchRequest{
		Query:    "action",
		Mode:     searcher.SearchModeTags,
		UseCache: true,
		CacheTTL: time.Minute,
	}

	first := s.search(req)
	s.False(first.CacheHit)

	second := s.search(req)
	s.True(second.CacheHit)
	s.Equal(first.TotalResults, second.TotalResults)
}

// TestSearchAfterReindex tests that search reflects re-indexed content
func (s *SearchTestSuite) TestSearchAfterReindex() {
	resp := s.search(searcher.SearchRequest{
		Query: "noir",
		Mode:  searcher.SearchModeTags,
	})
	s.Require().Equal(1, resp.TotalResults)

	// Rewrite the source without the noir tag
	time.Sleep(10 * time.Millisecond)
	path := filepath.Join(s.library.RootPath, "movies.tags")
	s.Require().NoError(os.WriteFile(path, []byte("[Watched]\naction classic\n"), 0644))

	_, err := indexer.New(s.storage).IndexLibrary(s.ctx, s.library.RootPath, &indexer.Config{})
	s.Require().NoError(err)

	resp = s.search(searcher.SearchRequest{
		Query: "noir",
		Mode:  searcher.SearchModeTags,
	})
	s.Equal(0, resp.TotalResults, "removed tag lines should leave the FTS index")
}

// TestSearchTestSuite runs the suite
func TestSearchTestSuite(t *testing.T) {
	suite.Run(t, new(SearchTestSuite))
}
