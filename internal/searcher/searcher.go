package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/MightyChubz/tag-parser/internal/storage"
)

// SearchMode defines how search is performed
type SearchMode string

const (
	SearchModeTags   SearchMode = "tags"   // FTS5 full-text search over tag lines
	SearchModeGroups SearchMode = "groups" // Exact group-name lookup
)

// DefaultLimit is the result limit applied when a request leaves it unset.
const DefaultLimit = 10

// SearchRequest contains parameters for a search operation
type SearchRequest struct {
	Query     string
	Limit     int
	Mode      SearchMode
	LibraryID int64
	UseCache  bool // Whether to use the query cache
	CacheTTL  time.Duration
}

// Result is a single search hit. For tag mode, Line and Position are set;
// for group mode, TagCount is set instead.
type Result struct {
	Rank       int // Position in result set (1-based)
	Line       string
	GroupName  string
	SourcePath string
	Position   int
	TagCount   int
	Score      float64
}

// SearchResponse contains search results and metadata
type SearchResponse struct {
	Results      []Result
	TotalResults int
	SearchMode   SearchMode
	Duration     time.Duration
	CacheHit     bool
}

// cacheEntry represents a cached search response with expiration time
type cacheEntry struct {
	response  *SearchResponse
	expiresAt time.Time
}

// Searcher coordinates search operations over indexed tag data
type Searcher struct {
	storage storage.Storage
	cache   *lru.Cache[[32]byte, *cacheEntry]
}

// NewSearcher creates a new Searcher instance
func NewSearcher(storage storage.Storage) *Searcher {
	// LRU cache with 1000 entry limit; least recently used entries are
	// evicted automatically.
	cache, err := lru.New[[32]byte, *cacheEntry](1000)
	if err != nil {
		// Only possible with an invalid size parameter
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	return &Searcher{
		storage: storage,
		cache:   cache,
	}
}

// Search performs a search based on the request parameters
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()

	if err := s.validateRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	// Check cache if enabled
	key := cacheKey(req)
	if req.UseCache {
		if cached := s.checkCache(key); cached != nil {
			cached.CacheHit = true
			cached.Duration = time.Since(startTime)
			return cached, nil
		}
	}

	var response *SearchResponse
	var err error

	switch req.Mode {
	case SearchModeTags:
		response, err = s.searchTags(ctx, req)
	case SearchModeGroups:
		response, err = s.searchGroups(ctx, req)
	default:
		return nil, fmt.Errorf("unsupported search mode: %s", req.Mode)
	}

	if err != nil {
		return nil, err
	}

	response.Duration = time.Since(startTime)
	response.SearchMode = req.Mode

	if req.UseCache {
		s.storeInCache(key, req.CacheTTL, response)
	}

	return response, nil
}

// validateRequest normalizes and validates a search request
func (s *Searcher) validateRequest(req *SearchRequest) error {
	if req.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if req.LibraryID == 0 {
		return fmt.Errorf("library ID is required")
	}
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}
	if req.Mode == "" {
		req.Mode = SearchModeTags
	}
	return nil
}

// searchTags runs a full-text search over tag lines
func (s *Searcher) searchTags(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	matches, err := s.storage.SearchTags(ctx, req.LibraryID, req.Query, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("tag search failed: %w", err)
	}

	results := make([]Result, len(matches))
	for i, match := range matches {
		results[i] = Result{
			Rank:       i + 1,
			Line:       match.Line,
			GroupName:  match.GroupName,
			SourcePath: match.SourcePath,
			Position:   match.Position,
			Score:      match.BM25Score,
		}
	}

	return &SearchResponse{
		Results:      results,
		TotalResults: len(results),
	}, nil
}

// searchGroups looks up groups by exact name
func (s *Searcher) searchGroups(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	matches, err := s.storage.FindGroupsByName(ctx, req.LibraryID, req.Query, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("group search failed: %w", err)
	}

	results := make([]Result, len(matches))
	for i, match := range matches {
		results[i] = Result{
			Rank:       i + 1,
			GroupName:  match.Name,
			SourcePath: match.SourcePath,
			TagCount:   match.TagCount,
		}
	}

	return &SearchResponse{
		Results:      results,
		TotalResults: len(results),
	}, nil
}

// cacheKey derives a stable key from the request's identifying fields
func cacheKey(req SearchRequest) [32]byte {
	return sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s|%d", req.LibraryID, req.Mode, req.Query, req.Limit)))
}

// checkCache returns a copy of a live cached response, or nil
func (s *Searcher) checkCache(key [32]byte) *SearchResponse {
	entry, ok := s.cache.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		s.cache.Remove(key)
		return nil
	}

	// Copy, including the results slice, so callers can't mutate the
	// cached response.
	copied := *entry.response
	copied.Results = append([]Result(nil), entry.response.Results...)
	return &copied
}

// storeInCache records a response for future identical requests
func (s *Searcher) storeInCache(key [32]byte, ttl time.Duration, response *SearchResponse) {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	copied := *response
	copied.Results = append([]Result(nil), response.Results...)
	s.cache.Add(key, &cacheEntry{
		response:  &copied,
		expiresAt: time.Now().Add(ttl),
	})
}
