// Package searcher implements queries over indexed tag data.
//
// Two search modes are available:
//   - tags: FTS5 full-text search over tag lines (BM25 ranked)
//   - groups: exact group-name lookup
//
// # Basic Usage
//
//	s := searcher.NewSearcher(store)
//
//	resp, err := s.Search(ctx, searcher.SearchRequest{
//	    LibraryID: library.ID,
//	    Query:     "red_hair",
//	    Mode:      searcher.SearchModeTags,
//	    Limit:     10,
//	})
//
//	for _, result := range resp.Results {
//	    fmt.Printf("[%d] %s (%s in %s)\n",
//	        result.Rank, result.Line, result.GroupName, result.SourcePath)
//	}
//
// # Caching
//
// Responses can be cached in an in-process LRU (1000 entries) keyed by a
// SHA-256 of the identifying request fields. Entries expire after the
// request's CacheTTL (5 minutes when unset):
//
//	resp, _ := s.Search(ctx, searcher.SearchRequest{
//	    LibraryID: library.ID,
//	    Query:     "red_hair",
//	    UseCache:  true,
//	})
package searcher
