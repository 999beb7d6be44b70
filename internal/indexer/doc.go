// Package indexer coordinates the tag file indexing pipeline: discovering
// tag files under a library root, parsing each one, and storing its groups
// and tag lines.
//
// # Basic Usage
//
//	idx := indexer.New(store)
//	stats, err := idx.IndexLibrary(ctx, "/libraries/booru", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("indexed %d sources, %d tags\n", stats.SourcesIndexed, stats.TagsStored)
//
// # Pipeline
//
// Files are processed in batches, one transaction per batch, with a
// semaphore-bounded worker pool on top of errgroup. Progress is tracked
// with atomic counters and summarized in Statistics.
//
// # Incremental Indexing
//
// Each source's SHA-256 content hash is stored; unchanged files are
// skipped on subsequent runs. Changed files have their old groups deleted
// (tags cascade) before re-indexing. ForceReindex bypasses the hash check.
//
// # Failure Isolation
//
// A file whose content violates the tag format (a tag line before any
// group header) is recorded with its format error and counted as failed;
// the rest of the run continues.
package indexer
