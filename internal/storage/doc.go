// Package storage provides SQLite-based persistence for parsed tag data.
//
// The storage layer manages:
//   - Library metadata (a root directory of tag files)
//   - Source files and their content hashes
//   - Tag groups in order of appearance
//   - Tag lines with a full-text search index
//
// # Database Schema
//
// Tables:
//   - libraries: Library metadata (root path, delimiter, totals)
//   - sources: Tag file paths and SHA-256 hashes
//   - groups: Named tag groups per source, ordered by position
//   - tags: Tag lines per group, ordered by position
//   - tags_fts: FTS5 full-text search index over tag lines
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.tagfile/indices/tagfile.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	matches, err := db.SearchTags(ctx, libraryID, "red_hair", 10)
//
// # Transactions
//
// Use transactions for atomic multi-row writes, e.g. storing one parsed
// source with all of its groups and tags:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	tx.UpsertSource(ctx, source)
//	tx.InsertGroup(ctx, group)
//	tx.InsertTag(ctx, tag)
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Drivers
//
// Two SQLite drivers are supported behind build tags: modernc.org/sqlite
// (pure Go, the default) and github.com/mattn/go-sqlite3 (CGO, built with
// -tags cgo_sqlite,fts5). See build_purego.go and build_cgo.go.
package storage
