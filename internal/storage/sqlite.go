package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Library operations

// createLibraryWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) createLibraryWithQuerier(ctx context.Context, q querier, library *Library) error {
	query := `
		INSERT INTO libraries (root_path, delimiter, index_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		library.RootPath, library.Delimiter, library.IndexVersion, now, now)
	if err != nil {
		return fmt.Errorf("failed to create library: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	library.ID = id
	library.CreatedAt = now
	library.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateLibrary(ctx context.Context, library *Library) error {
	return s.createLibraryWithQuerier(ctx, s.querier(), library)
}

// getLibraryWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getLibraryWithQuerier(ctx context.Context, q querier, rootPath string) (*Library, error) {
	query := `
		SELECT id, root_path, delimiter, total_sources, total_tags,
		       index_version, last_indexed_at, created_at, updated_at
		FROM libraries
		WHERE root_path = ?
	`
	return scanLibrary(q.QueryRowContext(ctx, query, rootPath))
}

func (s *SQLiteStorage) GetLibrary(ctx context.Context, rootPath string) (*Library, error) {
	return s.getLibraryWithQuerier(ctx, s.querier(), rootPath)
}

// getLibraryByIDWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getLibraryByIDWithQuerier(ctx context.Context, q querier, libraryID int64) (*Library, error) {
	query := `
		SELECT id, root_path, delimiter, total_sources, total_tags,
		       index_version, last_indexed_at, created_at, updated_at
		FROM libraries
		WHERE id = ?
	`
	return scanLibrary(q.QueryRowContext(ctx, query, libraryID))
}

func (s *SQLiteStorage) GetLibraryByID(ctx context.Context, libraryID int64) (*Library, error) {
	return s.getLibraryByIDWithQuerier(ctx, s.querier(), libraryID)
}

// scanLibrary scans a library row, translating sql.ErrNoRows to ErrNotFound
func scanLibrary(row *sql.Row) (*Library, error) {
	var library Library
	var lastIndexedAt sql.NullTime
	err := row.Scan(
		&library.ID, &library.RootPath, &library.Delimiter,
		&library.TotalSources, &library.TotalTags, &library.IndexVersion,
		&lastIndexedAt, &library.CreatedAt, &library.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastIndexedAt.Valid {
		library.LastIndexedAt = lastIndexedAt.Time
	}
	return &library, nil
}

// updateLibraryWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) updateLibraryWithQuerier(ctx context.Context, q querier, library *Library) error {
	query := `
		UPDATE libraries
		SET delimiter = ?, total_sources = ?, total_tags = ?,
		    last_indexed_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	_, err := q.ExecContext(ctx, query,
		library.Delimiter, library.TotalSources, library.TotalTags,
		library.LastIndexedAt, now, library.ID)
	if err != nil {
		return fmt.Errorf("failed to update library: %w", err)
	}
	library.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateLibrary(ctx context.Context, library *Library) error {
	return s.updateLibraryWithQuerier(ctx, s.querier(), library)
}

// Source operations

// upsertSourceWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) upsertSourceWithQuerier(ctx context.Context, q querier, source *Source) error {
	query := `
		INSERT INTO sources (library_id, source_path, content_hash, mod_time, size_bytes, parse_error, last_indexed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(library_id, source_path) DO UPDATE SET
			content_hash = excluded.content_hash,
			mod_time = excluded.mod_time,
			size_bytes = excluded.size_bytes,
			parse_error = excluded.parse_error,
			last_indexed_at = excluded.last_indexed_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		source.LibraryID, source.SourcePath, source.ContentHash[:],
		source.ModTime, source.SizeBytes, source.ParseError, now, now, now).Scan(&source.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}

	source.LastIndexedAt = now
	source.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertSource(ctx context.Context, source *Source) error {
	return s.upsertSourceWithQuerier(ctx, s.querier(), source)
}

// getSourceWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getSourceWithQuerier(ctx context.Context, q querier, libraryID int64, sourcePath string) (*Source, error) {
	query := `
		SELECT id, library_id, source_path, content_hash, mod_time,
		       size_bytes, parse_error, last_indexed_at, created_at, updated_at
		FROM sources
		WHERE library_id = ? AND source_path = ?
	`
	var source Source
	var hash []byte
	var parseError sql.NullString
	err := q.QueryRowContext(ctx, query, libraryID, sourcePath).Scan(
		&source.ID, &source.LibraryID, &source.SourcePath,
		&hash, &source.ModTime, &source.SizeBytes, &parseError,
		&source.LastIndexedAt, &source.CreatedAt, &source.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	copy(source.ContentHash[:], hash)
	if parseError.Valid {
		source.ParseError = &parseError.String
	}
	return &source, nil
}

func (s *SQLiteStorage) GetSource(ctx context.Context, libraryID int64, sourcePath string) (*Source, error) {
	return s.getSourceWithQuerier(ctx, s.querier(), libraryID, sourcePath)
}

// deleteSourceWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteSourceWithQuerier(ctx context.Context, q querier, sourceID int64) error {
	query := `DELETE FROM sources WHERE id = ?`
	_, err := q.ExecContext(ctx, query, sourceID)
	return err
}

func (s *SQLiteStorage) DeleteSource(ctx context.Context, sourceID int64) error {
	return s.deleteSourceWithQuerier(ctx, s.querier(), sourceID)
}

// listSourcesWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listSourcesWithQuerier(ctx context.Context, q querier, libraryID int64) ([]*Source, error) {
	query := `
		SELECT id, library_id, source_path, content_hash, mod_time,
		       size_bytes, parse_error, last_indexed_at, created_at, updated_at
		FROM sources
		WHERE library_id = ?
		ORDER BY source_path
	`
	rows, err := q.QueryContext(ctx, query, libraryID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*Source, 0)
	for rows.Next() {
		var source Source
		var hash []byte
		var parseError sql.NullString

		err := rows.Scan(
			&source.ID, &source.LibraryID, &source.SourcePath,
			&hash, &source.ModTime, &source.SizeBytes, &parseError,
			&source.LastIndexedAt, &source.CreatedAt, &source.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		copy(source.ContentHash[:], hash)
		if parseError.Valid {
			source.ParseError = &parseError.String
		}

		sources = append(sources, &source)
	}
	return sources, rows.Err()
}

func (s *SQLiteStorage) ListSources(ctx context.Context, libraryID int64) ([]*Source, error) {
	return s.listSourcesWithQuerier(ctx, s.querier(), libraryID)
}

// Group operations

// insertGroupWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) insertGroupWithQuerier(ctx context.Context, q querier, group *GroupRecord) error {
	query := `
		INSERT INTO groups (source_id, name, position, created_at)
		VALUES (?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query, group.SourceID, group.Name, group.Position, now)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	group.ID = id
	group.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertGroup(ctx context.Context, group *GroupRecord) error {
	return s.insertGroupWithQuerier(ctx, s.querier(), group)
}

// listGroupsBySourceWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listGroupsBySourceWithQuerier(ctx context.Context, q querier, sourceID int64) ([]*GroupRecord, error) {
	query := `
		SELECT id, source_id, name, position, created_at
		FROM groups
		WHERE source_id = ?
		ORDER BY position
	`
	rows, err := q.QueryContext(ctx, query, sourceID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	groups := make([]*GroupRecord, 0)
	for rows.Next() {
		var group GroupRecord
		err := rows.Scan(&group.ID, &group.SourceID, &group.Name, &group.Position, &group.CreatedAt)
		if err != nil {
			return nil, err
		}
		groups = append(groups, &group)
	}
	return groups, rows.Err()
}

func (s *SQLiteStorage) ListGroupsBySource(ctx context.Context, sourceID int64) ([]*GroupRecord, error) {
	return s.listGroupsBySourceWithQuerier(ctx, s.querier(), sourceID)
}

// deleteGroupsBySourceWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteGroupsBySourceWithQuerier(ctx context.Context, q querier, sourceID int64) error {
	query := `DELETE FROM groups WHERE source_id = ?`
	_, err := q.ExecContext(ctx, query, sourceID)
	return err
}

func (s *SQLiteStorage) DeleteGroupsBySource(ctx context.Context, sourceID int64) error {
	return s.deleteGroupsBySourceWithQuerier(ctx, s.querier(), sourceID)
}

// findGroupsByNameWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) findGroupsByNameWithQuerier(ctx context.Context, q querier, libraryID int64, name string, limit int) ([]GroupMatch, error) {
	query := `
		SELECT g.id, g.name, s.source_path,
		       (SELECT COUNT(*) FROM tags t WHERE t.group_id = g.id) AS tag_count
		FROM groups g
		JOIN sources s ON g.source_id = s.id
		WHERE s.library_id = ? AND g.name = ?
		ORDER BY s.source_path, g.position
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, query, libraryID, name, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	matches := make([]GroupMatch, 0)
	for rows.Next() {
		var match GroupMatch
		err := rows.Scan(&match.GroupID, &match.Name, &match.SourcePath, &match.TagCount)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (s *SQLiteStorage) FindGroupsByName(ctx context.Context, libraryID int64, name string, limit int) ([]GroupMatch, error) {
	return s.findGroupsByNameWithQuerier(ctx, s.querier(), libraryID, name, limit)
}

// Tag operations

// insertTagWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) insertTagWithQuerier(ctx context.Context, q querier, tag *TagRecord) error {
	query := `
		INSERT INTO tags (group_id, line, position, created_at)
		VALUES (?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query, tag.GroupID, tag.Line, tag.Position, now)
	if err != nil {
		return fmt.Errorf("failed to insert tag: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	tag.ID = id
	tag.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertTag(ctx context.Context, tag *TagRecord) error {
	return s.insertTagWithQuerier(ctx, s.querier(), tag)
}

// listTagsByGroupWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listTagsByGroupWithQuerier(ctx context.Context, q querier, groupID int64) ([]*TagRecord, error) {
	query := `
		SELECT id, group_id, line, position, created_at
		FROM tags
		WHERE group_id = ?
		ORDER BY position
	`
	rows, err := q.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tags := make([]*TagRecord, 0)
	for rows.Next() {
		var tag TagRecord
		err := rows.Scan(&tag.ID, &tag.GroupID, &tag.Line, &tag.Position, &tag.CreatedAt)
		if err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

func (s *SQLiteStorage) ListTagsByGroup(ctx context.Context, groupID int64) ([]*TagRecord, error) {
	return s.listTagsByGroupWithQuerier(ctx, s.querier(), groupID)
}

// searchTagsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) searchTagsWithQuerier(ctx context.Context, q querier, libraryID int64, query string, limit int) ([]TagMatch, error) {
	// Note: In FTS5, 'rank' is a built-in virtual column representing BM25
	// relevance. Lower rank values indicate better matches.
	sqlQuery := `
		SELECT t.id, t.line, g.name, s.source_path, t.position, rank
		FROM tags t
		JOIN tags_fts fts ON t.id = fts.rowid
		JOIN groups g ON t.group_id = g.id
		JOIN sources s ON g.source_id = s.id
		WHERE fts.tags_fts MATCH ? AND s.library_id = ?
		ORDER BY rank
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, sqlQuery, query, libraryID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	matches := make([]TagMatch, 0)
	for rows.Next() {
		var match TagMatch
		err := rows.Scan(&match.TagID, &match.Line, &match.GroupName,
			&match.SourcePath, &match.Position, &match.BM25Score)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (s *SQLiteStorage) SearchTags(ctx context.Context, libraryID int64, query string, limit int) ([]TagMatch, error) {
	return s.searchTagsWithQuerier(ctx, s.querier(), libraryID, query, limit)
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context, libraryID int64) (*LibraryStatus, error) {
	library, err := s.GetLibraryByID(ctx, libraryID)
	if err != nil {
		return nil, err
	}

	status := &LibraryStatus{
		Library:       library,
		LastIndexedAt: library.LastIndexedAt,
	}

	// Count sources
	var sourceCount int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sources WHERE library_id = ?", libraryID).Scan(&sourceCount)
	if err != nil {
		return nil, err
	}
	status.SourcesCount = sourceCount

	// Count groups
	var groupCount int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM groups g
		JOIN sources s ON g.source_id = s.id
		WHERE s.library_id = ?
	`, libraryID).Scan(&groupCount)
	if err != nil {
		return nil, err
	}
	status.GroupsCount = groupCount

	// Count tags
	var tagCount int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tags t
		JOIN groups g ON t.group_id = g.id
		JOIN sources s ON g.source_id = s.id
		WHERE s.library_id = ?
	`, libraryID).Scan(&tagCount)
	if err != nil {
		return nil, err
	}
	status.TagsCount = tagCount

	// Calculate database size
	var pageCount, pageSize int
	err = s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	if err == nil {
		_ = s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.IndexSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	status.Health = HealthStatus{
		DatabaseAccessible: true,
		FTSIndexBuilt:      true, // FTS index is created with migrations
	}

	return status, nil
}

// Transaction implementations - write operations use the internal helper
// that takes a querier; read-only operations may use either.

func (t *sqliteTx) CreateLibrary(ctx context.Context, library *Library) error {
	return t.storage.createLibraryWithQuerier(ctx, t.querier(), library)
}

func (t *sqliteTx) GetLibrary(ctx context.Context, rootPath string) (*Library, error) {
	return t.storage.getLibraryWithQuerier(ctx, t.querier(), rootPath)
}

func (t *sqliteTx) GetLibraryByID(ctx context.Context, libraryID int64) (*Library, error) {
	return t.storage.getLibraryByIDWithQuerier(ctx, t.querier(), libraryID)
}

func (t *sqliteTx) UpdateLibrary(ctx context.Context, library *Library) error {
	return t.storage.updateLibraryWithQuerier(ctx, t.querier(), library)
}

func (t *sqliteTx) UpsertSource(ctx context.Context, source *Source) error {
	return t.storage.upsertSourceWithQuerier(ctx, t.querier(), source)
}

func (t *sqliteTx) GetSource(ctx context.Context, libraryID int64, sourcePath string) (*Source, error) {
	return t.storage.getSourceWithQuerier(ctx, t.querier(), libraryID, sourcePath)
}

func (t *sqliteTx) DeleteSource(ctx context.Context, sourceID int64) error {
	return t.storage.deleteSourceWithQuerier(ctx, t.querier(), sourceID)
}

func (t *sqliteTx) ListSources(ctx context.Context, libraryID int64) ([]*Source, error) {
	return t.storage.listSourcesWithQuerier(ctx, t.querier(), libraryID)
}

func (t *sqliteTx) InsertGroup(ctx context.Context, group *GroupRecord) error {
	return t.storage.insertGroupWithQuerier(ctx, t.querier(), group)
}

func (t *sqliteTx) ListGroupsBySource(ctx context.Context, sourceID int64) ([]*GroupRecord, error) {
	return t.storage.listGroupsBySourceWithQuerier(ctx, t.querier(), sourceID)
}

func (t *sqliteTx) DeleteGroupsBySource(ctx context.Context, sourceID int64) error {
	return t.storage.deleteGroupsBySourceWithQuerier(ctx, t.querier(), sourceID)
}

func (t *sqliteTx) FindGroupsByName(ctx context.Context, libraryID int64, name string, limit int) ([]GroupMatch, error) {
	return t.storage.findGroupsByNameWithQuerier(ctx, t.querier(), libraryID, name, limit)
}

func (t *sqliteTx) InsertTag(ctx context.Context, tag *TagRecord) error {
	return t.storage.insertTagWithQuerier(ctx, t.querier(), tag)
}

func (t *sqliteTx) ListTagsByGroup(ctx context.Context, groupID int64) ([]*TagRecord, error) {
	return t.storage.listTagsByGroupWithQuerier(ctx, t.querier(), groupID)
}

func (t *sqliteTx) SearchTags(ctx context.Context, libraryID int64, query string, limit int) ([]TagMatch, error) {
	return t.storage.searchTagsWithQuerier(ctx, t.querier(), libraryID, query, limit)
}

func (t *sqliteTx) GetStatus(ctx context.Context, libraryID int64) (*LibraryStatus, error) {
	return t.storage.GetStatus(ctx, libraryID)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
