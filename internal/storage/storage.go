package storage

import (
	"context"
	"time"
)

// Storage defines the interface for persisting and querying parsed tag data
type Storage interface {
	// Library operations
	CreateLibrary(ctx context.Context, library *Library) error
	GetLibrary(ctx context.Context, rootPath string) (*Library, error)
	GetLibraryByID(ctx context.Context, libraryID int64) (*Library, error)
	UpdateLibrary(ctx context.Context, library *Library) error

	// Source operations
	UpsertSource(ctx context.Context, source *Source) error
	GetSource(ctx context.Context, libraryID int64, sourcePath string) (*Source, error)
	DeleteSource(ctx context.Context, sourceID int64) error
	ListSources(ctx context.Context, libraryID int64) ([]*Source, error)

	// Group operations
	InsertGroup(ctx context.Context, group *GroupRecord) error
	ListGroupsBySource(ctx context.Context, sourceID int64) ([]*GroupRecord, error)
	DeleteGroupsBySource(ctx context.Context, sourceID int64) error
	FindGroupsByName(ctx context.Context, libraryID int64, name string, limit int) ([]GroupMatch, error)

	// Tag operations
	InsertTag(ctx context.Context, tag *TagRecord) error
	ListTagsByGroup(ctx context.Context, groupID int64) ([]*TagRecord, error)
	SearchTags(ctx context.Context, libraryID int64, query string, limit int) ([]TagMatch, error)

	// Status operations
	GetStatus(ctx context.Context, libraryID int64) (*LibraryStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Library represents an indexed directory of tag files
type Library struct {
	ID            int64
	RootPath      string
	Delimiter     string // Delimiter the library was indexed with
	TotalSources  int
	TotalTags     int
	IndexVersion  string
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Source represents a tracked tag file
type Source struct {
	ID            int64
	LibraryID     int64
	SourcePath    string // Relative to library root
	ContentHash   [32]byte
	ModTime       time.Time
	SizeBytes     int64
	ParseError    *string // Nullable
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GroupRecord represents a stored tag group
type GroupRecord struct {
	ID        int64
	SourceID  int64
	Name      string
	Position  int // Zero-based order of appearance within the source
	CreatedAt time.Time
}

// TagRecord represents a stored tag line
type TagRecord struct {
	ID        int64
	GroupID   int64
	Line      string
	Position  int // Zero-based order of appearance within the group
	CreatedAt time.Time
}

// TagMatch represents a full-text search hit on a tag line
type TagMatch struct {
	TagID      int64
	Line       string
	GroupName  string
	SourcePath string
	Position   int
	BM25Score  float64
}

// GroupMatch represents a group-name lookup hit
type GroupMatch struct {
	GroupID    int64
	Name       string
	SourcePath string
	TagCount   int
}

// LibraryStatus contains statistics about an indexed library
type LibraryStatus struct {
	Library       *Library
	SourcesCount  int
	GroupsCount   int
	TagsCount     int
	IndexSizeMB   float64
	LastIndexedAt time.Time
	Health        HealthStatus
}

// HealthStatus represents the health of the index
type HealthStatus struct {
	DatabaseAccessible bool
	FTSIndexBuilt      bool
}
