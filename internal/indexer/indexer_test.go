package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MightyChubz/tag-parser/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// writeLibrary creates a temp library root with the given files.
func writeLibrary(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestIndexLibrary(t *testing.T) {
	store := newTestStorage(t)
	root := writeLibrary(t, map[string]string{
		"characters.tags": "[Generic]\nred_hair female dress\ndancing fire smile\n[IDs]\n102349",
		"scenery.tags":    "[Outdoor]\nforest river\n",
		"notes.txt":       "not a tag file",
	})

	idx := New(store)
	stats, err := idx.IndexLibrary(context.Background(), root, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.SourcesIndexed)
	assert.Equal(t, 0, stats.SourcesSkipped)
	assert.Equal(t, 0, stats.SourcesFailed)
	assert.Equal(t, 3, stats.GroupsStored)
	assert.Equal(t, 4, stats.TagsStored)

	library, err := store.GetLibrary(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, library.TotalSources)
	assert.Equal(t, 4, library.TotalTags)
	assert.False(t, library.LastIndexedAt.IsZero())
}

func TestIndexLibrary_StoresGroupsInOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	root := writeLibrary(t, map[string]string{
		"ordered.tags": "[B]\ntag1\n[A]\ntag2\ntag3",
	})

	idx := New(store)
	_, err := idx.IndexLibrary(ctx, root, nil)
	require.NoError(t, err)

	library, err := store.GetLibrary(ctx, root)
	require.NoError(t, err)

	source, err := store.GetSource(ctx, library.ID, "ordered.tags")
	require.NoError(t, err)

	groups, err := store.ListGroupsBySource(ctx, source.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "B", groups[0].Name)
	assert.Equal(t, "A", groups[1].Name)

	tags, err := store.ListTagsByGroup(ctx, groups[1].ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "tag2", tags[0].Line)
	assert.Equal(t, "tag3", tags[1].Line)
}

func TestIndexLibrary_SkipsUnchangedSources(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	root := writeLibrary(t, map[string]string{
		"stable.tags": "[A]\ntag1",
	})

	idx := New(store)
	first, err := idx.IndexLibrary(ctx, root, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.SourcesIndexed)

	second, err := idx.IndexLibrary(ctx, root, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, second.SourcesIndexed)
	assert.Equal(t, 1, second.SourcesSkipped)
}

func TestIndexLibrary_ReindexesChangedSources(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	root := writeLibrary(t, map[string]string{
		"changing.tags": "[A]\ntag1",
	})

	idx := New(store)
	_, err := idx.IndexLibrary(ctx, root, nil)
	require.NoError(t, err)

	// Rewrite the file with different content
	path := filepath.Join(root, "changing.tags")
	require.NoError(t, os.WriteFile(path, []byte("[A]\ntag1\ntag2\n[B]\ntag3"), 0644))

	stats, err := idx.IndexLibrary(ctx, root, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SourcesIndexed)

	library, err := store.GetLibrary(ctx, root)
	require.NoError(t, err)

	status, err := store.GetStatus(ctx, library.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, status.GroupsCount)
	assert.Equal(t, 3, status.TagsCount)
}

func TestIndexLibrary_ForceReindex(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	root := writeLibrary(t, map[string]string{
		"stable.tags": "[A]\ntag1",
	})

	idx := New(store)
	_, err := idx.IndexLibrary(ctx, root, nil)
	require.NoError(t, err)

	stats, err := idx.IndexLibrary(ctx, root, &Config{ForceReindex: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SourcesIndexed)
	assert.Equal(t, 0, stats.SourcesSkipped)

	// No duplicate groups after forced re-index
	library, err := store.GetLibrary(ctx, root)
	require.NoError(t, err)
	status, err := store.GetStatus(ctx, library.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.GroupsCount)
	assert.Equal(t, 1, status.TagsCount)
}

func TestIndexLibrary_RecordsFormatErrors(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	root := writeLibrary(t, map[string]string{
		"good.tags":   "[A]\ntag1",
		"broken.tags": "orphan\n[A]\ntag1",
	})

	idx := New(store)
	stats, err := idx.IndexLibrary(ctx, root, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.SourcesIndexed)
	assert.Equal(t, 1, stats.SourcesFailed)
	require.Len(t, stats.ErrorMessages, 1)
	assert.Contains(t, stats.ErrorMessages[0], "broken.tags")

	library, err := store.GetLibrary(ctx, root)
	require.NoError(t, err)

	source, err := store.GetSource(ctx, library.ID, "broken.tags")
	require.NoError(t, err)
	require.NotNil(t, source.ParseError)
	assert.Contains(t, *source.ParseError, "before any group header")
}

func TestIndexLibrary_CustomDelimiter(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	root := writeLibrary(t, map[string]string{
		"semicolon.tags": "[A];tag1;tag2",
	})

	idx := New(store)
	stats, err := idx.IndexLibrary(ctx, root, &Config{Delimiter: ';'})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.SourcesIndexed)
	assert.Equal(t, 2, stats.TagsStored)
}

func TestIndexLibrary_SkipsHiddenDirectories(t *testing.T) {
	store := newTestStorage(t)
	root := writeLibrary(t, map[string]string{
		"visible.tags":      "[A]\ntag1",
		".hidden/seen.tags": "[B]\ntag2",
	})

	idx := New(store)
	stats, err := idx.IndexLibrary(context.Background(), root, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.SourcesIndexed)
}

func TestIndexLock(t *testing.T) {
	var lock IndexLock

	assert.True(t, lock.TryAcquire())
	assert.False(t, lock.TryAcquire())

	lock.Release()
	assert.True(t, lock.TryAcquire())
}
