package assetstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUploadAndList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a, err := store.Upload(ctx, "content", "one.txt", "/base/cat/prod/Item")
	require.NoError(t, err)
	assert.NotEmpty(t, a.FileID)

	files, err := store.List(ctx, "/base/cat/prod/Item", KindFile)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "one.txt", files[0].Name)

	folders, err := store.List(ctx, "/base/cat", KindFolder)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "prod", folders[0].Name)
}

func TestMemoryStoreMovePreservesFileIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a, err := store.Upload(ctx, "content", "one.txt", "/base/cat/old/Item")
	require.NoError(t, err)

	require.NoError(t, store.MoveFolder(ctx, "/base/cat/old/Item", "/base/cat/new"))

	files, err := store.List(ctx, "/base/cat/new/Item", KindFile)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, a.FileID, files[0].FileID)

	assert.Equal(t, 0, store.FileCount("/base/cat/old"))
}

func TestMemoryStoreMoveMissingSource(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.MoveFolder(ctx, "/base/cat/ghost/Item", "/base/cat/new")
	assert.ErrorIs(t, err, ErrNotFound)

	// An explicitly created empty folder is still movable.
	require.NoError(t, store.CreateFolder(ctx, "Item", "/base/cat/empty"))
	require.NoError(t, store.MoveFolder(ctx, "/base/cat/empty/Item", "/base/cat/new"))

	folders, err := store.List(ctx, "/base/cat/new", KindFolder)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "Item", folders[0].Name)
}

func TestMemoryStoreDeleteFolder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Upload(ctx, "content", "one.txt", "/base/cat/prod/Item")
	require.NoError(t, err)

	require.NoError(t, store.DeleteFolder(ctx, "/base/cat/prod"))
	assert.ErrorIs(t, store.DeleteFolder(ctx, "/base/cat/prod"), ErrNotFound)
	assert.ErrorIs(t, store.DeleteFile(ctx, "ghost"), ErrNotFound)
}
