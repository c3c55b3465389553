package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVRoundTrip(t *testing.T) {
	database, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	ctx := context.Background()

	_, ok, err := database.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, database.Set(ctx, "tasks", []byte(`[]`)))
	require.NoError(t, database.Set(ctx, "tasks", []byte(`[{"id":1}]`)))

	value, ok, err := database.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, string(value))

	require.NoError(t, database.SetMany(ctx, map[string][]byte{
		"projects":       []byte(`[]`),
		"active_project": []byte(`0`),
	}))
	keys, err := database.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"active_project", "projects", "tasks"}, keys)

	require.NoError(t, database.Delete(ctx, "active_project"))
	require.NoError(t, database.Delete(ctx, "missing"))
	_, ok, err = database.Get(ctx, "active_project")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenCreatesFilesAndLocks(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	first, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "postit.db"), first.Path())

	_, err = Open(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocked))

	require.NoError(t, first.Set(context.Background(), "k", []byte("v")))
	require.NoError(t, first.Close())

	second, err := Open(dir)
	require.NoError(t, err, "lock is released on close")
	defer second.Close()

	value, ok, err := second.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(value))
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	database, err := Open(dir)
	require.NoError(t, err)
	defer database.Close()

	assert.Equal(t, FilePath(dir), database.Path())
	assert.FileExists(t, database.Path())
	assert.FileExists(t, filepath.Join(dir, lockFileName))
}
