package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreRoundtrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	payload := []byte("fake png bytes")

	size, err := store.Save(ctx, "rec-1.png", payload)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), size)

	data, err := store.Load(ctx, "rec-1.png")
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	statSize, err := store.Stat(ctx, "rec-1.png")
	require.NoError(t, err)
	assert.Equal(t, size, statSize)
}

func TestDiskStoreMissingFile(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Load(ctx, "nope.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Stat(ctx, "nope.png")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Remove(ctx, "nope.png"), ErrNotFound)
}

func TestDiskStoreRejectsPathTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	for _, name := range []string{"", "../escape.png", "a/b.png", ".hidden"} {
		_, err := store.Save(ctx, name, []byte("x"))
		assert.Error(t, err, "filename %q should be rejected", name)

		_, err = store.Load(ctx, name)
		assert.Error(t, err)
	}
}

func TestDiskStoreListAndRemove(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Save(ctx, "a.png", []byte("a"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "b.png", []byte("b"))
	require.NoError(t, err)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.png", "b.png"}, names)

	require.NoError(t, store.Remove(ctx, "a.png"))

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.png"}, names)
}
