package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	_, err = store.Get(ctx, "classrooms")
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	require.NoError(t, store.Set(ctx, "classrooms", `[{"id":"A"}]`))
	value, err := store.Get(ctx, "classrooms")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"A"}]`, value)

	require.NoError(t, store.Set(ctx, "classrooms", `[]`))
	value, err = store.Get(ctx, "classrooms")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not linger")
}

func TestLocalStorageDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "authToken", "tok"))
	require.NoError(t, store.Delete(ctx, "authToken", "classrooms"))

	_, err = store.Get(ctx, "authToken")
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Set(context.Background(), "../escape", "x")
	assert.Error(t, err)
}
