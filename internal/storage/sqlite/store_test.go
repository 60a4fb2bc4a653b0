package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/metaflow/internal/storage"
	"github.com/julianstephens/metaflow/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "metaflow.db"))
	require.NoError(t, store.Open(context.Background()))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return setupTestStore(t)
	})
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "metaflow.db")

	store := NewStore(path)
	require.NoError(t, store.Open(ctx))
	require.NoError(t, store.Open(ctx))
	require.NoError(t, store.Set(ctx, "@metaflow_goals", json.RawMessage(`[{"id":"g1"}]`)))
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	// Reopening runs migrations again without error and keeps data
	reopened := NewStore(path)
	require.NoError(t, reopened.Open(ctx))
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "@metaflow_goals")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"g1"}]`, string(value))
	assert.Equal(t, path, reopened.Location())
}
