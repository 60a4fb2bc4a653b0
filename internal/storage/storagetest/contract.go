// Package storagetest holds the behavioral checks every storage.Provider must pass.
package storagetest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/metaflow/internal/storage"
)

// Run exercises a freshly opened, empty provider returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) storage.Provider) {
	ctx := context.Background()

	t.Run("MissingKey", func(t *testing.T) {
		s := newStore(t)
		value, ok, err := s.Get(ctx, "@metaflow_missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, value)
	})

	t.Run("SetGet", func(t *testing.T) {
		s := newStore(t)
		doc := json.RawMessage(`[{"id":"a","name":"Read"}]`)
		require.NoError(t, s.Set(ctx, "@metaflow_habits", doc))

		value, ok, err := s.Get(ctx, "@metaflow_habits")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, string(doc), string(value))
	})

	t.Run("Overwrite", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "@metaflow_theme", json.RawMessage(`"light"`)))
		require.NoError(t, s.Set(ctx, "@metaflow_theme", json.RawMessage(`"dark"`)))

		value, ok, err := s.Get(ctx, "@metaflow_theme")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `"dark"`, string(value))
	})

	t.Run("Remove", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "@metaflow_notes", json.RawMessage(`[]`)))
		require.NoError(t, s.Remove(ctx, "@metaflow_notes"))
		// Removing an absent key is not an error
		require.NoError(t, s.Remove(ctx, "@metaflow_notes"))

		_, ok, err := s.Get(ctx, "@metaflow_notes")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("KeysAndClear", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "@metaflow_goals", json.RawMessage(`[]`)))
		require.NoError(t, s.Set(ctx, "@metaflow_tasks", json.RawMessage(`[]`)))

		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"@metaflow_goals", "@metaflow_tasks"}, keys)

		require.NoError(t, s.Clear(ctx))
		keys, err = s.Keys(ctx)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("Location", func(t *testing.T) {
		assert.NotEmpty(t, newStore(t).Location())
	})
}
