package collection

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/metaflow/internal/errors"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/storage"
)

const testKey = "@metaflow_notes"

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func setup(t *testing.T) (*Collection[models.Note, *models.Note], *storage.MemoryStore, *clock) {
	t.Helper()
	store := storage.NewMemoryStore()
	clk := &clock{t: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}
	c := New[models.Note](store, testKey, "note")
	c.Now = clk.now
	return c, store, clk
}

func TestLoadAllMissingKey(t *testing.T) {
	c, _, _ := setup(t)
	items := c.LoadAll(context.Background())
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestLoadAllCorruptData(t *testing.T) {
	c, store, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, testKey, json.RawMessage(`{"not":"an array"}`)))

	assert.Empty(t, c.LoadAll(ctx))
}

func TestLoadAllNullData(t *testing.T) {
	c, store, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, testKey, json.RawMessage(`null`)))

	items := c.LoadAll(ctx)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestUpsertInsertAndReplace(t *testing.T) {
	c, _, clk := setup(t)
	ctx := context.Background()
	created := clk.t

	saved, err := c.Upsert(ctx, models.Note{Title: "first"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, created, saved.CreatedAt)
	assert.Equal(t, created, saved.UpdatedAt)

	clk.advance(time.Hour)
	saved.Title = "renamed"
	// A caller-supplied createdAt is ignored in favor of the stored one
	saved.CreatedAt = time.Time{}
	replaced, err := c.Upsert(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, created, replaced.CreatedAt)
	assert.Equal(t, clk.t, replaced.UpdatedAt)

	all := c.LoadAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "renamed", all[0].Title)
}

func TestUpsertKeepsCallerID(t *testing.T) {
	c, _, _ := setup(t)
	saved, err := c.Upsert(context.Background(), models.Note{Meta: models.Meta{ID: "fixed"}, Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", saved.ID)
}

func TestUpsertUniqueIDs(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n, err := c.Upsert(ctx, models.Note{Title: "n"})
		require.NoError(t, err)
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
}

func TestUpsertWriteFailure(t *testing.T) {
	c, store, _ := setup(t)
	store.FailWrites(true)

	_, err := c.Upsert(context.Background(), models.Note{Title: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIOFailure))
}

func TestFindByID(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()
	saved, err := c.Upsert(ctx, models.Note{Title: "find me"})
	require.NoError(t, err)

	found, err := c.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "find me", found.Title)

	_, err = c.FindByID(ctx, "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestUpdate(t *testing.T) {
	c, _, clk := setup(t)
	ctx := context.Background()
	saved, err := c.Upsert(ctx, models.Note{Title: "a"})
	require.NoError(t, err)

	clk.advance(time.Minute)
	updated, err := c.Update(ctx, saved.ID, func(n *models.Note) error {
		n.IsPinned = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.IsPinned)
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)
	assert.Equal(t, clk.t, updated.UpdatedAt)

	_, err = c.Update(ctx, "missing", func(n *models.Note) error { return nil })
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestUpdateCallbackErrorWritesNothing(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()
	saved, err := c.Upsert(ctx, models.Note{Title: "a"})
	require.NoError(t, err)

	_, err = c.Update(ctx, saved.ID, func(n *models.Note) error {
		n.Title = "changed"
		return errors.Invalid("nope")
	})
	require.Error(t, err)

	found, err := c.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", found.Title)
}

func TestDeleteByID(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()
	a, _ := c.Upsert(ctx, models.Note{Title: "a"})
	b, _ := c.Upsert(ctx, models.Note{Title: "b"})

	require.NoError(t, c.DeleteByID(ctx, a.ID))
	all := c.LoadAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)

	assert.True(t, errors.Is(c.DeleteByID(ctx, a.ID), errors.ErrNotFound))
}

func TestFilter(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()
	_, _ = c.Upsert(ctx, models.Note{Title: "a", IsPinned: true})
	_, _ = c.Upsert(ctx, models.Note{Title: "b"})

	pinned := c.Filter(ctx, func(n *models.Note) bool { return n.IsPinned })
	require.Len(t, pinned, 1)
	assert.Equal(t, "a", pinned[0].Title)
}
