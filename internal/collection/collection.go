// Package collection layers typed, id-keyed record lists over a single storage key.
package collection

import (
	"context"
	"encoding/json"
	"time"

	"github.com/julianstephens/metaflow/internal/errors"
	"github.com/julianstephens/metaflow/internal/logger"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/storage"
)

// Collection stores a []T as one JSON array under Key. P is *T, which carries the
// record's Meta through models.Record.
//
// Every mutation is load, transform, save with no version check; two interleaved
// mutations of the same key can lose an update.
type Collection[T any, P interface {
	*T
	models.Record
}] struct {
	Store storage.Provider
	Key   string
	// Kind names the record type in error messages
	Kind string
	Now  func() time.Time
}

func New[T any, P interface {
	*T
	models.Record
}](store storage.Provider, key, kind string) *Collection[T, P] {
	return &Collection[T, P]{Store: store, Key: key, Kind: kind, Now: time.Now}
}

// LoadAll never fails: a missing key is an empty collection, and an unreadable or
// corrupt one is logged and treated as empty.
func (c *Collection[T, P]) LoadAll(ctx context.Context) []T {
	raw, ok, err := c.Store.Get(ctx, c.Key)
	if err != nil {
		logger.Warn("Failed to read collection, using empty", "key", c.Key, "error", err)
		return []T{}
	}
	if !ok || len(raw) == 0 {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn("Corrupt collection data, using empty", "key", c.Key, "error", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

func (c *Collection[T, P]) SaveAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return errors.IO("encode", c.Key, err)
	}
	return c.Store.Set(ctx, c.Key, data)
}

func (c *Collection[T, P]) FindByID(ctx context.Context, id string) (T, error) {
	for _, item := range c.LoadAll(ctx) {
		if P(&item).Base().ID == id {
			return item, nil
		}
	}
	var zero T
	return zero, errors.NotFound(c.Kind, id)
}

// Upsert replaces the stored record with the same id, keeping its createdAt, or
// appends a new one with a fresh id and timestamps.
func (c *Collection[T, P]) Upsert(ctx context.Context, item T) (T, error) {
	items := c.LoadAll(ctx)
	now := c.Now()
	meta := P(&item).Base()

	found := false
	if meta.ID != "" {
		for i := range items {
			stored := P(&items[i]).Base()
			if stored.ID != meta.ID {
				continue
			}
			meta.CreatedAt = stored.CreatedAt
			meta.UpdatedAt = now
			items[i] = item
			found = true
			break
		}
	}

	if !found {
		if meta.ID == "" {
			meta.ID = models.NewID()
		}
		meta.CreatedAt = now
		meta.UpdatedAt = now
		items = append(items, item)
	}

	if err := c.SaveAll(ctx, items); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// Update applies fn to the stored record with the given id and saves it.
// If fn returns an error nothing is written.
func (c *Collection[T, P]) Update(ctx context.Context, id string, fn func(P) error) (T, error) {
	var zero T
	items := c.LoadAll(ctx)

	for i := range items {
		p := P(&items[i])
		if p.Base().ID != id {
			continue
		}
		if err := fn(p); err != nil {
			return zero, err
		}
		meta := p.Base()
		meta.ID = id
		meta.UpdatedAt = c.Now()
		if err := c.SaveAll(ctx, items); err != nil {
			return zero, err
		}
		return items[i], nil
	}
	return zero, errors.NotFound(c.Kind, id)
}

func (c *Collection[T, P]) DeleteByID(ctx context.Context, id string) error {
	items := c.LoadAll(ctx)
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if P(&item).Base().ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return errors.NotFound(c.Kind, id)
	}
	return c.SaveAll(ctx, kept)
}

// Filter returns the stored records matching keep, in stored order.
func (c *Collection[T, P]) Filter(ctx context.Context, keep func(*T) bool) []T {
	out := []T{}
	for _, item := range c.LoadAll(ctx) {
		if keep(&item) {
			out = append(out, item)
		}
	}
	return out
}
