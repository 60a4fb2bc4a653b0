package service

import (
	"context"
	"testing"
	"time"

	"github.com/julianstephens/metaflow/internal/storage"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func setupServices(t *testing.T) (*Services, *storage.MemoryStore, *testClock, func()) {
	t.Helper()
	store := storage.NewMemoryStore()
	clock := &testClock{t: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)}
	svc := New(store, WithClock(clock.Now))

	cleanup := func() {
		store.Close()
	}
	return svc, store, clock, cleanup
}

func ctxT() context.Context { return context.Background() }
