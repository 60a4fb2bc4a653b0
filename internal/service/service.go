// Package service implements the domain operations over the typed collections.
package service

import (
	"sort"
	"time"

	"github.com/julianstephens/metaflow/internal/collection"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/storage"
)

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithClock replaces time.Now. Calendar-day logic uses the location of the returned times.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newCollection[T any, P interface {
	*T
	models.Record
}](store storage.Provider, key, kind string, o options) *collection.Collection[T, P] {
	c := collection.New[T, P](store, key, kind)
	c.Now = o.now
	return c
}

// Services bundles one instance of every domain service over a single store.
// It is built once at startup and passed to the CLI and TUI.
type Services struct {
	Store       storage.Provider
	Habits      *HabitService
	Goals       *GoalService
	Tasks       *TaskService
	Notes       *NoteService
	Journal     *JournalService
	Preferences *PreferencesService
}

func New(store storage.Provider, opts ...Option) *Services {
	return &Services{
		Store:       store,
		Habits:      NewHabitService(store, opts...),
		Goals:       NewGoalService(store, opts...),
		Tasks:       NewTaskService(store, opts...),
		Notes:       NewNoteService(store, opts...),
		Journal:     NewJournalService(store, opts...),
		Preferences: NewPreferencesService(store),
	}
}

// topTags ranks tag frequencies, breaking ties by tag name, and keeps the first limit
func topTags(counts map[string]int, limit int) []models.TagCount {
	out := make([]models.TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, models.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func within(t, now time.Time, days int) bool {
	return !t.Before(now.Add(-time.Duration(days) * 24 * time.Hour))
}
