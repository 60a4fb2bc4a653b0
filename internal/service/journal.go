package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/metaflow/internal/collection"
	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/storage"
	"github.com/julianstephens/metaflow/internal/utils"
	"github.com/julianstephens/metaflow/internal/validation"
)

const (
	journalTextHeader = "=== METAFLOW JOURNAL ==="
	journalDayLayout  = "Monday, 02 January 2006"
	monthKeyLayout    = "2006-01"
)

type JournalService struct {
	entries *collection.Collection[models.JournalEntry, *models.JournalEntry]
	now     func() time.Time
}

func NewJournalService(store storage.Provider, opts ...Option) *JournalService {
	o := buildOptions(opts)
	return &JournalService{
		entries: newCollection[models.JournalEntry](store, constants.KeyJournal, "journal entry", o),
		now:     o.now,
	}
}

func sortEntries(entries []models.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date) })
}

// List returns entries newest date first.
func (s *JournalService) List(ctx context.Context) []models.JournalEntry {
	entries := s.entries.LoadAll(ctx)
	sortEntries(entries)
	return entries
}

func (s *JournalService) filter(ctx context.Context, keep func(*models.JournalEntry) bool) []models.JournalEntry {
	out := s.entries.Filter(ctx, keep)
	sortEntries(out)
	return out
}

func (s *JournalService) Get(ctx context.Context, id string) (models.JournalEntry, error) {
	return s.entries.FindByID(ctx, id)
}

// Save creates or replaces an entry. Blank gratitude items are dropped before the
// three-item limit is checked.
func (s *JournalService) Save(ctx context.Context, e models.JournalEntry) (models.JournalEntry, error) {
	if e.Date.IsZero() {
		e.Date = s.now()
	}
	if e.Mood == "" {
		e.Mood = models.MoodNeutral
	}
	e.Tags = validation.CleanList(e.Tags)
	e.Gratitude = validation.CleanList(e.Gratitude)
	if err := validation.ValidateEntry(e); err != nil {
		return models.JournalEntry{}, err
	}
	return s.entries.Upsert(ctx, e)
}

func (s *JournalService) Update(ctx context.Context, id string, patch models.EntryPatch) (models.JournalEntry, error) {
	return s.entries.Update(ctx, id, func(e *models.JournalEntry) error {
		patch.Apply(e)
		e.Tags = validation.CleanList(e.Tags)
		e.Gratitude = validation.CleanList(e.Gratitude)
		return validation.ValidateEntry(*e)
	})
}

func (s *JournalService) Delete(ctx context.Context, id string) error {
	return s.entries.DeleteByID(ctx, id)
}

// Search matches title, content, tags and gratitude items, ignoring case.
func (s *JournalService) Search(ctx context.Context, query string) []models.JournalEntry {
	entries := s.List(ctx)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}

	out := []models.JournalEntry{}
	for _, e := range entries {
		if utils.ContainsFold(q, e.Title, e.Content) ||
			utils.ContainsFold(q, e.Tags...) ||
			utils.ContainsFold(q, e.Gratitude...) {
			out = append(out, e)
		}
	}
	return out
}

func (s *JournalService) ByMood(ctx context.Context, mood models.Mood) []models.JournalEntry {
	return s.filter(ctx, func(e *models.JournalEntry) bool { return e.Mood == mood })
}

func (s *JournalService) ByTag(ctx context.Context, tag string) []models.JournalEntry {
	return s.filter(ctx, func(e *models.JournalEntry) bool { return slices.Contains(e.Tags, tag) })
}

func (s *JournalService) AllTags(ctx context.Context) []string {
	entries := s.entries.LoadAll(ctx)
	lists := make([][]string, 0, len(entries))
	for _, e := range entries {
		lists = append(lists, e.Tags)
	}
	return utils.SortedUnique(lists...)
}

// ByDate returns the newest entry recorded on day's calendar day.
func (s *JournalService) ByDate(ctx context.Context, day time.Time) (models.JournalEntry, bool) {
	loc := s.now().Location()
	for _, e := range s.List(ctx) {
		if utils.SameDay(e.Date, day, loc) {
			return e, true
		}
	}
	return models.JournalEntry{}, false
}

// ByDateRange returns entries with start <= date <= end.
func (s *JournalService) ByDateRange(ctx context.Context, start, end time.Time) []models.JournalEntry {
	return s.filter(ctx, func(e *models.JournalEntry) bool {
		return !e.Date.Before(start) && !e.Date.After(end)
	})
}

func (s *JournalService) Today(ctx context.Context) (models.JournalEntry, bool) {
	return s.ByDate(ctx, s.now())
}

func (s *JournalService) HasToday(ctx context.Context) bool {
	_, ok := s.Today(ctx)
	return ok
}

func (s *JournalService) Recent(ctx context.Context, limit int) []models.JournalEntry {
	entries := s.List(ctx)
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func (s *JournalService) Stats(ctx context.Context) models.JournalStats {
	entries := s.List(ctx)
	now := s.now()
	loc := now.Location()

	stats := models.JournalStats{
		TotalEntries:   len(entries),
		MoodCounts:     make(map[models.Mood]int, len(models.Moods)),
		MonthlyEntries: map[string]int{},
	}
	for _, m := range models.Moods {
		stats.MoodCounts[m] = 0
	}

	days := map[string]bool{}
	tagCounts := map[string]int{}
	monthsAgo := now.AddDate(0, -constants.JournalMonthlyLookback, 0)
	for _, e := range entries {
		if _, ok := stats.MoodCounts[e.Mood]; ok {
			stats.MoodCounts[e.Mood]++
		}
		if within(e.Date, now, constants.RecentWindowDays) {
			stats.RecentEntries++
		}
		days[utils.DayKey(e.Date, loc)] = true
		stats.TotalWords += len(strings.Fields(e.Content))
		for _, tag := range e.Tags {
			tagCounts[tag]++
		}
		if !e.Date.Before(monthsAgo) {
			stats.MonthlyEntries[e.Date.In(loc).Format(monthKeyLayout)]++
		}
	}

	// Ties go to the mood listed first
	for _, m := range models.Moods {
		n := stats.MoodCounts[m]
		if n > 0 && (stats.MostCommonMood == nil || n > stats.MostCommonMood.Count) {
			stats.MostCommonMood = &models.MoodCount{Mood: m, Count: n}
		}
	}

	for stats.CurrentStreak < constants.JournalStreakCapDays {
		if !days[utils.DayKey(utils.AddDays(now, -stats.CurrentStreak), loc)] {
			break
		}
		stats.CurrentStreak++
	}

	if stats.TotalEntries > 0 {
		stats.AverageWordsPerEntry = (stats.TotalWords + stats.TotalEntries/2) / stats.TotalEntries
	}
	stats.TopTags = topTags(tagCounts, constants.TopTagsLimit)
	stats.TotalTags = len(tagCounts)
	return stats
}

// Calendar maps each day of the month that has an entry to a summary of the newest one.
func (s *JournalService) Calendar(ctx context.Context, year int, month time.Month) map[int]models.CalendarDay {
	loc := s.now().Location()
	out := map[int]models.CalendarDay{}
	for _, e := range s.List(ctx) {
		y, m, d := e.Date.In(loc).Date()
		if y != year || m != month {
			continue
		}
		if _, seen := out[d]; seen {
			continue
		}
		out[d] = models.CalendarDay{ID: e.ID, Mood: e.Mood, Title: e.Title}
	}
	return out
}

func (s *JournalService) ExportText(ctx context.Context) string {
	loc := s.now().Location()
	var b strings.Builder
	b.WriteString(journalTextHeader + "\n\n")
	for i, e := range s.List(ctx) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e.Date.In(loc).Format(journalDayLayout))
		if e.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", e.Title)
		}
		fmt.Fprintf(&b, "Mood: %s\n", e.Mood)
		if e.Weather != "" {
			fmt.Fprintf(&b, "Weather: %s\n", e.Weather)
		}
		if len(e.Tags) > 0 {
			fmt.Fprintf(&b, "Tags: %s\n", strings.Join(e.Tags, ", "))
		}
		if len(e.Gratitude) > 0 {
			fmt.Fprintf(&b, "Gratitude: %s\n", strings.Join(e.Gratitude, ", "))
		}
		fmt.Fprintf(&b, "\n%s\n\n%s\n\n", e.Content, textSeparator)
	}
	return b.String()
}
