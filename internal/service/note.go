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

// Plain-text export markers, shared by ExportText and ImportText
const (
	noteTextHeader  = "=== METAFLOW NOTES ==="
	noteTitlePrefix = "Title:"
	noteTagsPrefix  = "Tags:"
	noteDatePrefix  = "Created:"
	textSeparator   = "=================================================="
	textTimeLayout  = "2006-01-02 15:04"
)

type NoteService struct {
	notes *collection.Collection[models.Note, *models.Note]
	now   func() time.Time
}

func NewNoteService(store storage.Provider, opts ...Option) *NoteService {
	o := buildOptions(opts)
	return &NoteService{
		notes: newCollection[models.Note](store, constants.KeyNotes, "note", o),
		now:   o.now,
	}
}

func sortNotes(notes []models.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].IsPinned != notes[j].IsPinned {
			return notes[i].IsPinned
		}
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
}

// List returns pinned notes first, then the most recently updated.
func (s *NoteService) List(ctx context.Context) []models.Note {
	notes := s.notes.LoadAll(ctx)
	sortNotes(notes)
	return notes
}

func (s *NoteService) Get(ctx context.Context, id string) (models.Note, error) {
	return s.notes.FindByID(ctx, id)
}

func (s *NoteService) Save(ctx context.Context, n models.Note) (models.Note, error) {
	if n.Color == "" {
		n.Color = models.ColorYellow
	}
	n.Tags = validation.CleanList(n.Tags)
	if err := validation.ValidateNote(n); err != nil {
		return models.Note{}, err
	}
	return s.notes.Upsert(ctx, n)
}

func (s *NoteService) Update(ctx context.Context, id string, patch models.NotePatch) (models.Note, error) {
	return s.notes.Update(ctx, id, func(n *models.Note) error {
		patch.Apply(n)
		n.Tags = validation.CleanList(n.Tags)
		return validation.ValidateNote(*n)
	})
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	return s.notes.DeleteByID(ctx, id)
}

func (s *NoteService) TogglePin(ctx context.Context, id string) (models.Note, error) {
	return s.notes.Update(ctx, id, func(n *models.Note) error {
		n.IsPinned = !n.IsPinned
		return nil
	})
}

// Search matches notes whose title, content or any tag contains query, ignoring case.
// A blank query returns every note.
func (s *NoteService) Search(ctx context.Context, query string) []models.Note {
	notes := s.List(ctx)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return notes
	}

	out := []models.Note{}
	for _, n := range notes {
		if utils.ContainsFold(q, n.Title, n.Content) || utils.ContainsFold(q, n.Tags...) {
			out = append(out, n)
		}
	}
	return out
}

func (s *NoteService) ByColor(ctx context.Context, color models.NoteColor) []models.Note {
	out := s.notes.Filter(ctx, func(n *models.Note) bool { return n.Color == color })
	sortNotes(out)
	return out
}

func (s *NoteService) ByTag(ctx context.Context, tag string) []models.Note {
	out := s.notes.Filter(ctx, func(n *models.Note) bool { return slices.Contains(n.Tags, tag) })
	sortNotes(out)
	return out
}

func (s *NoteService) AllTags(ctx context.Context) []string {
	notes := s.notes.LoadAll(ctx)
	lists := make([][]string, 0, len(notes))
	for _, n := range notes {
		lists = append(lists, n.Tags)
	}
	return utils.SortedUnique(lists...)
}

func (s *NoteService) Recent(ctx context.Context, limit int) []models.Note {
	notes := s.List(ctx)
	if limit >= 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes
}

func (s *NoteService) Stats(ctx context.Context) models.NoteStats {
	notes := s.notes.LoadAll(ctx)
	now := s.now()

	stats := models.NoteStats{
		TotalNotes:   len(notes),
		NotesByColor: make(map[models.NoteColor]int, len(models.NoteColors)),
	}
	for _, c := range models.NoteColors {
		stats.NotesByColor[c] = 0
	}

	tagCounts := map[string]int{}
	for _, n := range notes {
		if n.IsPinned {
			stats.PinnedNotes++
		}
		if _, ok := stats.NotesByColor[n.Color]; ok {
			stats.NotesByColor[n.Color]++
		}
		for _, tag := range n.Tags {
			tagCounts[tag]++
		}
		if within(n.CreatedAt, now, constants.RecentWindowDays) {
			stats.RecentNotes++
		}
	}

	stats.TopTags = topTags(tagCounts, constants.TopTagsLimit)
	stats.TotalTags = len(tagCounts)
	return stats
}

// ExportText renders every note in the plain-text format ImportText reads back.
func (s *NoteService) ExportText(ctx context.Context) string {
	var b strings.Builder
	b.WriteString(noteTextHeader + "\n\n")
	for _, n := range s.List(ctx) {
		fmt.Fprintf(&b, "%s %s\n", noteTitlePrefix, n.Title)
		fmt.Fprintf(&b, "%s %s\n", noteDatePrefix, n.CreatedAt.In(s.now().Location()).Format(textTimeLayout))
		if len(n.Tags) > 0 {
			fmt.Fprintf(&b, "%s %s\n", noteTagsPrefix, strings.Join(n.Tags, ", "))
		}
		fmt.Fprintf(&b, "\n%s\n\n%s\n\n", n.Content, textSeparator)
	}
	return b.String()
}

// ImportText creates one yellow note per "Title:" line. Following non-blank lines become
// its content, a "Tags:" line sets its tags and "Created:" lines are ignored.
// It returns the number of notes created.
func (s *NoteService) ImportText(ctx context.Context, text string) (int, error) {
	var parsed []models.Note
	var content []string
	flush := func() {
		if len(parsed) > 0 {
			parsed[len(parsed)-1].Content = strings.Join(content, "\n")
		}
		content = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || trimmed == noteTextHeader || trimmed == textSeparator:
			continue
		case strings.HasPrefix(line, noteTitlePrefix):
			flush()
			parsed = append(parsed, models.Note{
				Title: strings.TrimSpace(strings.TrimPrefix(line, noteTitlePrefix)),
				Color: models.ColorYellow,
				Tags:  []string{},
			})
		case len(parsed) == 0:
			continue
		case strings.HasPrefix(line, noteTagsPrefix):
			parsed[len(parsed)-1].Tags = utils.SplitList(strings.TrimPrefix(line, noteTagsPrefix))
		case strings.HasPrefix(line, noteDatePrefix):
			continue
		default:
			content = append(content, line)
		}
	}
	flush()

	for i, n := range parsed {
		if _, err := s.Save(ctx, n); err != nil {
			return i, err
		}
	}
	return len(parsed), nil
}
