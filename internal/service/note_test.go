package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/metaflow/internal/errors"
	"github.com/julianstephens/metaflow/internal/models"
)

func TestNoteSearchScenario(t *testing.T) {
	svc, _, _, cleanup := setupServices(t)
	defer cleanup()

	fixtures := []models.Note{
		{Title: "Reunião de Trabalho", Content: "pauta"},
		{Title: "Compras", Content: "leite, pão", Tags: []string{"casa"}},
		{Title: "Ideias", Content: "projeto do TRABALHO final"},
		{Title: "Viagem", Content: "malas", Tags: []string{"férias", "trabalhos-manuais"}},
		{Title: "Receitas", Content: "bolo"},
	}
	for _, n := range fixtures {
		_, err := svc.Notes.Save(ctxT(), n)
		require.NoError(t, err)
	}

	found := svc.Notes.Search(ctxT(), "trabalho")
	titles := make([]string, 0, len(found))
	for _, n := range found {
		titles = append(titles, n.Title)
	}
	assert.ElementsMatch(t, []string{"Reunião de Trabalho", "Ideias", "Viagem"}, titles)

	assert.Len(t, svc.Notes.Search(ctxT(), "   "), len(fixtures))
	assert.Empty(t, svc.Notes.Search(ctxT(), "inexistente"))
}

func TestNoteListOrderAndPin(t *testing.T) {
	svc, _, clock, cleanup := setupServices(t)
	defer cleanup()

	first, _ := svc.Notes.Save(ctxT(), models.Note{Title: "first"})
	clock.Advance(time.Minute)
	_, _ = svc.Notes.Save(ctxT(), models.Note{Title: "second"})
	clock.Advance(time.Minute)
	_, _ = svc.Notes.Save(ctxT(), models.Note{Title: "third"})

	list := svc.Notes.List(ctxT())
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "first", list[2].Title)

	pinned, err := svc.Notes.TogglePin(ctxT(), first.ID)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)
	assert.Equal(t, "first", svc.Notes.List(ctxT())[0].Title)

	recent := svc.Notes.Recent(ctxT(), 2)
	require.Len(t, recent, 2)
	assert.Equal(t, "first", recent[0].Title)

	_, err = svc.Notes.TogglePin(ctxT(), "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestNoteSaveValidation(t *testing.T) {
	svc, _, _, cleanup := setupServices(t)
	defer cleanup()

	n, err := svc.Notes.Save(ctxT(), models.Note{Content: "only content", Tags: []string{" a ", ""}})
	require.NoError(t, err)
	assert.Equal(t, models.ColorYellow, n.Color)
	assert.Equal(t, []string{"a"}, n.Tags)

	_, err = svc.Notes.Save(ctxT(), models.Note{})
	assert.True(t, errors.Is(err, errors.ErrInvalid))

	_, err = svc.Notes.Save(ctxT(), models.Note{Title: "x", Color: "teal"})
	assert.True(t, errors.Is(err, errors.ErrInvalid))
}

func TestNoteTagsAndStats(t *testing.T) {
	svc, _, clock, cleanup := setupServices(t)
	defer cleanup()

	old := models.Note{Title: "old", Color: models.ColorBlue, Tags: []string{"work"}}
	_, err := svc.Notes.Save(ctxT(), old)
	require.NoError(t, err)
	clock.Advance(10 * 24 * time.Hour)

	for _, n := range []models.Note{
		{Title: "a", Tags: []string{"work", "ideas"}, IsPinned: true},
		{Title: "b", Color: models.ColorBlue, Tags: []string{"ideas", "home"}},
		{Title: "c", Tags: []string{"work"}},
	} {
		_, err := svc.Notes.Save(ctxT(), n)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"home", "ideas", "work"}, svc.Notes.AllTags(ctxT()))
	assert.Len(t, svc.Notes.ByTag(ctxT(), "ideas"), 2)
	assert.Len(t, svc.Notes.ByColor(ctxT(), models.ColorBlue), 2)

	stats := svc.Notes.Stats(ctxT())
	assert.Equal(t, 4, stats.TotalNotes)
	assert.Equal(t, 1, stats.PinnedNotes)
	assert.Equal(t, 2, stats.NotesByColor[models.ColorBlue])
	assert.Equal(t, 2, stats.NotesByColor[models.ColorYellow])
	assert.Equal(t, 0, stats.NotesByColor[models.ColorGray])
	assert.Equal(t, 3, stats.RecentNotes)
	assert.Equal(t, 3, stats.TotalTags)
	assert.Equal(t, []models.TagCount{
		{Tag: "work", Count: 3},
		{Tag: "ideas", Count: 2},
		{Tag: "home", Count: 1},
	}, stats.TopTags)
}

func TestNoteTextRoundTrip(t *testing.T) {
	svc, _, _, cleanup := setupServices(t)
	defer cleanup()

	_, err := svc.Notes.Save(ctxT(), models.Note{Title: "Plans", Content: "line one\nline two", Tags: []string{"a", "b"}})
	require.NoError(t, err)

	text := svc.Notes.ExportText(ctxT())
	assert.True(t, strings.HasPrefix(text, noteTextHeader))
	assert.Contains(t, text, "Title: Plans")
	assert.Contains(t, text, "Tags: a, b")

	other, _, _, cleanup2 := setupServices(t)
	defer cleanup2()

	count, err := other.Notes.ImportText(ctxT(), text)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	imported := other.Notes.List(ctxT())
	require.Len(t, imported, 1)
	assert.Equal(t, "Plans", imported[0].Title)
	assert.Equal(t, "line one\nline two", imported[0].Content)
	assert.Equal(t, []string{"a", "b"}, imported[0].Tags)
	assert.Equal(t, models.ColorYellow, imported[0].Color)
}

func TestNoteImportText(t *testing.T) {
	svc, _, _, cleanup := setupServices(t)
	defer cleanup()

	text := "stray line before any title\nTitle: One\nfirst body\n\nTitle: Two\nTags: x, y\nCreated: whenever\nsecond body\n"
	count, err := svc.Notes.ImportText(ctxT(), text)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	byTitle := map[string]models.Note{}
	for _, n := range svc.Notes.List(ctxT()) {
		byTitle[n.Title] = n
	}
	assert.Equal(t, "first body", byTitle["One"].Content)
	assert.Equal(t, "second body", byTitle["Two"].Content)
	assert.Equal(t, []string{"x", "y"}, byTitle["Two"].Tags)
}
