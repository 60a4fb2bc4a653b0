package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/service"
	"github.com/julianstephens/metaflow/internal/storage"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local)

func clock() time.Time { return fixedNow }

func setupModel(t *testing.T) (Model, *service.Services) {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Open(context.Background()))
	svc := service.New(store, service.WithClock(clock))
	return NewModel(context.Background(), svc, clock), svc
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func TestTabCycling(t *testing.T) {
	m, _ := setupModel(t)
	m = sized(t, m)
	assert.Equal(t, TabHabits, m.tab)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabGoals, m.tab)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabJournal, m.tab)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabHabits, m.tab)
}

func TestToggleHabit(t *testing.T) {
	m, svc := setupModel(t)
	h, err := svc.Habits.Save(context.Background(), models.Habit{Name: "Read"})
	require.NoError(t, err)
	m.refresh()
	m = sized(t, m)
	assert.Equal(t, "0/1 done today", m.summary[TabHabits])

	m = press(t, m, runes("t"))
	require.NoError(t, m.err)

	got, err := svc.Habits.Get(context.Background(), h.ID)
	require.NoError(t, err)
	assert.Len(t, got.CompletedDates, 1)
	assert.Equal(t, "1/1 done today", m.summary[TabHabits])
	assert.Equal(t, "Toggled Read", m.status)
}

func TestToggleGoal(t *testing.T) {
	m, svc := setupModel(t)
	g, err := svc.Goals.Save(context.Background(), models.Goal{Title: "Ship", Type: models.GoalAnnual, TargetValue: 1})
	require.NoError(t, err)
	m.refresh()
	m = sized(t, m)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, runes("t"))
	require.NoError(t, m.err)

	got, err := svc.Goals.Get(context.Background(), g.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, "Completed Ship", m.status)
}

func TestMoveTaskAlongBoard(t *testing.T) {
	m, svc := setupModel(t)
	task, err := svc.Tasks.SaveTask(context.Background(), models.Task{Title: "Write docs"})
	require.NoError(t, err)
	m.refresh()
	m = sized(t, m)

	m.tab = TabBoard
	m = press(t, m, runes("m"))
	require.NoError(t, m.err)
	got, err := svc.Tasks.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ColumnInProgress, got.ColumnID)
	assert.Equal(t, "Moved Write docs to In Progress", m.status)

	m = press(t, m, runes("m"))
	got, err = svc.Tasks.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ColumnDone, got.ColumnID)

	m = press(t, m, runes("m"))
	got, err = svc.Tasks.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ColumnDone, got.ColumnID)
	assert.Equal(t, "Write docs is already in the last column", m.status)
}

func TestPinNote(t *testing.T) {
	m, svc := setupModel(t)
	n, err := svc.Notes.Save(context.Background(), models.Note{Title: "Ideas"})
	require.NoError(t, err)
	m.refresh()
	m = sized(t, m)

	// pin does nothing outside the notes tab
	m = press(t, m, runes("p"))
	got, err := svc.Notes.Get(context.Background(), n.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPinned)

	m.tab = TabNotes
	m = press(t, m, runes("p"))
	got, err = svc.Notes.Get(context.Background(), n.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPinned)
	assert.Equal(t, "Pinned Ideas", m.status)
	assert.Equal(t, "1 notes · 1 pinned", m.summary[TabNotes])
}

func TestAddFormsOnlyOnSupportedTabs(t *testing.T) {
	m, _ := setupModel(t)
	m = sized(t, m)

	m.tab = TabGoals
	m = press(t, m, runes("a"))
	assert.Nil(t, m.form)

	m.tab = TabHabits
	m = press(t, m, runes("a"))
	require.NotNil(t, m.form)
	require.NotNil(t, m.habitForm)
	assert.Equal(t, string(models.FrequencyDaily), m.habitForm.Frequency)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.form)
	assert.Nil(t, m.habitForm)
}

func TestSubmitForms(t *testing.T) {
	m, svc := setupModel(t)

	m.habitForm = &HabitFormModel{Name: " Meditate ", Frequency: string(models.FrequencyWeekly)}
	require.NoError(t, m.submitForm())
	habits := svc.Habits.List(context.Background())
	require.Len(t, habits, 1)
	assert.Equal(t, "Meditate", habits[0].Name)
	assert.Equal(t, models.FrequencyWeekly, habits[0].Frequency)
	assert.Equal(t, 1, m.lists[TabHabits].Len())
	m.closeForm()

	m.noteForm = &NoteFormModel{Title: "Groceries", Content: "milk", Color: string(models.ColorGreen), Tags: "home, errands"}
	require.NoError(t, m.submitForm())
	notes := svc.Notes.List(context.Background())
	require.Len(t, notes, 1)
	assert.Equal(t, []string{"home", "errands"}, notes[0].Tags)
	assert.Equal(t, models.ColorGreen, notes[0].Color)
	m.closeForm()

	m.habitForm = &HabitFormModel{Name: "  "}
	assert.Error(t, m.submitForm())
}

func TestViewAndQuit(t *testing.T) {
	m, _ := setupModel(t)
	m = sized(t, m)

	view := m.View()
	for _, title := range tabTitles {
		assert.Contains(t, view, title)
	}
	assert.Contains(t, view, "No habits yet")

	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, "", next.(Model).View())
}
