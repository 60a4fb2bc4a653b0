// Package tui is the interactive dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/metaflow/internal/service"
	"github.com/julianstephens/metaflow/internal/tui/components/listview"
)

type Tab int

const (
	TabHabits Tab = iota
	TabGoals
	TabBoard
	TabNotes
	TabJournal
	tabCount
)

var tabTitles = [tabCount]string{"Habits", "Goals", "Board", "Notes", "Journal"}

type HabitFormModel struct {
	Name        string
	Description string
	Frequency   string
}

type NoteFormModel struct {
	Title   string
	Content string
	Color   string
	Tags    string
}

type Model struct {
	ctx       context.Context
	svc       *service.Services
	now       func() time.Time
	tab       Tab
	keys      KeyMap
	help      help.Model
	lists     [tabCount]listview.Model
	summary   [tabCount]string
	form      *huh.Form
	habitForm *HabitFormModel
	noteForm  *NoteFormModel
	status    string
	err       error
	quitting  bool
	width     int
	height    int
}

func NewModel(ctx context.Context, svc *service.Services, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{
		ctx:  ctx,
		svc:  svc,
		now:  now,
		tab:  TabHabits,
		keys: DefaultKeyMap(),
		help: help.New(),
		lists: [tabCount]listview.Model{
			listview.New("Habits", "No habits yet. Press 'a' to add one.", 0, 0),
			listview.New("Goals", "No goals yet. Add one with: metaflow goal add", 0, 0),
			listview.New("Board", "The board is empty. Add a task with: metaflow task add", 0, 0),
			listview.New("Notes", "No notes yet. Press 'a' to add one.", 0, 0),
			listview.New("Journal", "No entries yet. Write one with: metaflow journal add", 0, 0),
		},
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Run starts the dashboard on the alternate screen and blocks until it exits.
func Run(ctx context.Context, svc *service.Services) error {
	_, err := tea.NewProgram(NewModel(ctx, svc, nil), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
