package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/metaflow/internal/models"
)

// chrome is the number of lines taken by tabs, summary, status, help and margins
const chrome = 7

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for i := range m.lists {
			m.lists[i].SetSize(msg.Width-4, max(msg.Height-chrome, 3))
		}
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.lists[m.tab].Filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.tab = (m.tab + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.tab = (m.tab - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			m.setStatus("Refreshed", nil)
			return m, nil
		case key.Matches(msg, m.keys.Add):
			return m.startAdd()
		case key.Matches(msg, m.keys.Toggle):
			m.toggleSelected()
			return m, nil
		case key.Matches(msg, m.keys.Pin):
			m.pinSelected()
			return m, nil
		case key.Matches(msg, m.keys.Move):
			m.moveSelected()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
	return m, cmd
}

func (m *Model) setStatus(status string, err error) {
	m.status = status
	m.err = err
}

func (m Model) startAdd() (tea.Model, tea.Cmd) {
	switch m.tab {
	case TabHabits:
		m.habitForm = &HabitFormModel{Frequency: string(models.FrequencyDaily)}
		m.form = NewHabitForm(m.habitForm)
	case TabNotes:
		m.noteForm = &NoteFormModel{Color: string(models.ColorYellow)}
		m.form = NewNoteForm(m.noteForm)
	default:
		return m, nil
	}
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submitForm(); err != nil {
			// stay in the form so the input can be fixed
			m.setStatus("", err)
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.err = nil
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return m, cmd
}

func (m *Model) toggleSelected() {
	item, ok := m.lists[m.tab].Selected()
	if !ok {
		return
	}
	switch m.tab {
	case TabHabits:
		habit, err := m.svc.Habits.ToggleCompletion(m.ctx, item.ID)
		if err != nil {
			m.setStatus("", err)
			return
		}
		m.loadHabits()
		m.setStatus("Toggled "+habit.Name, nil)
	case TabGoals:
		goal, err := m.svc.Goals.ToggleCompletion(m.ctx, item.ID)
		if err != nil {
			m.setStatus("", err)
			return
		}
		m.loadGoals()
		if goal.Completed {
			m.setStatus("Completed "+goal.Title, nil)
		} else {
			m.setStatus("Reopened "+goal.Title, nil)
		}
	}
}

func (m *Model) pinSelected() {
	if m.tab != TabNotes {
		return
	}
	item, ok := m.lists[m.tab].Selected()
	if !ok {
		return
	}
	note, err := m.svc.Notes.TogglePin(m.ctx, item.ID)
	if err != nil {
		m.setStatus("", err)
		return
	}
	m.loadNotes()
	if note.IsPinned {
		m.setStatus("Pinned "+note.Title, nil)
	} else {
		m.setStatus("Unpinned "+note.Title, nil)
	}
}

// moveSelected advances the highlighted task to the column after its current one
func (m *Model) moveSelected() {
	if m.tab != TabBoard {
		return
	}
	item, ok := m.lists[m.tab].Selected()
	if !ok {
		return
	}
	task, err := m.svc.Tasks.Get(m.ctx, item.ID)
	if err != nil {
		m.setStatus("", err)
		return
	}

	columns := m.svc.Tasks.Columns(m.ctx)
	next := -1
	for i, c := range columns {
		if c.ID == task.ColumnID && i+1 < len(columns) {
			next = i + 1
		}
	}
	if next == -1 {
		m.setStatus(task.Title+" is already in the last column", nil)
		return
	}

	if _, err := m.svc.Tasks.MoveTask(m.ctx, task.ID, columns[next].ID); err != nil {
		m.setStatus("", err)
		return
	}
	m.loadBoard()
	m.setStatus("Moved "+task.Title+" to "+columns[next].Name, nil)
}
