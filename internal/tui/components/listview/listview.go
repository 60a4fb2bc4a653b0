// Package listview wraps bubbles/list with an empty-state message and no built-in help,
// so each dashboard tab renders the same way.
package listview

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Item is one row of a tab. ID refers back to the record it was built from.
type Item struct {
	ID   string
	Head string
	Desc string
}

func (i Item) Title() string       { return i.Head }
func (i Item) Description() string { return i.Desc }
func (i Item) FilterValue() string { return i.Head }

type Model struct {
	list  list.Model
	empty string
}

func New(title, empty string, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return Model{list: l, empty: empty}
}

// SetItems replaces the rows, keeping the cursor where it was when possible.
func (m *Model) SetItems(items []Item) tea.Cmd {
	idx := m.list.Index()
	rows := make([]list.Item, len(items))
	for i, it := range items {
		rows[i] = it
	}
	cmd := m.list.SetItems(rows)
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
	return cmd
}

// Selected returns the highlighted row, if any.
func (m Model) Selected() (Item, bool) {
	it, ok := m.list.SelectedItem().(Item)
	return it, ok
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m *Model) Select(i int) { m.list.Select(i) }

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  " + m.empty
	}
	return m.list.View()
}
