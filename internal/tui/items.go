package tui

import (
	"fmt"
	"strings"

	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/service"
	"github.com/julianstephens/metaflow/internal/tui/components/listview"
)

func mark(done bool) string {
	if done {
		return "✓ "
	}
	return "○ "
}

func tags(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return " · #" + strings.Join(list, " #")
}

func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// refresh reloads every tab from the services
func (m *Model) refresh() {
	m.loadHabits()
	m.loadGoals()
	m.loadBoard()
	m.loadNotes()
	m.loadJournal()
}

func (m *Model) loadHabits() {
	today := m.svc.Habits.Today(m.ctx)
	items := make([]listview.Item, 0, len(today))
	done := 0
	for _, h := range today {
		if h.CompletedToday {
			done++
		}
		stats := service.ComputeHabitStats(h.Habit, m.now())
		items = append(items, listview.Item{
			ID:   h.ID,
			Head: mark(h.CompletedToday) + h.Name,
			Desc: fmt.Sprintf("%s · streak %d · best %d · 30d %.0f%%", h.Frequency, stats.CurrentStreak, stats.LongestStreak, stats.CompletionRate*100),
		})
	}
	m.lists[TabHabits].SetItems(items)
	m.summary[TabHabits] = fmt.Sprintf("%d/%d done today", done, len(today))
}

func (m *Model) loadGoals() {
	goals := m.svc.Goals.List(m.ctx)
	items := make([]listview.Item, 0, len(goals))
	for _, g := range goals {
		desc := fmt.Sprintf("%s · %g/%g %s · %.0f%%", g.Type, g.CurrentValue, g.TargetValue, g.Unit, g.Progress()*100)
		if g.Deadline != nil {
			desc += " · due " + g.Deadline.Local().Format(constants.DateFormat)
		}
		items = append(items, listview.Item{ID: g.ID, Head: mark(g.Completed) + g.Title, Desc: desc})
	}
	m.lists[TabGoals].SetItems(items)
	overall := m.svc.Goals.OverallProgress(m.ctx)
	m.summary[TabGoals] = fmt.Sprintf("overall %.0f%% · %d/%d complete", overall.Progress*100, overall.Completed, overall.Total)
}

func (m *Model) loadBoard() {
	board := m.svc.Tasks.KanbanData(m.ctx)
	var items []listview.Item
	counts := make([]string, 0, len(board))
	for _, col := range board {
		counts = append(counts, fmt.Sprintf("%s %d", col.Name, len(col.Tasks)))
		for _, t := range col.Tasks {
			desc := fmt.Sprintf("%s · %s", col.Name, t.Priority)
			if t.DueDate != nil {
				desc += " · due " + t.DueDate.Local().Format(constants.DateFormat)
			}
			items = append(items, listview.Item{ID: t.ID, Head: t.Title, Desc: desc})
		}
	}
	m.lists[TabBoard].SetItems(items)
	m.summary[TabBoard] = strings.Join(counts, " · ")
}

func (m *Model) loadNotes() {
	notes := m.svc.Notes.List(m.ctx)
	items := make([]listview.Item, 0, len(notes))
	pinned := 0
	for _, n := range notes {
		head := n.Title
		if n.IsPinned {
			pinned++
			head = "📌 " + head
		}
		items = append(items, listview.Item{ID: n.ID, Head: head, Desc: string(n.Color) + tags(n.Tags) + " · " + snippet(n.Content, 40)})
	}
	m.lists[TabNotes].SetItems(items)
	m.summary[TabNotes] = fmt.Sprintf("%d notes · %d pinned", len(notes), pinned)
}

func (m *Model) loadJournal() {
	entries := m.svc.Journal.List(m.ctx)
	items := make([]listview.Item, 0, len(entries))
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = snippet(e.Content, 30)
		}
		desc := string(e.Mood)
		if e.Weather != models.WeatherNone {
			desc += " · " + string(e.Weather)
		}
		items = append(items, listview.Item{
			ID:   e.ID,
			Head: e.Date.Local().Format(constants.DateFormat) + " · " + title,
			Desc: desc + tags(e.Tags),
		})
	}
	m.lists[TabJournal].SetItems(items)
	stats := m.svc.Journal.Stats(m.ctx)
	today := "no entry today"
	if m.svc.Journal.HasToday(m.ctx) {
		today = "written today"
	}
	m.summary[TabJournal] = fmt.Sprintf("%d entries · streak %d · %s", stats.TotalEntries, stats.CurrentStreak, today)
}
