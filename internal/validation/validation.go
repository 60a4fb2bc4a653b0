package validation

import (
	"strings"

	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/errors"
	"github.com/julianstephens/metaflow/internal/models"
)

// ValidateHabit checks the fields a habit must carry before it is written
func ValidateHabit(h models.Habit) error {
	if strings.TrimSpace(h.Name) == "" {
		return errors.Invalid("habit name is required")
	}
	if !h.Frequency.Valid() {
		return errors.Invalid("unknown habit frequency %q", h.Frequency)
	}
	return nil
}

func ValidateGoal(g models.Goal) error {
	if strings.TrimSpace(g.Title) == "" {
		return errors.Invalid("goal title is required")
	}
	if !g.Type.Valid() {
		return errors.Invalid("unknown goal type %q", g.Type)
	}
	if g.TargetValue <= 0 {
		return errors.Invalid("goal target must be greater than zero, got %v", g.TargetValue)
	}
	if g.CurrentValue < 0 {
		return errors.Invalid("goal progress cannot be negative, got %v", g.CurrentValue)
	}
	return nil
}

func ValidateColumn(c models.Column) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.Invalid("column name is required")
	}
	if !c.Status.Valid() {
		return errors.Invalid("unknown column status %q", c.Status)
	}
	return nil
}

func ValidateTask(t models.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.Invalid("task title is required")
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return errors.Invalid("unknown task priority %q", t.Priority)
	}
	if strings.TrimSpace(t.ColumnID) == "" {
		return errors.Invalid("task column is required")
	}
	return nil
}

func ValidateNote(n models.Note) error {
	if strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Content) == "" {
		return errors.Invalid("note needs a title or content")
	}
	if !n.Color.Valid() {
		return errors.Invalid("unknown note color %q", n.Color)
	}
	return nil
}

func ValidateEntry(e models.JournalEntry) error {
	if strings.TrimSpace(e.Content) == "" {
		return errors.Invalid("journal entry content is required")
	}
	if e.Date.IsZero() {
		return errors.Invalid("journal entry date is required")
	}
	if !e.Mood.Valid() {
		return errors.Invalid("unknown mood %q", e.Mood)
	}
	if !e.Weather.Valid() {
		return errors.Invalid("unknown weather %q", e.Weather)
	}
	if len(e.Gratitude) > constants.MaxGratitudeItems {
		return errors.Invalid("at most %d gratitude items are allowed, got %d", constants.MaxGratitudeItems, len(e.Gratitude))
	}
	return nil
}

func ValidatePreferences(p models.Preferences) error {
	if !p.Backup.Frequency.Valid() {
		return errors.Invalid("unknown backup frequency %q", p.Backup.Frequency)
	}
	return nil
}

// CleanList trims every item and drops the blank ones
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
