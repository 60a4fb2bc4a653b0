package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/utils"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(required("name")),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", string(models.FrequencyDaily)),
					huh.NewOption("Weekly", string(models.FrequencyWeekly)),
					huh.NewOption("Custom", string(models.FrequencyCustom)),
				).
				Value(&fm.Frequency),
		),
	).WithShowHelp(true)
}

func NewNoteForm(fm *NoteFormModel) *huh.Form {
	colors := make([]huh.Option[string], 0, len(models.NoteColors))
	for _, c := range models.NoteColors {
		colors = append(colors, huh.NewOption(string(c), string(c)))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(required("title")),
			huh.NewText().
				Title("Content").
				Value(&fm.Content),
			huh.NewSelect[string]().
				Title("Color").
				Options(colors...).
				Value(&fm.Color),
			huh.NewInput().
				Title("Tags").
				Description("Comma-separated").
				Value(&fm.Tags),
		),
	).WithShowHelp(true)
}

// submitForm saves whatever the open form describes
func (m *Model) submitForm() error {
	switch {
	case m.habitForm != nil:
		habit, err := m.svc.Habits.Save(m.ctx, models.Habit{
			Name:        strings.TrimSpace(m.habitForm.Name),
			Description: strings.TrimSpace(m.habitForm.Description),
			Frequency:   models.Frequency(m.habitForm.Frequency),
		})
		if err != nil {
			return err
		}
		m.loadHabits()
		m.status = "Added habit " + habit.Name
	case m.noteForm != nil:
		note, err := m.svc.Notes.Save(m.ctx, models.Note{
			Title:   strings.TrimSpace(m.noteForm.Title),
			Content: m.noteForm.Content,
			Color:   models.NoteColor(m.noteForm.Color),
			Tags:    utils.SplitList(m.noteForm.Tags),
		})
		if err != nil {
			return err
		}
		m.loadNotes()
		m.status = "Added note " + note.Title
	}
	return nil
}

func (m *Model) closeForm() {
	m.form = nil
	m.habitForm = nil
	m.noteForm = nil
}
