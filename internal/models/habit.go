package models

import "time"

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

type Habit struct {
	Meta
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Frequency      Frequency   `json:"frequency"`
	CompletedDates []time.Time `json:"completedDates"`
	// Completions is a legacy field kept only so that old data round-trips and the
	// maintenance cleanup can prune it. Nothing else reads or writes it.
	Completions []Completion `json:"completions,omitempty"`
}

type Completion struct {
	Date time.Time `json:"date"`
}

// HabitPatch holds the fields of a habit that may be edited in place. Nil fields are left alone.
type HabitPatch struct {
	Name        *string
	Description *string
	Frequency   *Frequency
}

func (p HabitPatch) Apply(h *Habit) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
}

// HabitStats is derived from a habit's completion markers.
type HabitStats struct {
	TotalCompletions int     `json:"totalCompletions"`
	CurrentStreak    int     `json:"currentStreak"`
	LongestStreak    int     `json:"longestStreak"`
	CompletionRate   float64 `json:"completionRate"`
}

// TodayHabit pairs a habit with whether it has a marker for the current day.
type TodayHabit struct {
	Habit
	CompletedToday bool `json:"completedToday"`
}
