package service

import (
	"context"
	"sort"
	"time"

	"github.com/julianstephens/metaflow/internal/collection"
	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/storage"
	"github.com/julianstephens/metaflow/internal/utils"
	"github.com/julianstephens/metaflow/internal/validation"
)

type HabitService struct {
	habits *collection.Collection[models.Habit, *models.Habit]
	now    func() time.Time
}

func NewHabitService(store storage.Provider, opts ...Option) *HabitService {
	o := buildOptions(opts)
	return &HabitService{
		habits: newCollection[models.Habit](store, constants.KeyHabits, "habit", o),
		now:    o.now,
	}
}

func (s *HabitService) List(ctx context.Context) []models.Habit {
	return s.habits.LoadAll(ctx)
}

func (s *HabitService) Get(ctx context.Context, id string) (models.Habit, error) {
	return s.habits.FindByID(ctx, id)
}

// Save creates or fully replaces a habit.
func (s *HabitService) Save(ctx context.Context, h models.Habit) (models.Habit, error) {
	if h.Frequency == "" {
		h.Frequency = models.FrequencyDaily
	}
	if err := validation.ValidateHabit(h); err != nil {
		return models.Habit{}, err
	}
	if h.CompletedDates == nil {
		h.CompletedDates = []time.Time{}
	}
	return s.habits.Upsert(ctx, h)
}

func (s *HabitService) Update(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
	return s.habits.Update(ctx, id, func(h *models.Habit) error {
		patch.Apply(h)
		return validation.ValidateHabit(*h)
	})
}

func (s *HabitService) Delete(ctx context.Context, id string) error {
	return s.habits.DeleteByID(ctx, id)
}

// ToggleCompletion removes today's marker if there is one, otherwise records now.
func (s *HabitService) ToggleCompletion(ctx context.Context, id string) (models.Habit, error) {
	now := s.now()
	return s.habits.Update(ctx, id, func(h *models.Habit) error {
		for i, d := range h.CompletedDates {
			if utils.SameDay(d, now, now.Location()) {
				h.CompletedDates = append(h.CompletedDates[:i], h.CompletedDates[i+1:]...)
				return nil
			}
		}
		h.CompletedDates = append(h.CompletedDates, now)
		return nil
	})
}

// Today lists every habit with whether it already has a marker for the current day.
func (s *HabitService) Today(ctx context.Context) []models.TodayHabit {
	now := s.now()
	habits := s.habits.LoadAll(ctx)
	out := make([]models.TodayHabit, 0, len(habits))
	for _, h := range habits {
		out = append(out, models.TodayHabit{Habit: h, CompletedToday: completedOn(h, now)})
	}
	return out
}

func (s *HabitService) Stats(ctx context.Context, id string) (models.HabitStats, error) {
	h, err := s.habits.FindByID(ctx, id)
	if err != nil {
		return models.HabitStats{}, err
	}
	return ComputeHabitStats(h, s.now()), nil
}

func completedOn(h models.Habit, day time.Time) bool {
	for _, d := range h.CompletedDates {
		if utils.SameDay(d, day, day.Location()) {
			return true
		}
	}
	return false
}

// ComputeHabitStats derives streaks and the trailing completion rate as of now.
// The current streak looks back at most 30 days and is not broken by a missing mark today.
func ComputeHabitStats(h models.Habit, now time.Time) models.HabitStats {
	if len(h.CompletedDates) == 0 {
		return models.HabitStats{}
	}

	dates := make([]time.Time, len(h.CompletedDates))
	copy(dates, h.CompletedDates)
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	current := 0
	for i := 0; i < constants.HabitStreakWindowDays; i++ {
		if completedOn(h, utils.AddDays(now, -i)) {
			current++
		} else if i > 0 {
			break
		}
	}

	longest, run := 0, 0
	const maxGap = 36 * time.Hour
	for i, d := range dates {
		if i > 0 && d.Sub(dates[i-1]) <= maxGap {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	recent := 0
	for _, d := range dates {
		if within(d, now, constants.HabitCompletionWindow) {
			recent++
		}
	}
	rate := float64(recent) / float64(constants.HabitCompletionWindow)

	return models.HabitStats{
		TotalCompletions: len(h.CompletedDates),
		CurrentStreak:    current,
		LongestStreak:    longest,
		CompletionRate:   min(rate, 1),
	}
}
