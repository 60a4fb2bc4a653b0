package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/metaflow/internal/errors"
	"github.com/julianstephens/metaflow/internal/models"
)

func TestHabitSaveDefaults(t *testing.T) {
	svc, _, _, cleanup := setupServices(t)
	defer cleanup()

	h, err := svc.Habits.Save(ctxT(), models.Habit{Name: "Read"})
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyDaily, h.Frequency)
	assert.NotNil(t, h.CompletedDates)

	_, err = svc.Habits.Save(ctxT(), models.Habit{Name: " "})
	assert.True(t, errors.Is(err, errors.ErrInvalid))
}

func TestHabitToggleTwiceIsNoop(t *testing.T) {
	svc, _, clock, cleanup := setupServices(t)
	defer cleanup()

	yesterday := clock.Now().AddDate(0, 0, -1)
	h, err := svc.Habits.Save(ctxT(), models.Habit{Name: "Run", CompletedDates: []time.Time{yesterday}})
	require.NoError(t, err)

	first, err := svc.Habits.ToggleCompletion(ctxT(), h.ID)
	require.NoError(t, err)
	assert.Len(t, first.CompletedDates, 2)

	clock.Advance(2 * time.Hour)
	second, err := svc.Habits.ToggleCompletion(ctxT(), h.ID)
	require.NoError(t, err)
	require.Len(t, second.CompletedDates, 1)
	assert.True(t, second.CompletedDates[0].Equal(yesterday))
}

func TestHabitToggleUnknown(t *testing.T) {
	svc, _, _, cleanup := setupServices(t)
	defer cleanup()

	_, err := svc.Habits.ToggleCompletion(ctxT(), "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestHabitStreakScenario(t *testing.T) {
	svc, _, clock, cleanup := setupServices(t)
	defer cleanup()

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		h, err := svc.Habits.Save(ctxT(), models.Habit{Name: name})
		require.NoError(t, err)
		ids = append(ids, h.ID)
	}

	a, err := svc.Habits.ToggleCompletion(ctxT(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, 1, ComputeHabitStats(a, clock.Now()).CurrentStreak)

	// Inject yesterday's marker directly
	a.CompletedDates = append(a.CompletedDates, clock.Now().AddDate(0, 0, -1))
	a, err = svc.Habits.Save(ctxT(), a)
	require.NoError(t, err)

	stats, err := svc.Habits.Stats(ctxT(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 2, stats.TotalCompletions)
}

func TestComputeHabitStats(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	tests := []struct {
		name     string
		dates    []time.Time
		expected models.HabitStats
	}{
		{
			name:     "no completions",
			expected: models.HabitStats{},
		},
		{
			name:  "today missing does not break streak",
			dates: []time.Time{day(-1), day(-2), day(-3)},
			expected: models.HabitStats{
				TotalCompletions: 3, CurrentStreak: 3, LongestStreak: 3, CompletionRate: 3.0 / 30,
			},
		},
		{
			name:  "gap breaks current but not longest",
			dates: []time.Time{day(0), day(-2), day(-3), day(-4), day(-5)},
			expected: models.HabitStats{
				TotalCompletions: 5, CurrentStreak: 1, LongestStreak: 4, CompletionRate: 5.0 / 30,
			},
		},
		{
			name:  "old completions do not count toward rate",
			dates: []time.Time{day(-40), day(-41)},
			expected: models.HabitStats{
				TotalCompletions: 2, CurrentStreak: 0, LongestStreak: 2, CompletionRate: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeHabitStats(models.Habit{CompletedDates: tt.dates}, now)
			assert.Equal(t, tt.expected.TotalCompletions, got.TotalCompletions)
			assert.Equal(t, tt.expected.CurrentStreak, got.CurrentStreak)
			assert.Equal(t, tt.expected.LongestStreak, got.LongestStreak)
			assert.InDelta(t, tt.expected.CompletionRate, got.CompletionRate, 1e-9)
		})
	}
}

func TestComputeHabitStatsCurrentStreakWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	var dates []time.Time
	for i := 0; i < 45; i++ {
		dates = append(dates, now.AddDate(0, 0, -i))
	}
	stats := ComputeHabitStats(models.Habit{CompletedDates: dates}, now)
	assert.Equal(t, 30, stats.CurrentStreak)
	assert.Equal(t, 45, stats.LongestStreak)
	assert.Equal(t, 1.0, stats.CompletionRate)
}

func TestHabitToday(t *testing.T) {
	svc, _, _, cleanup := setupServices(t)
	defer cleanup()

	a, _ := svc.Habits.Save(ctxT(), models.Habit{Name: "A"})
	_, _ = svc.Habits.Save(ctxT(), models.Habit{Name: "B"})
	_, err := svc.Habits.ToggleCompletion(ctxT(), a.ID)
	require.NoError(t, err)

	today := svc.Habits.Today(ctxT())
	require.Len(t, today, 2)
	for _, h := range today {
		assert.Equal(t, h.ID == a.ID, h.CompletedToday, h.Name)
	}
}

func TestHabitUpdateAndDelete(t *testing.T) {
	svc, _, _, cleanup := setupServices(t)
	defer cleanup()

	h, _ := svc.Habits.Save(ctxT(), models.Habit{Name: "A"})
	name := "Meditate"
	updated, err := svc.Habits.Update(ctxT(), h.ID, models.HabitPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Meditate", updated.Name)

	bad := models.Frequency("hourly")
	_, err = svc.Habits.Update(ctxT(), h.ID, models.HabitPatch{Frequency: &bad})
	assert.True(t, errors.Is(err, errors.ErrInvalid))

	require.NoError(t, svc.Habits.Delete(ctxT(), h.ID))
	assert.Empty(t, svc.Habits.List(ctxT()))
	assert.True(t, errors.Is(svc.Habits.Delete(ctxT(), h.ID), errors.ErrNotFound))
}
