package service

import (
	"context"
	"sort"
	"time"

	"github.com/julianstephens/metaflow/internal/collection"
	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/errors"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/storage"
	"github.com/julianstephens/metaflow/internal/validation"
)

type GoalService struct {
	goals *collection.Collection[models.Goal, *models.Goal]
	now   func() time.Time
}

func NewGoalService(store storage.Provider, opts ...Option) *GoalService {
	o := buildOptions(opts)
	return &GoalService{
		goals: newCollection[models.Goal](store, constants.KeyGoals, "goal", o),
		now:   o.now,
	}
}

func (s *GoalService) List(ctx context.Context) []models.Goal {
	return s.goals.LoadAll(ctx)
}

func (s *GoalService) Get(ctx context.Context, id string) (models.Goal, error) {
	return s.goals.FindByID(ctx, id)
}

// Save stores the goal as given; completion is only derived by UpdateProgress and ToggleCompletion.
func (s *GoalService) Save(ctx context.Context, g models.Goal) (models.Goal, error) {
	if err := validation.ValidateGoal(g); err != nil {
		return models.Goal{}, err
	}
	return s.goals.Upsert(ctx, g)
}

func (s *GoalService) Update(ctx context.Context, id string, patch models.GoalPatch) (models.Goal, error) {
	return s.goals.Update(ctx, id, func(g *models.Goal) error {
		patch.Apply(g)
		return validation.ValidateGoal(*g)
	})
}

func (s *GoalService) Delete(ctx context.Context, id string) error {
	return s.goals.DeleteByID(ctx, id)
}

// UpdateProgress sets the current value. Reaching the target completes an open goal;
// falling below it reopens a completed one.
func (s *GoalService) UpdateProgress(ctx context.Context, id string, value float64) (models.Goal, error) {
	if value < 0 {
		return models.Goal{}, errors.Invalid("goal progress cannot be negative, got %v", value)
	}
	now := s.now()
	return s.goals.Update(ctx, id, func(g *models.Goal) error {
		g.CurrentValue = value
		switch {
		case value >= g.TargetValue && !g.Completed:
			g.Completed = true
			g.CompletedAt = &now
		case value < g.TargetValue && g.Completed:
			g.Completed = false
			g.CompletedAt = nil
		}
		return nil
	})
}

// ToggleCompletion forces a goal complete (raising its value to the target) or reopens it.
// Reopening leaves the current value alone.
func (s *GoalService) ToggleCompletion(ctx context.Context, id string) (models.Goal, error) {
	now := s.now()
	return s.goals.Update(ctx, id, func(g *models.Goal) error {
		if g.Completed {
			g.Completed = false
			g.CompletedAt = nil
			return nil
		}
		g.Completed = true
		g.CompletedAt = &now
		if g.CurrentValue < g.TargetValue {
			g.CurrentValue = g.TargetValue
		}
		return nil
	})
}

func (s *GoalService) Stats(ctx context.Context) models.GoalStats {
	goals := s.goals.LoadAll(ctx)
	now := s.now()

	var stats models.GoalStats
	var progress float64
	stats.TotalGoals = len(goals)
	for _, g := range goals {
		switch {
		case g.Completed:
			stats.CompletedGoals++
		case g.CurrentValue > 0:
			stats.InProgressGoals++
		case g.CurrentValue == 0:
			stats.NotStartedGoals++
		}

		switch g.Type {
		case models.GoalAnnual:
			stats.AnnualGoals++
		case models.GoalQuarterly:
			stats.QuarterlyGoals++
		case models.GoalMonthly:
			stats.MonthlyGoals++
		}

		if !g.Completed && g.Deadline != nil && g.Deadline.Before(now) {
			stats.OverdueGoals++
		}
		progress += g.Progress()
	}

	if stats.TotalGoals > 0 {
		stats.AverageProgress = progress / float64(stats.TotalGoals)
		stats.CompletionRate = float64(stats.CompletedGoals) / float64(stats.TotalGoals)
	}
	return stats
}

func (s *GoalService) ByType(ctx context.Context, t models.GoalType) []models.Goal {
	return s.goals.Filter(ctx, func(g *models.Goal) bool { return g.Type == t })
}

// UpcomingDeadlines returns open goals due between now and now+days, soonest first.
func (s *GoalService) UpcomingDeadlines(ctx context.Context, days int) []models.Goal {
	now := s.now()
	until := now.Add(time.Duration(days) * 24 * time.Hour)

	out := s.goals.Filter(ctx, func(g *models.Goal) bool {
		if g.Completed || g.Deadline == nil {
			return false
		}
		return !g.Deadline.Before(now) && !g.Deadline.After(until)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Deadline.Before(*out[j].Deadline) })
	return out
}

func (s *GoalService) OverallProgress(ctx context.Context) models.OverallProgress {
	goals := s.goals.LoadAll(ctx)
	out := models.OverallProgress{Total: len(goals)}
	for _, g := range goals {
		if g.Completed {
			out.Completed++
		}
	}
	if out.Total > 0 {
		out.Progress = float64(out.Completed) / float64(out.Total)
	}
	return out
}
