package cli

import (
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/service"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
	Toggle HabitToggleCmd `cmd:"" help:"Mark or unmark a habit as done today."`
	Stats  HabitStatsCmd  `cmd:"" help:"Show streaks and completion rate for a habit."`
	Today  HabitTodayCmd  `cmd:"" help:"Show today's habit status."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `help:"Optional description."`
	Frequency   string `help:"daily, weekly or custom." default:"daily" enum:"daily,weekly,custom"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	habit, err := ctx.Services.Habits.Save(ctx.ctx(), models.Habit{
		Name:        c.Name,
		Description: c.Description,
		Frequency:   models.Frequency(c.Frequency),
	})
	if err != nil {
		return err
	}
	ctx.printf("Added habit: %s (%s)\n", habit.Name, habit.ID)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits := ctx.Services.Habits.List(ctx.ctx())
	if len(habits) == 0 {
		ctx.println("No habits found.")
		return nil
	}
	for _, h := range habits {
		stats := service.ComputeHabitStats(h, ctx.now())
		ctx.printf("%s  %-24s %-7s streak %d\n", h.ID, h.Name, h.Frequency, stats.CurrentStreak)
	}
	return nil
}

type HabitEditCmd struct {
	ID          string  `arg:"" help:"Habit ID."`
	Name        *string `help:"New name."`
	Description *string `help:"New description."`
	Frequency   *string `help:"daily, weekly or custom."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	patch := models.HabitPatch{Name: c.Name, Description: c.Description}
	if c.Frequency != nil {
		f := models.Frequency(*c.Frequency)
		patch.Frequency = &f
	}
	habit, err := ctx.Services.Habits.Update(ctx.ctx(), c.ID, patch)
	if err != nil {
		return err
	}
	ctx.printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Services.Habits.Delete(ctx.ctx(), c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted habit %s\n", c.ID)
	return nil
}

type HabitToggleCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitToggleCmd) Run(ctx *Context) error {
	habit, err := ctx.Services.Habits.ToggleCompletion(ctx.ctx(), c.ID)
	if err != nil {
		return err
	}
	for _, h := range ctx.Services.Habits.Today(ctx.ctx()) {
		if h.ID == habit.ID {
			if h.CompletedToday {
				ctx.printf("Marked %q as done today\n", habit.Name)
			} else {
				ctx.printf("Unmarked %q for today\n", habit.Name)
			}
		}
	}
	return nil
}

type HabitStatsCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitStatsCmd) Run(ctx *Context) error {
	habit, err := ctx.Services.Habits.Get(ctx.ctx(), c.ID)
	if err != nil {
		return err
	}
	stats, err := ctx.Services.Habits.Stats(ctx.ctx(), c.ID)
	if err != nil {
		return err
	}
	ctx.printf("%s\n", habit.Name)
	ctx.printf("  Total completions: %d\n", stats.TotalCompletions)
	ctx.printf("  Current streak:    %d\n", stats.CurrentStreak)
	ctx.printf("  Longest streak:    %d\n", stats.LongestStreak)
	ctx.printf("  30-day rate:       %s\n", percent(stats.CompletionRate))
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *Context) error {
	habits := ctx.Services.Habits.Today(ctx.ctx())
	if len(habits) == 0 {
		ctx.println("No habits found.")
		return nil
	}
	done := 0
	for _, h := range habits {
		if h.CompletedToday {
			done++
		}
		ctx.printf("%s %s\n", check(h.CompletedToday), h.Name)
	}
	ctx.printf("\n%d/%d done\n", done, len(habits))
	return nil
}
