package cli

import (
	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/utils"
)

type GoalCmd struct {
	Add      GoalAddCmd      `cmd:"" help:"Add a new goal."`
	List     GoalListCmd     `cmd:"" help:"List goals."`
	Edit     GoalEditCmd     `cmd:"" help:"Edit a goal."`
	Delete   GoalDeleteCmd   `cmd:"" help:"Delete a goal."`
	Progress GoalProgressCmd `cmd:"" help:"Set a goal's current value."`
	Toggle   GoalToggleCmd   `cmd:"" help:"Mark a goal complete or reopen it."`
	Stats    GoalStatsCmd    `cmd:"" help:"Show goal statistics."`
	Upcoming GoalUpcomingCmd `cmd:"" help:"Show open goals with a deadline coming up."`
}

type GoalAddCmd struct {
	Title       string  `arg:"" help:"Goal title."`
	Type        string  `help:"annual, quarterly or monthly." default:"annual" enum:"annual,quarterly,monthly"`
	Target      float64 `help:"Target value." default:"1"`
	Unit        string  `help:"Unit of the target, e.g. km or books."`
	Deadline    string  `help:"Deadline in YYYY-MM-DD format."`
	Description string  `help:"Optional description."`
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	deadline, err := parseOptionalDay(c.Deadline)
	if err != nil {
		return err
	}
	goal, err := ctx.Services.Goals.Save(ctx.ctx(), models.Goal{
		Title:       c.Title,
		Description: c.Description,
		Type:        models.GoalType(c.Type),
		TargetValue: c.Target,
		Unit:        c.Unit,
		Deadline:    deadline,
	})
	if err != nil {
		return err
	}
	ctx.printf("Added goal: %s (%s)\n", goal.Title, goal.ID)
	return nil
}

type GoalListCmd struct {
	Type string `help:"Only show goals of this type." enum:",annual,quarterly,monthly" default:""`
}

func (c *GoalListCmd) Run(ctx *Context) error {
	goals := ctx.Services.Goals.List(ctx.ctx())
	if c.Type != "" {
		goals = ctx.Services.Goals.ByType(ctx.ctx(), models.GoalType(c.Type))
	}
	if len(goals) == 0 {
		ctx.println("No goals found.")
		return nil
	}
	for _, g := range goals {
		printGoal(ctx, g)
	}
	return nil
}

func printGoal(ctx *Context, g models.Goal) {
	ctx.printf("%s %s  %-24s %-9s %g/%g %s (%s) due %s\n",
		check(g.Completed), g.ID, g.Title, g.Type, g.CurrentValue, g.TargetValue, g.Unit,
		percent(g.Progress()), formatDay(g.Deadline))
}

type GoalEditCmd struct {
	ID          string   `arg:"" help:"Goal ID."`
	Title       *string  `help:"New title."`
	Description *string  `help:"New description."`
	Type        *string  `help:"annual, quarterly or monthly."`
	Target      *float64 `help:"New target value."`
	Unit        *string  `help:"New unit."`
	Deadline    *string  `help:"New deadline (YYYY-MM-DD), or 'none' to clear it."`
}

func (c *GoalEditCmd) Run(ctx *Context) error {
	deadline, err := parseDatePatch(c.Deadline)
	if err != nil {
		return err
	}
	patch := models.GoalPatch{
		Title:       c.Title,
		Description: c.Description,
		TargetValue: c.Target,
		Unit:        c.Unit,
		Deadline:    deadline,
	}
	if c.Type != nil {
		t := models.GoalType(*c.Type)
		patch.Type = &t
	}
	goal, err := ctx.Services.Goals.Update(ctx.ctx(), c.ID, patch)
	if err != nil {
		return err
	}
	ctx.printf("Updated goal: %s\n", goal.Title)
	return nil
}

type GoalDeleteCmd struct {
	ID string `arg:"" help:"Goal ID."`
}

func (c *GoalDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Services.Goals.Delete(ctx.ctx(), c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted goal %s\n", c.ID)
	return nil
}

type GoalProgressCmd struct {
	ID    string  `arg:"" help:"Goal ID."`
	Value float64 `arg:"" help:"New current value."`
}

func (c *GoalProgressCmd) Run(ctx *Context) error {
	goal, err := ctx.Services.Goals.UpdateProgress(ctx.ctx(), c.ID, c.Value)
	if err != nil {
		return err
	}
	ctx.printf("%s: %g/%g %s (%s)\n", goal.Title, goal.CurrentValue, goal.TargetValue, goal.Unit, percent(goal.Progress()))
	if goal.Completed {
		ctx.println("Goal completed!")
	}
	return nil
}

type GoalToggleCmd struct {
	ID string `arg:"" help:"Goal ID."`
}

func (c *GoalToggleCmd) Run(ctx *Context) error {
	goal, err := ctx.Services.Goals.ToggleCompletion(ctx.ctx(), c.ID)
	if err != nil {
		return err
	}
	if goal.Completed {
		ctx.printf("Completed goal: %s\n", goal.Title)
	} else {
		ctx.printf("Reopened goal: %s\n", goal.Title)
	}
	return nil
}

type GoalStatsCmd struct{}

func (c *GoalStatsCmd) Run(ctx *Context) error {
	stats := ctx.Services.Goals.Stats(ctx.ctx())
	overall := ctx.Services.Goals.OverallProgress(ctx.ctx())

	ctx.printf("Goals:        %d (%d annual, %d quarterly, %d monthly)\n",
		stats.TotalGoals, stats.AnnualGoals, stats.QuarterlyGoals, stats.MonthlyGoals)
	ctx.printf("Completed:    %d (%s)\n", stats.CompletedGoals, percent(stats.CompletionRate))
	ctx.printf("In progress:  %d\n", stats.InProgressGoals)
	ctx.printf("Not started:  %d\n", stats.NotStartedGoals)
	ctx.printf("Overdue:      %d\n", stats.OverdueGoals)
	ctx.printf("Avg progress: %s\n", percent(stats.AverageProgress))
	ctx.printf("Overall:      %s (%d/%d)\n", percent(overall.Progress), overall.Completed, overall.Total)
	return nil
}

type GoalUpcomingCmd struct {
	Days int `help:"Look-ahead window in days." default:"7"`
}

func (c *GoalUpcomingCmd) Run(ctx *Context) error {
	days := c.Days
	if days <= 0 {
		days = constants.GoalUpcomingDays
	}
	goals := ctx.Services.Goals.UpcomingDeadlines(ctx.ctx(), days)
	if len(goals) == 0 {
		ctx.printf("No deadlines in the next %d days.\n", days)
		return nil
	}
	now := ctx.now()
	for _, g := range goals {
		ctx.printf("%s  %-24s due %s (in %d days)\n", g.ID, g.Title, formatDay(g.Deadline), utils.DaysUntil(now, *g.Deadline))
	}
	return nil
}
