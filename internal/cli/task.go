package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/metaflow/internal/models"
)

type ColumnCmd struct {
	List   ColumnListCmd   `cmd:"" help:"List board columns in order."`
	Add    ColumnAddCmd    `cmd:"" help:"Add a column at the end of the board."`
	Rename ColumnRenameCmd `cmd:"" help:"Rename a column."`
	Delete ColumnDeleteCmd `cmd:"" help:"Delete an empty column."`
}

type ColumnListCmd struct{}

func (c *ColumnListCmd) Run(ctx *Context) error {
	for _, col := range ctx.Services.Tasks.Columns(ctx.ctx()) {
		ctx.printf("%d. %-16s %-12s %s\n", col.Order+1, col.Name, col.Status, col.ID)
	}
	return nil
}

type ColumnAddCmd struct {
	Name   string `arg:"" help:"Column name."`
	Status string `help:"todo, in_progress, done or custom." default:"custom" enum:"todo,in_progress,done,custom"`
}

func (c *ColumnAddCmd) Run(ctx *Context) error {
	col, err := ctx.Services.Tasks.SaveColumn(ctx.ctx(), models.Column{Name: c.Name, Status: models.ColumnStatus(c.Status)})
	if err != nil {
		return err
	}
	ctx.printf("Added column: %s (%s)\n", col.Name, col.ID)
	return nil
}

type ColumnRenameCmd struct {
	ID   string `arg:"" help:"Column ID."`
	Name string `arg:"" help:"New name."`
}

func (c *ColumnRenameCmd) Run(ctx *Context) error {
	col, err := ctx.Services.Tasks.UpdateColumn(ctx.ctx(), c.ID, models.ColumnPatch{Name: &c.Name})
	if err != nil {
		return err
	}
	ctx.printf("Renamed column %s to %s\n", col.ID, col.Name)
	return nil
}

type ColumnDeleteCmd struct {
	ID string `arg:"" help:"Column ID."`
}

func (c *ColumnDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Services.Tasks.DeleteColumn(ctx.ctx(), c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted column %s\n", c.ID)
	return nil
}

type TaskCmd struct {
	Add       TaskAddCmd       `cmd:"" help:"Add a task to the board."`
	List      TaskListCmd      `cmd:"" help:"List tasks."`
	Edit      TaskEditCmd      `cmd:"" help:"Edit a task."`
	Delete    TaskDeleteCmd    `cmd:"" help:"Delete a task."`
	Move      TaskMoveCmd      `cmd:"" help:"Move a task to another column."`
	Board     TaskBoardCmd     `cmd:"" help:"Show the kanban board."`
	Stats     TaskStatsCmd     `cmd:"" help:"Show task statistics."`
	Important TaskImportantCmd `cmd:"" help:"Show open high-priority or soon-due tasks."`
}

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Column      string `help:"Column ID (default: todo)."`
	Priority    string `help:"low, normal, medium or high." default:"normal" enum:"low,normal,medium,high"`
	Due         string `help:"Due date in YYYY-MM-DD format."`
	Description string `help:"Optional description."`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	due, err := parseOptionalDay(c.Due)
	if err != nil {
		return err
	}
	task, err := ctx.Services.Tasks.SaveTask(ctx.ctx(), models.Task{
		Title:       c.Title,
		Description: c.Description,
		Priority:    models.Priority(c.Priority),
		ColumnID:    c.Column,
		DueDate:     due,
	})
	if err != nil {
		return err
	}
	ctx.printf("Added task: %s (%s) in %s\n", task.Title, task.ID, task.ColumnID)
	return nil
}

type TaskListCmd struct {
	Column string `help:"Only show tasks in this column."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	tasks := ctx.Services.Tasks.List(ctx.ctx())
	if c.Column != "" {
		tasks = ctx.Services.Tasks.ByColumn(ctx.ctx(), c.Column)
	}
	if len(tasks) == 0 {
		ctx.println("No tasks found.")
		return nil
	}
	for _, t := range tasks {
		printTask(ctx, t)
	}
	return nil
}

func printTask(ctx *Context, t models.Task) {
	ctx.printf("%s  %-28s %-6s %-12s due %s\n", t.ID, t.Title, t.Priority, t.ColumnID, formatDay(t.DueDate))
}

type TaskEditCmd struct {
	ID          string  `arg:"" help:"Task ID."`
	Title       *string `help:"New title."`
	Description *string `help:"New description."`
	Priority    *string `help:"low, normal, medium or high."`
	Due         *string `help:"New due date (YYYY-MM-DD), or 'none' to clear it."`
}

func (c *TaskEditCmd) Run(ctx *Context) error {
	due, err := parseDatePatch(c.Due)
	if err != nil {
		return err
	}
	patch := models.TaskPatch{Title: c.Title, Description: c.Description, DueDate: due}
	if c.Priority != nil {
		p := models.Priority(*c.Priority)
		patch.Priority = &p
	}
	task, err := ctx.Services.Tasks.Update(ctx.ctx(), c.ID, patch)
	if err != nil {
		return err
	}
	ctx.printf("Updated task: %s\n", task.Title)
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Services.Tasks.DeleteTask(ctx.ctx(), c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted task %s\n", c.ID)
	return nil
}

type TaskMoveCmd struct {
	ID     string `arg:"" help:"Task ID."`
	Column string `arg:"" help:"Target column ID."`
}

func (c *TaskMoveCmd) Run(ctx *Context) error {
	task, err := ctx.Services.Tasks.MoveTask(ctx.ctx(), c.ID, c.Column)
	if err != nil {
		return err
	}
	ctx.printf("Moved %q to %s\n", task.Title, task.ColumnID)
	return nil
}

type TaskBoardCmd struct{}

func (c *TaskBoardCmd) Run(ctx *Context) error {
	for i, col := range ctx.Services.Tasks.KanbanData(ctx.ctx()) {
		if i > 0 {
			ctx.println()
		}
		header := fmt.Sprintf("%s (%d)", col.Name, len(col.Tasks))
		ctx.println(header)
		ctx.println(strings.Repeat("-", len([]rune(header))))
		for _, t := range col.Tasks {
			ctx.printf("  %-6s %s  [%s]\n", t.Priority, t.Title, t.ID)
		}
	}
	return nil
}

type TaskStatsCmd struct{}

func (c *TaskStatsCmd) Run(ctx *Context) error {
	stats := ctx.Services.Tasks.Stats(ctx.ctx())
	ctx.printf("Tasks:    %d\n", stats.TotalTasks)
	ctx.printf("Overdue:  %d\n", stats.OverdueTasks)
	ctx.printf("Upcoming: %d\n", stats.UpcomingTasks)
	ctx.println("By column:")
	for _, col := range ctx.Services.Tasks.Columns(ctx.ctx()) {
		ctx.printf("  %-16s %d\n", col.Name, stats.TasksByColumn[col.ID])
	}
	ctx.println("By priority:")
	for _, p := range []models.Priority{models.PriorityHigh, models.PriorityMedium, models.PriorityNormal, models.PriorityLow} {
		ctx.printf("  %-16s %d\n", p, stats.TasksByPriority[p])
	}
	return nil
}

type TaskImportantCmd struct{}

func (c *TaskImportantCmd) Run(ctx *Context) error {
	tasks := ctx.Services.Tasks.Important(ctx.ctx())
	if len(tasks) == 0 {
		ctx.println("Nothing urgent.")
		return nil
	}
	for _, t := range tasks {
		printTask(ctx, t)
	}
	return nil
}
