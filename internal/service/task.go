package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/metaflow/internal/collection"
	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/errors"
	"github.com/julianstephens/metaflow/internal/logger"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/storage"
	"github.com/julianstephens/metaflow/internal/utils"
	"github.com/julianstephens/metaflow/internal/validation"
)

// TaskService owns the kanban board: the tasks collection and the columns they reference.
type TaskService struct {
	tasks   *collection.Collection[models.Task, *models.Task]
	columns *collection.Collection[models.Column, *models.Column]
	now     func() time.Time
}

func NewTaskService(store storage.Provider, opts ...Option) *TaskService {
	o := buildOptions(opts)
	return &TaskService{
		tasks:   newCollection[models.Task](store, constants.KeyTasks, "task", o),
		columns: newCollection[models.Column](store, constants.KeyColumns, "column", o),
		now:     o.now,
	}
}

func defaultColumns(now time.Time) []models.Column {
	meta := func(id string) models.Meta {
		return models.Meta{ID: id, CreatedAt: now, UpdatedAt: now}
	}
	return []models.Column{
		{Meta: meta(constants.ColumnTodo), Name: "To Do", Status: models.StatusTodo, Order: 0},
		{Meta: meta(constants.ColumnInProgress), Name: "In Progress", Status: models.StatusInProgress, Order: 1},
		{Meta: meta(constants.ColumnDone), Name: "Done", Status: models.StatusDone, Order: 2},
	}
}

// Columns returns the board columns by order. An empty board is seeded with the
// three default columns, which are persisted before returning.
func (s *TaskService) Columns(ctx context.Context) []models.Column {
	columns := s.columns.LoadAll(ctx)
	if len(columns) == 0 {
		columns = defaultColumns(s.now())
		if err := s.columns.SaveAll(ctx, columns); err != nil {
			logger.Warn("Failed to persist default columns", "error", err)
		}
		return columns
	}
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].Order < columns[j].Order })
	return columns
}

// SaveColumn appends a new column at the end of the board or replaces an existing one
// in place, keeping its position.
func (s *TaskService) SaveColumn(ctx context.Context, c models.Column) (models.Column, error) {
	if c.Status == "" {
		c.Status = models.StatusCustom
	}
	if err := validation.ValidateColumn(c); err != nil {
		return models.Column{}, err
	}

	columns := s.Columns(ctx)
	c.Order = len(columns)
	for _, existing := range columns {
		if c.ID != "" && existing.ID == c.ID {
			c.Order = existing.Order
			break
		}
	}
	return s.columns.Upsert(ctx, c)
}

func (s *TaskService) UpdateColumn(ctx context.Context, id string, patch models.ColumnPatch) (models.Column, error) {
	s.Columns(ctx)
	return s.columns.Update(ctx, id, func(c *models.Column) error {
		patch.Apply(c)
		return validation.ValidateColumn(*c)
	})
}

// DeleteColumn refuses to remove a column that still holds tasks. After a delete the
// remaining columns are renumbered 0..n-1.
func (s *TaskService) DeleteColumn(ctx context.Context, id string) error {
	held := 0
	for _, t := range s.tasks.LoadAll(ctx) {
		if t.ColumnID == id {
			held++
		}
	}
	if held > 0 {
		return fmt.Errorf("column %q holds %d task(s): %w", id, held, errors.ErrColumnNotEmpty)
	}

	columns := s.Columns(ctx)
	kept := make([]models.Column, 0, len(columns))
	for _, c := range columns {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(columns) {
		return errors.NotFound("column", id)
	}

	now := s.now()
	for i := range kept {
		if kept[i].Order != i {
			kept[i].Order = i
			kept[i].UpdatedAt = now
		}
	}
	return s.columns.SaveAll(ctx, kept)
}

func (s *TaskService) List(ctx context.Context) []models.Task {
	return s.tasks.LoadAll(ctx)
}

func (s *TaskService) Get(ctx context.Context, id string) (models.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) ByColumn(ctx context.Context, columnID string) []models.Task {
	return s.tasks.Filter(ctx, func(t *models.Task) bool { return t.ColumnID == columnID })
}

func (s *TaskService) columnExists(ctx context.Context, id string) bool {
	for _, c := range s.Columns(ctx) {
		if c.ID == id {
			return true
		}
	}
	return false
}

// SaveTask creates or replaces a task; its column must exist.
func (s *TaskService) SaveTask(ctx context.Context, t models.Task) (models.Task, error) {
	if t.ColumnID == "" {
		t.ColumnID = constants.ColumnTodo
	}
	if err := validation.ValidateTask(t); err != nil {
		return models.Task{}, err
	}
	if !s.columnExists(ctx, t.ColumnID) {
		return models.Task{}, errors.NotFound("column", t.ColumnID)
	}
	return s.tasks.Upsert(ctx, t)
}

func (s *TaskService) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	return s.tasks.Update(ctx, id, func(t *models.Task) error {
		patch.Apply(t)
		return validation.ValidateTask(*t)
	})
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.tasks.DeleteByID(ctx, id)
}

// MoveTask only rewrites the task's column; the target column is not checked.
func (s *TaskService) MoveTask(ctx context.Context, id, columnID string) (models.Task, error) {
	return s.tasks.Update(ctx, id, func(t *models.Task) error {
		t.ColumnID = columnID
		return nil
	})
}

// KanbanData joins every column, in order, with the tasks that reference it.
func (s *TaskService) KanbanData(ctx context.Context) []models.KanbanColumn {
	columns := s.Columns(ctx)
	tasks := s.tasks.LoadAll(ctx)

	board := make([]models.KanbanColumn, 0, len(columns))
	for _, c := range columns {
		kc := models.KanbanColumn{Column: c, Tasks: []models.Task{}}
		for _, t := range tasks {
			if t.ColumnID == c.ID {
				kc.Tasks = append(kc.Tasks, t)
			}
		}
		board = append(board, kc)
	}
	return board
}

func (s *TaskService) Stats(ctx context.Context) models.TaskStats {
	tasks := s.tasks.LoadAll(ctx)
	now := s.now()

	stats := models.TaskStats{
		TotalTasks:    len(tasks),
		TasksByColumn: map[string]int{},
		TasksByPriority: map[models.Priority]int{
			models.PriorityHigh:   0,
			models.PriorityMedium: 0,
			models.PriorityLow:    0,
			models.PriorityNormal: 0,
		},
	}
	for _, c := range s.Columns(ctx) {
		stats.TasksByColumn[c.ID] = 0
	}

	for _, t := range tasks {
		if _, ok := stats.TasksByColumn[t.ColumnID]; ok {
			stats.TasksByColumn[t.ColumnID]++
		}
		switch t.Priority {
		case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
			stats.TasksByPriority[t.Priority]++
		case models.PriorityNormal, "":
			stats.TasksByPriority[models.PriorityNormal]++
		}

		if t.DueDate == nil || t.ColumnID == constants.ColumnDone {
			continue
		}
		if t.DueDate.Before(now) {
			stats.OverdueTasks++
		}
		if days := utils.DaysUntil(now, *t.DueDate); days >= 0 && days <= constants.TaskUpcomingDays {
			stats.UpcomingTasks++
		}
	}
	return stats
}

// Important lists open tasks that are high priority or due within two days, most
// pressing first.
func (s *TaskService) Important(ctx context.Context) []models.Task {
	now := s.now()
	out := s.tasks.Filter(ctx, func(t *models.Task) bool {
		if t.ColumnID == constants.ColumnDone {
			return false
		}
		if t.Priority == models.PriorityHigh {
			return true
		}
		if t.DueDate != nil {
			days := utils.DaysUntil(now, *t.DueDate)
			return days >= 0 && days <= constants.TaskImportantDays
		}
		return false
	})

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra > rb
		}
		if a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out
}
