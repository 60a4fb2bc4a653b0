package models

import "time"

type ColumnStatus string

const (
	StatusTodo       ColumnStatus = "todo"
	StatusInProgress ColumnStatus = "in_progress"
	StatusDone       ColumnStatus = "done"
	StatusCustom     ColumnStatus = "custom"
)

func (s ColumnStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusCustom:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities for sorting: high > medium > low > normal.
// Normal sits below low to match how the board has always ranked them.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type Column struct {
	Meta
	Name   string       `json:"name"`
	Status ColumnStatus `json:"status"`
	Order  int          `json:"order"`
}

type ColumnPatch struct {
	Name   *string
	Status *ColumnStatus
}

func (p ColumnPatch) Apply(c *Column) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}

type Task struct {
	Meta
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	ColumnID    string     `json:"columnId"`
	DueDate     *time.Time `json:"dueDate"`
}

type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     **time.Time
}

func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
}

// KanbanColumn is a column joined with the tasks that reference it.
type KanbanColumn struct {
	Column
	Tasks []Task `json:"tasks"`
}

type TaskStats struct {
	TotalTasks      int              `json:"totalTasks"`
	TasksByColumn   map[string]int   `json:"tasksByColumn"`
	TasksByPriority map[Priority]int `json:"tasksByPriority"`
	OverdueTasks    int              `json:"overdueTasks"`
	UpcomingTasks   int              `json:"upcomingTasks"`
}
