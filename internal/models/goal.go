package models

import "time"

type GoalType string

const (
	GoalAnnual    GoalType = "annual"
	GoalQuarterly GoalType = "quarterly"
	GoalMonthly   GoalType = "monthly"
)

var GoalTypes = []GoalType{GoalAnnual, GoalQuarterly, GoalMonthly}

func (t GoalType) Valid() bool {
	for _, v := range GoalTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Goal struct {
	Meta
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Type         GoalType   `json:"type"`
	TargetValue  float64    `json:"targetValue"`
	CurrentValue float64    `json:"currentValue"`
	Unit         string     `json:"unit"`
	Deadline     *time.Time `json:"deadline"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt"`
}

// Progress returns current/target clamped to [0,1]; a non-positive target counts as no progress.
func (g Goal) Progress() float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	p := g.CurrentValue / g.TargetValue
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

type GoalPatch struct {
	Title       *string
	Description *string
	Type        *GoalType
	TargetValue *float64
	Unit        *string
	Deadline    **time.Time
}

func (p GoalPatch) Apply(g *Goal) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Type != nil {
		g.Type = *p.Type
	}
	if p.TargetValue != nil {
		g.TargetValue = *p.TargetValue
	}
	if p.Unit != nil {
		g.Unit = *p.Unit
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}
}

type GoalStats struct {
	TotalGoals      int     `json:"totalGoals"`
	CompletedGoals  int     `json:"completedGoals"`
	InProgressGoals int     `json:"inProgressGoals"`
	NotStartedGoals int     `json:"notStartedGoals"`
	OverdueGoals    int     `json:"overdueGoals"`
	AnnualGoals     int     `json:"annualGoals"`
	QuarterlyGoals  int     `json:"quarterlyGoals"`
	MonthlyGoals    int     `json:"monthlyGoals"`
	AverageProgress float64 `json:"averageProgress"`
	CompletionRate  float64 `json:"completionRate"`
}

type OverallProgress struct {
	Progress  float64 `json:"progress"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
}
