package constants

const (
	// Streak and window sizes, in days
	HabitStreakWindowDays  = 30
	HabitCompletionWindow  = 30
	JournalStreakCapDays   = 365
	RecentWindowDays       = 7
	TaskUpcomingDays       = 3
	TaskImportantDays      = 2
	GoalUpcomingDays       = 7
	TopTagsLimit           = 5
	MaxGratitudeItems      = 3
	JournalMonthlyLookback = 12

	// Default kanban columns, seeded on first read
	ColumnTodo       = "todo"
	ColumnInProgress = "in_progress"
	ColumnDone       = "done"

	DefaultTheme = "system"
)
