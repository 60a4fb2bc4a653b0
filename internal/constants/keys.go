package constants

// KeyPrefix namespaces every key the application writes to the key-value store.
const KeyPrefix = "@metaflow_"

const (
	KeyHabits       = KeyPrefix + "habits"
	KeyGoals        = KeyPrefix + "goals"
	KeyTasks        = KeyPrefix + "tasks"
	KeyColumns      = KeyPrefix + "columns"
	KeyNotes        = KeyPrefix + "notes"
	KeyJournal      = KeyPrefix + "journal"
	KeyTheme        = KeyPrefix + "theme"
	KeyPreferences  = KeyPrefix + "preferences"
	KeyAppData      = KeyPrefix + "app_data"
	KeyPreImport    = KeyPrefix + "backup_before_import"
	KeyMigrationLog = KeyPrefix + "migration_info"
)
