package constants

const (
	AppName            = "metaflow"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/metaflow"
	Version            = "v0.3.0"

	// ExportVersion is the schema version written into every export document
	ExportVersion = "1.0.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Store backends
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	DefaultStore     = StoreSQLite
	DefaultDBName    = "metaflow.db"
	DefaultFileName  = "metaflow.json"
	ConfigFileName   = "config"
	ConfigFileType   = "json"
	EnvPrefix        = "METAFLOW"
	EnvDBConnection  = "METAFLOW_DB_CONNECTION"
	LogFileName      = "metaflow.log"
	LockfileName     = "metaflow-watch.lock"
	DefaultSchedule  = "0 3 * * *"
	DefaultKeepDays  = 90
	DefaultListLimit = 5

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "metaflow_backup_"
	BackupFileSuffix = ".json"
)
