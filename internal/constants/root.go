package constants

const (
	AppName            = "dayplan"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/dayplan/dayplan.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is used for updated_at/created_at columns and export timestamps
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dayplan-"
	BackupFileSuffix = ".db"

	// Log file rotation
	LogDirName    = "logs"
	LogFileSuffix = ".log"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Log id prefixes
	DailyLogIDPrefix  = "log-"
	WeeklyLogIDPrefix = "wlog-"

	// Environment variables
	EnvDBConnection = "DAYPLAN_DB_CONNECTION"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
)
