package constants

const (
	// Environment variables read by the CLI
	EnvDatabase = "DAILYQ_DB"
	EnvDebug    = "DAILYQ_DEBUG"
	EnvTimezone = "DAILYQ_TIMEZONE"
	EnvPassword = "DAILYQ_PASSWORD"

	// Default profile values
	DefaultNotificationsEnabled = true
	DefaultReminderTime         = "20:00"
	DefaultTimezone             = "Local" // Use system local timezone by default
)
