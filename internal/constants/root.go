package constants

// QuestionType is the kind of value a question accepts
type QuestionType string

const (
	AppName           = "dailyq"
	DefaultConfigPath = "~/.config/dailyq/dailyq.db"
	EnvFileName       = ".env"
	Version           = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Secret store keys
	CurrentUserKey        = "current_user"
	UserPasswordKeyPrefix = "user_password_"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dailyq-"
	BackupFileSuffix = ".db"

	// Log constants
	LogDirName  = "logs"
	LogFileName = "dailyq.log"

	// Question types
	QuestionToggle  QuestionType = "toggle"
	QuestionNumeric QuestionType = "numeric"
	QuestionText    QuestionType = "text"

	// Insight windows in days
	WeeklyWindowDays  = 7
	MonthlyWindowDays = 30

	// Password policy
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt truncates beyond 72 bytes
)

// DefaultQuestions are seeded, in order, for every new account.
var DefaultQuestions = []string{
	"Did I do my best to set clear goals today?",
	"Did I do my best to make progress towards my goals today?",
	"Did I do my best to find meaning today?",
	"Did I do my best to be happy today?",
	"Did I do my best to build positive relationships today?",
	"Did I do my best to be engaged today?",
}

// UserPasswordKey returns the secret store key holding a user's credential.
func UserPasswordKey(userID string) string {
	return UserPasswordKeyPrefix + userID
}
