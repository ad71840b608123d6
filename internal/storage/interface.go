package storage

import (
	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/storage/sqlite"
)

// Provider is the persistence contract used by the services. Every write is
// atomic per call. Missing rows surface as errors.ErrNotFound and I/O or
// constraint failures as *errors.StorageError.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Users
	CreateUser(models.User) error
	GetUserByID(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	UpdateUser(id string, update models.UserUpdate) (models.User, error)
	DeleteUser(id string) error

	// Questions
	CreateQuestion(models.Question) error
	GetQuestion(id string) (models.Question, error)
	// GetQuestionsByUser returns the user's questions, archived included,
	// ordered ascending by Order.
	GetQuestionsByUser(userID string) ([]models.Question, error)
	UpdateQuestion(id string, update models.QuestionUpdate) (models.Question, error)
	DeleteQuestion(id string) error

	// Answers
	// SaveAnswer inserts the answer or replaces the value already stored for
	// the same question and date, returning the stored row.
	SaveAnswer(models.Answer) (models.Answer, error)
	// GetAnswersByUser returns every answer of the user, newest date first.
	GetAnswersByUser(userID string) ([]models.Answer, error)
	GetAnswersByUserAndDate(userID, date string) ([]models.Answer, error)
	DeleteAnswer(id string) error

	// Utils
	ClearAllData() error
	GetConfigPath() string
}

var _ Provider = (*sqlite.Store)(nil)

// NewSQLiteStore returns the default on-device provider backed by the database file at path.
func NewSQLiteStore(path string) Provider {
	return sqlite.NewStore(path)
}
