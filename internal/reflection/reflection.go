// Package reflection holds the active user's questions and answers in memory
// and routes every change through the store.
package reflection

import (
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dailyq/internal/constants"
	apperr "github.com/julianstephens/dailyq/internal/errors"
	"github.com/julianstephens/dailyq/internal/logger"
	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/storage"
	"github.com/julianstephens/dailyq/internal/streak"
	"github.com/julianstephens/dailyq/internal/utils"
	"github.com/julianstephens/dailyq/internal/validation"
)

// Snapshot is the loaded state for one user. A snapshot is never modified
// after it is published; every change publishes a new one.
type Snapshot struct {
	UserID    string
	Questions []models.Question // ascending by Order, archived included
	Answers   []models.Answer   // newest date first as loaded; saves append
	Streak    streak.Result
	Today     string
}

type Service struct {
	store storage.Provider
	loc   *time.Location
	now   func() time.Time

	// serializes writers; readers only touch snap
	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]
}

type Option func(*Service)

// WithLocation sets the zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store: store,
		loc:   time.Local,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the current calendar date in the service's location.
func (s *Service) Today() string {
	return utils.FormatDate(s.now().In(s.loc))
}

// Load reads all questions and answers of userID and binds the service to it.
func (s *Service) Load(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions, err := s.store.GetQuestionsByUser(userID)
	if err != nil {
		return err
	}
	answers, err := s.store.GetAnswersByUser(userID)
	if err != nil {
		return err
	}

	s.publish(userID, questions, answers)
	logger.Debug("Reflection data loaded", "user_id", userID, "questions", len(questions), "answers", len(answers))
	return nil
}

// Reset drops the loaded state, e.g. after sign out.
func (s *Service) Reset() {
	s.snap.Store(nil)
}

func (s *Service) publish(userID string, questions []models.Question, answers []models.Answer) *Snapshot {
	today := s.Today()
	snap := &Snapshot{
		UserID:    userID,
		Questions: questions,
		Answers:   answers,
		Streak:    streak.Calculate(answers, today),
		Today:     today,
	}
	s.snap.Store(snap)
	return snap
}

// Snapshot returns the current state. Callers must not modify it.
func (s *Service) Snapshot() (*Snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, apperr.ErrNotInitialized
	}
	return snap, nil
}

func (s *Service) Questions() ([]models.Question, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.Questions), nil
}

func (s *Service) ActiveQuestions() ([]models.Question, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return models.ActiveQuestions(snap.Questions), nil
}

// FindQuestion resolves ref as a question ID, a 1-based position in the
// ordered list or a unique ID prefix.
func (s *Service) FindQuestion(ref string) (models.Question, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return models.Question{}, err
	}
	ref = strings.TrimSpace(ref)

	for _, q := range snap.Questions {
		if q.ID == ref {
			return q, nil
		}
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(snap.Questions) {
			return snap.Questions[n-1], nil
		}
		return models.Question{}, apperr.NotFound("question #%d", n)
	}

	var match *models.Question
	for i := range snap.Questions {
		if ref != "" && strings.HasPrefix(snap.Questions[i].ID, ref) {
			if match != nil {
				return models.Question{}, apperr.Invalid("question reference %q is ambiguous", ref)
			}
			match = &snap.Questions[i]
		}
	}
	if match == nil {
		return models.Question{}, apperr.NotFound("question %q", ref)
	}
	return *match, nil
}

func findQuestion(snap *Snapshot, id string) (models.Question, bool) {
	for _, q := range snap.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return models.Question{}, false
}

// AddQuestion appends a question after all existing ones.
func (s *Service) AddQuestion(text string, qType constants.QuestionType) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.Snapshot()
	if err != nil {
		return models.Question{}, err
	}

	text = strings.TrimSpace(text)
	if err := validation.Struct(validation.QuestionRequest{Text: text, Type: qType}); err != nil {
		return models.Question{}, err
	}

	q := models.Question{
		ID:     uuid.New().String(),
		UserID: snap.UserID,
		Text:   text,
		Type:   qType,
		Order:  len(snap.Questions),
	}
	if err := s.store.CreateQuestion(q); err != nil {
		return models.Question{}, err
	}

	if err := s.refreshQuestions(snap); err != nil {
		return models.Question{}, err
	}
	logger.Info("Question added", "question_id", q.ID, "type", q.Type)
	return s.store.GetQuestion(q.ID)
}

// UpdateQuestion applies a partial update. Changing the type does not touch
// answers already recorded.
func (s *Service) UpdateQuestion(id string, update models.QuestionUpdate) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateQuestion(id, update)
}

func (s *Service) updateQuestion(id string, update models.QuestionUpdate) (models.Question, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return models.Question{}, err
	}
	current, ok := findQuestion(snap, id)
	if !ok {
		return models.Question{}, apperr.NotFound("question %s", id)
	}
	if update.IsEmpty() {
		return current, nil
	}

	if update.Text != nil {
		text := strings.TrimSpace(*update.Text)
		if text == "" {
			return models.Question{}, apperr.Invalid("question text cannot be empty")
		}
		update.Text = &text
	}
	if update.Type != nil {
		if err := validation.QuestionType(*update.Type); err != nil {
			return models.Question{}, err
		}
	}
	if update.Order != nil && *update.Order < 0 {
		return models.Question{}, apperr.Invalid("question order cannot be negative")
	}

	updated, err := s.store.UpdateQuestion(id, update)
	if err != nil {
		return models.Question{}, err
	}
	if err := s.refreshQuestions(snap); err != nil {
		return models.Question{}, err
	}
	return updated, nil
}

// ArchiveQuestion hides the question from the active set. Its answers stay.
func (s *Service) ArchiveQuestion(id string) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	archived := true
	q, err := s.updateQuestion(id, models.QuestionUpdate{IsArchived: &archived})
	if err == nil {
		logger.Info("Question archived", "question_id", id)
	}
	return q, err
}

func (s *Service) UnarchiveQuestion(id string) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	archived := false
	q, err := s.updateQuestion(id, models.QuestionUpdate{IsArchived: &archived})
	if err == nil {
		logger.Info("Question restored", "question_id", id)
	}
	return q, err
}

// DeleteQuestion removes the question and every answer to it.
func (s *Service) DeleteQuestion(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	if _, ok := findQuestion(snap, id); !ok {
		return apperr.NotFound("question %s", id)
	}

	if err := s.store.DeleteQuestion(id); err != nil {
		return err
	}

	questions := slices.DeleteFunc(slices.Clone(snap.Questions), func(q models.Question) bool { return q.ID == id })
	answers := slices.DeleteFunc(slices.Clone(snap.Answers), func(a models.Answer) bool { return a.QuestionID == id })
	s.publish(snap.UserID, questions, answers)

	logger.Info("Question deleted", "question_id", id)
	return nil
}

func (s *Service) refreshQuestions(snap *Snapshot) error {
	questions, err := s.store.GetQuestionsByUser(snap.UserID)
	if err != nil {
		return err
	}
	s.publish(snap.UserID, questions, snap.Answers)
	return nil
}

// SaveAnswer records value for today.
func (s *Service) SaveAnswer(questionID string, value models.AnswerValue) (models.Answer, error) {
	return s.SaveAnswerOn(questionID, s.Today(), value)
}

// SaveAnswerOn records value for date, replacing any earlier answer to the
// same question on that date.
func (s *Service) SaveAnswerOn(questionID, date string, value models.AnswerValue) (models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.Snapshot()
	if err != nil {
		return models.Answer{}, err
	}
	if err := validation.Date(date); err != nil {
		return models.Answer{}, err
	}

	q, ok := findQuestion(snap, questionID)
	if !ok {
		return models.Answer{}, apperr.NotFound("question %s", questionID)
	}
	if q.IsArchived {
		return models.Answer{}, apperr.Invalid("question %q is archived", q.Text)
	}
	if !value.Matches(q.Type) {
		return models.Answer{}, apperr.Invalid("a %s question cannot take a %s answer", q.Type, value.Kind)
	}

	stored, err := s.store.SaveAnswer(models.Answer{
		ID:         uuid.New().String(),
		QuestionID: q.ID,
		UserID:     snap.UserID,
		Date:       date,
		Value:      value,
	})
	if err != nil {
		return models.Answer{}, err
	}

	answers := slices.Clone(snap.Answers)
	idx := slices.IndexFunc(answers, func(a models.Answer) bool {
		return a.QuestionID == stored.QuestionID && a.Date == stored.Date
	})
	if idx >= 0 {
		answers[idx] = stored
	} else {
		answers = append(answers, stored)
	}
	s.publish(snap.UserID, snap.Questions, answers)

	logger.Debug("Answer saved", "question_id", q.ID, "date", date)
	return stored, nil
}

// ClearAnswer deletes the answer to questionID on date, if there is one.
func (s *Service) ClearAnswer(questionID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(snap.Answers, func(a models.Answer) bool {
		return a.QuestionID == questionID && a.Date == date
	})
	if idx < 0 {
		return apperr.NotFound("answer for question %s on %s", questionID, date)
	}

	if err := s.store.DeleteAnswer(snap.Answers[idx].ID); err != nil {
		return err
	}
	answers := slices.Delete(slices.Clone(snap.Answers), idx, idx+1)
	s.publish(snap.UserID, snap.Questions, answers)
	return nil
}

func (s *Service) AnswersForDate(date string) ([]models.Answer, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	var out []models.Answer
	for _, a := range snap.Answers {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Service) TodayAnswers() ([]models.Answer, error) {
	return s.AnswersForDate(s.Today())
}

// Streaks recomputes against the current date, so a snapshot loaded before
// midnight still reports correctly after it.
func (s *Service) Streaks() (streak.Result, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return streak.Result{}, err
	}
	today := s.Today()
	if today == snap.Today {
		return snap.Streak, nil
	}
	return streak.Calculate(snap.Answers, today), nil
}

// Insights summarizes the loaded history with a calendarDays-long calendar.
func (s *Service) Insights(calendarDays int) (streak.Insights, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return streak.Insights{}, err
	}
	return streak.Summarize(snap.Answers, snap.Questions, s.Today(), calendarDays), nil
}
