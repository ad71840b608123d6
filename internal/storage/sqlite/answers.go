package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	apperr "github.com/julianstephens/dailyq/internal/errors"
	"github.com/julianstephens/dailyq/internal/models"
)

const answerCols = `id, question_id, user_id, date, value, created_at`

func scanAnswer(row scanner) (models.Answer, error) {
	var a models.Answer
	var value, createdAt string

	if err := row.Scan(&a.ID, &a.QuestionID, &a.UserID, &a.Date, &value, &createdAt); err != nil {
		return models.Answer{}, err
	}

	if err := json.Unmarshal([]byte(value), &a.Value); err != nil {
		return models.Answer{}, fmt.Errorf("failed to decode value for answer %s: %w", a.ID, err)
	}

	var err error
	if a.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Answer{}, err
	}
	return a, nil
}

func (s *Store) SaveAnswer(a models.Answer) (models.Answer, error) {
	value, err := json.Marshal(a.Value)
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to encode answer value: %w", err)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	// The existing row keeps its id; only the value and timestamp move forward.
	row := s.db.QueryRow(`
		INSERT INTO answers (`+answerCols+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(question_id, date) DO UPDATE SET
			value = excluded.value,
			created_at = excluded.created_at
		RETURNING `+answerCols,
		a.ID, a.QuestionID, a.UserID, a.Date, string(value), formatTime(a.CreatedAt))

	stored, err := scanAnswer(row)
	if err != nil {
		return models.Answer{}, apperr.Storage("upsert answer", err)
	}
	return stored, nil
}

func (s *Store) queryAnswers(op, query string, args ...any) ([]models.Answer, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	defer rows.Close()

	answers := []models.Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, apperr.Storage(op, err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return answers, nil
}

func (s *Store) GetAnswersByUser(userID string) ([]models.Answer, error) {
	return s.queryAnswers("list answers", `
		SELECT `+answerCols+`
		FROM answers WHERE user_id = ?
		ORDER BY date DESC, created_at DESC`, userID)
}

func (s *Store) GetAnswersByUserAndDate(userID, date string) ([]models.Answer, error) {
	return s.queryAnswers("list answers for date", `
		SELECT `+answerCols+`
		FROM answers WHERE user_id = ? AND date = ?
		ORDER BY created_at`, userID, date)
}

func (s *Store) DeleteAnswer(id string) error {
	result, err := s.db.Exec(`DELETE FROM answers WHERE id = ?`, id)
	if err != nil {
		return apperr.Storage("delete answer", err)
	}
	return checkAffected(result, "delete answer", apperr.NotFound("answer %s", id))
}
