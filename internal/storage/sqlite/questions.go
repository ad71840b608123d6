package sqlite

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/julianstephens/dailyq/internal/constants"
	apperr "github.com/julianstephens/dailyq/internal/errors"
	"github.com/julianstephens/dailyq/internal/models"
)

const questionCols = `id, user_id, text, type, order_index, is_archived, created_at, updated_at`

func scanQuestion(row scanner) (models.Question, error) {
	var q models.Question
	var qType string
	var archived sql.NullInt64
	var createdAt, updatedAt string

	if err := row.Scan(&q.ID, &q.UserID, &q.Text, &qType, &q.Order, &archived, &createdAt, &updatedAt); err != nil {
		return models.Question{}, err
	}

	q.Type = constants.QuestionType(qType)
	q.IsArchived = archived.Valid && archived.Int64 != 0

	var err error
	if q.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Question{}, err
	}
	if q.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Question{}, err
	}
	return q, nil
}

func (s *Store) CreateQuestion(q models.Question) error {
	now := time.Now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	if q.UpdatedAt.IsZero() {
		q.UpdatedAt = now
	}

	_, err := s.db.Exec(`
		INSERT INTO questions (`+questionCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.UserID, q.Text, string(q.Type), q.Order, boolToInt(q.IsArchived),
		formatTime(q.CreatedAt), formatTime(q.UpdatedAt))
	return apperr.Storage("insert question", err)
}

func (s *Store) GetQuestion(id string) (models.Question, error) {
	row := s.db.QueryRow(`SELECT `+questionCols+` FROM questions WHERE id = ?`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, apperr.NotFound("question %s", id)
	}
	if err != nil {
		return models.Question{}, apperr.Storage("get question", err)
	}
	return q, nil
}

func (s *Store) GetQuestionsByUser(userID string) ([]models.Question, error) {
	rows, err := s.db.Query(`
		SELECT `+questionCols+`
		FROM questions WHERE user_id = ?
		ORDER BY order_index ASC, created_at ASC`, userID)
	if err != nil {
		return nil, apperr.Storage("list questions", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, apperr.Storage("scan question", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list questions", err)
	}

	return questions, nil
}

func (s *Store) UpdateQuestion(id string, update models.QuestionUpdate) (models.Question, error) {
	var sets []string
	var args []any

	if update.Text != nil {
		sets = append(sets, "text = ?")
		args = append(args, *update.Text)
	}
	if update.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, string(*update.Type))
	}
	if update.Order != nil {
		sets = append(sets, "order_index = ?")
		args = append(args, *update.Order)
	}
	if update.IsArchived != nil {
		sets = append(sets, "is_archived = ?")
		args = append(args, boolToInt(*update.IsArchived))
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), id)

	result, err := s.db.Exec(`UPDATE questions SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return models.Question{}, apperr.Storage("update question", err)
	}
	if err := checkAffected(result, "update question", apperr.NotFound("question %s", id)); err != nil {
		return models.Question{}, err
	}

	return s.GetQuestion(id)
}

// DeleteQuestion hard-deletes the question; its answers go with it via ON DELETE CASCADE.
func (s *Store) DeleteQuestion(id string) error {
	result, err := s.db.Exec(`DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return apperr.Storage("delete question", err)
	}
	return checkAffected(result, "delete question", apperr.NotFound("question %s", id))
}
