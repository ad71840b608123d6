package models

import (
	"time"

	"github.com/julianstephens/dailyq/internal/constants"
)

type Question struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	Text       string                 `json:"text"`
	Type       constants.QuestionType `json:"type"`
	Order      int                    `json:"order"` // display position, ascending; gaps allowed
	IsArchived bool                   `json:"is_archived"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// QuestionUpdate is a partial update. Nil fields are left untouched.
type QuestionUpdate struct {
	Text       *string
	Type       *constants.QuestionType
	Order      *int
	IsArchived *bool
}

func (u QuestionUpdate) IsEmpty() bool {
	return u.Text == nil && u.Type == nil && u.Order == nil && u.IsArchived == nil
}

// ActiveQuestions filters out archived questions, preserving order.
func ActiveQuestions(questions []Question) []Question {
	active := make([]Question, 0, len(questions))
	for _, q := range questions {
		if !q.IsArchived {
			active = append(active, q)
		}
	}
	return active
}
