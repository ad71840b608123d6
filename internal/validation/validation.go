package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/utils"
)

// ConflictType represents the type of integrity problem found in stored data
type ConflictType string

const (
	ConflictDuplicateQuestion   ConflictType = "duplicate_question"
	ConflictInvalidQuestionType ConflictType = "invalid_question_type"
	ConflictEmptyQuestion       ConflictType = "empty_question"
	ConflictOrphanAnswer        ConflictType = "orphan_answer"
	ConflictAnswerKindMismatch  ConflictType = "answer_kind_mismatch"
	ConflictInvalidDate         ConflictType = "invalid_date"
	ConflictInvalidReminderTime ConflictType = "invalid_reminder_time"
)

// Conflict represents a detected problem in a user's questions or answers
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Question texts involved
	IDs         []string // IDs of the rows involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Warnings returns the conflicts that are informational only. A numeric answer
// left behind on a question that later became a toggle is expected history.
func (vr *ValidationResult) Warnings() []Conflict {
	var out []Conflict
	for _, c := range vr.Conflicts {
		if c.Type == ConflictAnswerKindMismatch {
			out = append(out, c)
		}
	}
	return out
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks a user's stored reflection data for integrity problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateUser checks profile fields that were not written through the service.
func (v *Validator) ValidateUser(user models.User) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	if user.ReminderTime != "" && !utils.ValidateTimeFormat(user.ReminderTime) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidReminderTime,
			Description: fmt.Sprintf("Reminder time %q is not in HH:MM format", user.ReminderTime),
			IDs:         []string{user.ID},
		})
	}
	return result
}

// ValidateQuestions checks for duplicate active texts and unknown types.
func (v *Validator) ValidateQuestions(questions []models.Question) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	textIDs := make(map[string][]string)
	for _, q := range questions {
		if !IsQuestionType(q.Type) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidQuestionType,
				Description: fmt.Sprintf("Question %q has unknown type %q", q.Text, q.Type),
				Items:       []string{q.Text},
				IDs:         []string{q.ID},
			})
		}
		text := strings.TrimSpace(q.Text)
		if text == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyQuestion,
				Description: fmt.Sprintf("Question %s has empty text", q.ID),
				IDs:         []string{q.ID},
			})
			continue
		}
		// Archived duplicates are harmless
		if q.IsArchived {
			continue
		}
		key := strings.ToLower(text)
		textIDs[key] = append(textIDs[key], q.ID)
	}

	keys := make([]string, 0, len(textIDs))
	for k := range textIDs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if ids := textIDs[k]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateQuestion,
				Description: fmt.Sprintf("Duplicate active question: %q (IDs: %v)", k, ids),
				Items:       []string{k},
				IDs:         ids,
			})
		}
	}

	return result
}

// ValidateAnswers checks answers against the questions they belong to.
func (v *Validator) ValidateAnswers(questions []models.Question, answers []models.Answer) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	for _, a := range answers {
		if !utils.ValidateDate(a.Date) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Answer %s has invalid date %q", a.ID, a.Date),
				Date:        a.Date,
				IDs:         []string{a.ID},
			})
		}

		q, ok := byID[a.QuestionID]
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanAnswer,
				Description: fmt.Sprintf("Answer %s on %s references missing question %s", a.ID, a.Date, a.QuestionID),
				Date:        a.Date,
				IDs:         []string{a.ID},
			})
			continue
		}

		if !a.Value.Matches(q.Type) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictAnswerKindMismatch,
				Description: fmt.Sprintf("Answer on %s to %q is a %s but the question is now %s", a.Date, q.Text, a.Value.Kind, q.Type),
				Date:        a.Date,
				Items:       []string{q.Text},
				IDs:         []string{a.ID, q.ID},
			})
		}
	}

	return result
}

// ValidateAll runs every check and merges the results.
func (v *Validator) ValidateAll(user models.User, questions []models.Question, answers []models.Answer) ValidationResult {
	result := v.ValidateUser(user)
	result.Conflicts = append(result.Conflicts, v.ValidateQuestions(questions).Conflicts...)
	result.Conflicts = append(result.Conflicts, v.ValidateAnswers(questions, answers).Conflicts...)
	return result
}
