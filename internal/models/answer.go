package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/dailyq/internal/constants"
	apperr "github.com/julianstephens/dailyq/internal/errors"
)

type Answer struct {
	ID         string      `json:"id"`
	QuestionID string      `json:"question_id"`
	UserID     string      `json:"user_id"`
	Date       string      `json:"date"` // YYYY-MM-DD, local calendar day
	Value      AnswerValue `json:"value"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ValueKind identifies which field of an AnswerValue is set.
type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindBool
	KindNumber
	KindText
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "invalid"
	}
}

// AnswerValue holds a boolean, number or string. It encodes to the bare JSON
// scalar, which is also the form stored in the database.
type AnswerValue struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	Text   string
}

func BoolValue(b bool) AnswerValue { return AnswerValue{Kind: KindBool, Bool: b} }
func NumberValue(n float64) AnswerValue { return AnswerValue{Kind: KindNumber, Number: n} }
func TextValue(s string) AnswerValue { return AnswerValue{Kind: KindText, Text: s} }

// Matches reports whether the value kind is the one a question type accepts.
func (v AnswerValue) Matches(t constants.QuestionType) bool {
	switch t {
	case constants.QuestionToggle:
		return v.Kind == KindBool
	case constants.QuestionNumeric:
		// JSON has no encoding for NaN or the infinities
		return v.Kind == KindNumber && !math.IsNaN(v.Number) && !math.IsInf(v.Number, 0)
	case constants.QuestionText:
		return v.Kind == KindText
	default:
		return false
	}
}

func (v AnswerValue) String() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "yes"
		}
		return "no"
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindText:
		return v.Text
	default:
		return ""
	}
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNumber:
		return json.Marshal(v.Number)
	case KindText:
		return json.Marshal(v.Text)
	default:
		return nil, fmt.Errorf("cannot encode answer value of kind %s", v.Kind)
	}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty answer value")
	}
	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("parsing boolean answer: %w", err)
		}
		*v = BoolValue(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parsing text answer: %w", err)
		}
		*v = TextValue(s)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("parsing numeric answer: %w", err)
		}
		*v = NumberValue(n)
	}
	return nil
}

// ParseAnswerValue converts raw user input into a value of the kind the
// question type expects.
func ParseAnswerValue(t constants.QuestionType, raw string) (AnswerValue, error) {
	switch t {
	case constants.QuestionToggle:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "y", "yes", "true", "1", "on":
			return BoolValue(true), nil
		case "n", "no", "false", "0", "off":
			return BoolValue(false), nil
		}
		return AnswerValue{}, apperr.Invalid("invalid toggle answer %q (expected yes or no)", raw)
	case constants.QuestionNumeric:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return AnswerValue{}, apperr.Invalid("invalid numeric answer %q (expected a finite number)", raw)
		}
		return NumberValue(n), nil
	case constants.QuestionText:
		return TextValue(raw), nil
	default:
		return AnswerValue{}, apperr.Invalid("unknown question type %q", t)
	}
}
