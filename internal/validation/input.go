package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/dailyq/internal/constants"
	apperr "github.com/julianstephens/dailyq/internal/errors"
	"github.com/julianstephens/dailyq/internal/utils"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return utils.ValidateTimeFormat(fl.Field().String())
		})
		_ = validate.RegisterValidation("qtype", func(fl validator.FieldLevel) bool {
			return IsQuestionType(constants.QuestionType(fl.Field().String()))
		})
		validate.RegisterAlias("password", fmt.Sprintf("required,min=%d,max=%d",
			constants.MinPasswordLength, constants.MaxPasswordLength))
	})
	return validate
}

// SignUpRequest is the input accepted when creating an account.
type SignUpRequest struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"password"`
	DisplayName string `validate:"max=100"`
}

// QuestionRequest is the input accepted when adding a question.
type QuestionRequest struct {
	Text string                 `validate:"required,max=500"`
	Type constants.QuestionType `validate:"required,qtype"`
}

// Struct validates s against its struct tags. Failures wrap ErrInvalidInput
// and name every offending field.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validation unexpected error: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperr.Invalid("%s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	// ActualTag resolves aliases such as "password" to the failing rule
	switch fe.ActualTag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "hhmm":
		return field + " must be in HH:MM format"
	case "qtype":
		return fmt.Sprintf("%s must be one of toggle, numeric, text", field)
	default:
		return fmt.Sprintf("%s failed %s check", field, fe.Tag())
	}
}

func IsQuestionType(t constants.QuestionType) bool {
	switch t {
	case constants.QuestionToggle, constants.QuestionNumeric, constants.QuestionText:
		return true
	}
	return false
}

// QuestionType returns ErrInvalidInput for anything but toggle, numeric or text.
func QuestionType(t constants.QuestionType) error {
	if !IsQuestionType(t) {
		return apperr.Invalid("unknown question type %q (expected toggle, numeric or text)", t)
	}
	return nil
}

// Date requires a YYYY-MM-DD calendar date.
func Date(s string) error {
	if !utils.ValidateDate(s) {
		return apperr.Invalid("date %q must be in YYYY-MM-DD format", s)
	}
	return nil
}

// PasswordRequest is the input accepted when replacing a password.
type PasswordRequest struct {
	Password string `validate:"password"`
}
