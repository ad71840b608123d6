package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/dailyq/internal/logger"
)

var (
	// ErrDuplicateAccount is returned when signing up with an email that is already registered
	ErrDuplicateAccount = stderrors.New("an account with this email already exists")
	// ErrNotFound is returned when a user, question or answer does not exist
	ErrNotFound = stderrors.New("not found")
	// ErrInvalidCredential is returned when a password does not match the stored credential
	ErrInvalidCredential = stderrors.New("invalid credentials")
	// ErrStorage matches every *StorageError
	ErrStorage = stderrors.New("storage error")
	// ErrNotInitialized is returned when an operation needs a signed-in session
	ErrNotInitialized = stderrors.New("no active session, run 'dailyq signin' first")
	// ErrInvalidInput is returned when caller supplied data fails validation
	ErrInvalidInput = stderrors.New("invalid input")
)

// StorageError wraps an I/O or constraint failure from the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Storage wraps err as a *StorageError for op. A nil err stays nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// NotFound returns ErrNotFound annotated with what was missing.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Invalid returns ErrInvalidInput annotated with the reason.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}

// Is and As are re-exported so callers need only one errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
