package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage error")
)

// AppError is the application's error type. Handlers map the wrapped sentinel
// to an HTTP status; Message is safe to show to the user. Fields is populated
// only for validation errors, mapping input field name → human-readable
// message so a form can display every problem at once.
type AppError struct {
	Err     error             // sentinel (ErrNotFound, ErrValidation, ...)
	Message string            // human-readable, user-safe message
	Fields  map[string]string // per-field validation messages (may be nil)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

// ValidationFailed wraps a per-field error map. The map is what JSON endpoints
// return as "field_errors" and what HTML forms render next to each input.
func ValidationFailed(fields map[string]string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Storage wraps an underlying database failure. The raw driver error stays in
// the chain for server-side logging; Message is the only text a user sees.
func Storage(message string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrStorage, err),
		Message: message,
	}
}
