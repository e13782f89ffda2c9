// Package apperr defines the domain error taxonomy shared across layers.
// Repositories return these; the API layer alone maps them to status codes.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrSlugTaken     = errors.New("slug already in use")
	ErrSlotFull      = errors.New("slot is full")
	ErrAlreadyBooked = errors.New("already booked")
	ErrTimeout       = errors.New("store timeout")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// Validation builds a ValidationError for a required field.
func Validation(field string) error {
	return &ValidationError{Field: field}
}

// Validationf builds a ValidationError with an explicit message.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
