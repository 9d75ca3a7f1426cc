package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories, services and handlers. Callers
// classify failures with errors.Is/errors.As instead of matching message
// text.
var (
	// ErrNotFound signals that the requested record does not exist. It is
	// distinct from a transport failure.
	ErrNotFound = errors.New("record not found")

	// ErrHabitLimit is returned when creating a habit would exceed the
	// per-user cap.
	ErrHabitLimit = errors.New("habit limit reached")

	// ErrDuplicateEntry signals a completion already exists for the
	// (habit, date) pair. Marking complete twice is a benign no-op, so most
	// callers swallow this.
	ErrDuplicateEntry = errors.New("completion already recorded for this day")

	// ErrSubscriptionGone signals the push endpoint rejected delivery with a
	// gone/not-found status; the subscription is stale and should be removed.
	ErrSubscriptionGone = errors.New("push subscription gone")
)

// ValidationError describes input rejected before any I/O was attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
