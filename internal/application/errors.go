package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both truly absent records and records owned by
	// another user. Ownership misses are never reported as forbidden so
	// the existence of other users' records is not disclosed.
	ErrNotFound = errors.New("not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")

	// ErrQueueUnavailable means the notification enqueue could not reach
	// the queue backend. The mutation itself has already committed.
	ErrQueueUnavailable = errors.New("notification queue unavailable")
)

// ValidationError rejects malformed input before any state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
