// Package services defines the business logic for counter ingestion and stats
// queries. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"fmt"
)

// Query validation errors. They are always wrapped in a ValidationError that
// names the offending field.
var (
	// ErrInvalidOffset is returned when the UTC offset is outside [-12, 12].
	ErrInvalidOffset = errors.New("invalid offset")

	// ErrInvalidWeekday is returned when the weekday is outside [0, 6].
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrInvalidDates is returned for an inverted, too long, incomplete or
	// too early day range.
	ErrInvalidDates = errors.New("invalid dates")
)

// Resolution errors.
var (
	// ErrChatNotFound indicates that no chat matches the alias or public id.
	ErrChatNotFound = errors.New("chat not found")

	// ErrUserNotFound indicates that no user matches the public id.
	ErrUserNotFound = errors.New("user not found")
)

// Write session errors.
var (
	// ErrTransactionOpen is returned by Begin while a write session is open.
	ErrTransactionOpen = errors.New("write transaction already open")

	// ErrNoTransaction is returned when a mutation or Commit runs without an
	// open write session.
	ErrNoTransaction = errors.New("no write transaction open")
)

// ValidationError reports a rejected query parameter.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
