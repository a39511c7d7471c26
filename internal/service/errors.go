package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed requests: missing required fields or
	// unknown enum values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced entity that is absent or soft-deleted.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks business-rule conflicts: unavailable entities,
	// disallowed state transitions, order-type/reference mismatches.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable marks infrastructure failures (transaction timeout,
	// lock wait exceeded, database down). Safe to retry.
	ErrUnavailable = errors.New("temporarily unavailable")
)

func invalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// InsufficientStockError is a Conflict specialization carrying how much stock
// is actually available for the requested line.
type InsufficientStockError struct {
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrConflict }
