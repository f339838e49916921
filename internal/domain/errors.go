package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every typed error below unwraps to exactly one of these, so
// callers can branch with errors.Is without caring about the concrete type.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrIndex      = errors.New("index out of range")
	ErrState      = errors.New("invalid state transition")
)

// NotFoundError reports a missing plan, day, exercise or session.
type NotFoundError struct {
	Entity string // e.g. "routine", "routine day", "exercise"
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError reports a structural violation. Cause, when set, carries
// the individual violations (usually a multierr combination).
type ValidationError struct {
	Reason string
	Cause  error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation failed: %s: %v", e.Reason, e.Cause)
	}
	return "validation failed: " + e.Reason
}

func (e *ValidationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrValidation, e.Cause}
	}
	return []error{ErrValidation}
}

// IndexError is a caller-contract bug: an exercise or set index outside the
// session's bounds.
type IndexError struct {
	What  string // "exercise" or "set"
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.What, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndex }

// StateError reports an invalid timer transition such as pausing while idle.
type StateError struct {
	Op   string
	From string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Op, e.From)
}

func (e *StateError) Unwrap() error { return ErrState }

// NewValidationError is shorthand for a cause-less ValidationError.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
