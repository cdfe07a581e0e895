package models

import (
	"errors"
	"fmt"
)

var (
	// ErrType matches any *TypeError via errors.Is.
	ErrType = errors.New("type error")
	// ErrValue matches any *ValueError via errors.Is.
	ErrValue = errors.New("value error")
)

// TypeError reports input that is not a numeric table, or a table entry that is
// not a number.
type TypeError struct {
	Op     string
	Reason string
}

func (e *TypeError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("type error: %s", e.Reason)
	}
	return fmt.Sprintf("%s: type error: %s", e.Op, e.Reason)
}

func (e *TypeError) Is(target error) bool { return target == ErrType }

// ValueError reports a well-formed table that violates a precondition of the
// operation, e.g. a negative reading passed to PatientNormalise.
type ValueError struct {
	Op     string
	Reason string
}

func (e *ValueError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("value error: %s", e.Reason)
	}
	return fmt.Sprintf("%s: value error: %s", e.Op, e.Reason)
}

func (e *ValueError) Is(target error) bool { return target == ErrValue }

func typeErrorf(op, format string, args ...any) error {
	return &TypeError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

func valueErrorf(op, format string, args ...any) error {
	return &ValueError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
