package ledger

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the Engine for a rejected request
// wraps exactly one of these; anything else is an internal failure.
var (
	ErrValidation    = errors.New("ledger: validation failed")
	ErrAuthorization = errors.New("ledger: not authorized")
	ErrNotFound      = errors.New("ledger: not found")
	ErrConflict      = errors.New("ledger: conflict")
)

// Error is a rejected request with a caller-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap makes errors.Is(err, ErrConflict) and friends work.
func (e *Error) Unwrap() error {
	return e.Kind
}

func validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(format string, args ...any) error {
	return &Error{Kind: ErrAuthorization, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// KindName returns the metric label for err: "validation", "authorization",
// "not_found", "conflict", or "internal".
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrAuthorization):
		return "authorization"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
