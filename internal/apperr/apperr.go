// Package apperr defines the error taxonomy the service layer speaks and the
// HTTP layer maps to status codes. Background jobs log these and move on;
// request handlers surface them to the caller.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindForbidden         Kind = "forbidden"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindUpstream          Kind = "upstream_failure"
)

type Error struct {
	Kind    Kind
	Message string
	// CurrentState is populated for invalid transitions so the caller can
	// see what state the guard rejected against.
	CurrentState string
	Err          error
}

func (e *Error) Error() string {
	if e.CurrentState != "" {
		return fmt.Sprintf("%s: %s (current state: %s)", e.Kind, e.Message, e.CurrentState)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(message, currentState string) *Error {
	return &Error{Kind: KindInvalidTransition, Message: message, CurrentState: currentState}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Upstream(err error, format string, args ...any) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf(format, args...) + "; please retry", Err: err}
}

// KindOf returns the Kind of err, or empty when err is not an apperr.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
