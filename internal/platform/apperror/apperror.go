// Package apperror defines the error kinds shared by the domain, application
// and transport layers of the booking service.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindInvalid      Kind = "invalid"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInvalidState Kind = "invalid_state"
)

// Error is a classified domain error.
type Error struct {
	Kind    Kind
	Message string
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// NewNotFoundError returns a not-found error for the given entity.
func NewNotFoundError(entity, id string) *Error {
	return New(KindNotFound, fmt.Sprintf("%s not found: %s", entity, id))
}

// NewConflictError returns a conflict error.
func NewConflictError(message string) *Error {
	return New(KindConflict, message)
}

// KindOf reports the kind of err, if err wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}
