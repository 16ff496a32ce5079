package app

import (
	"errors"
	"fmt"
)

// ErrorKind classifies application failures for the HTTP boundary.
type ErrorKind string

const (
	// ErrValidation covers malformed or missing input.
	ErrValidation ErrorKind = "validation"
	// ErrUnauthenticated covers missing, invalid, or expired tokens.
	ErrUnauthenticated ErrorKind = "unauthenticated"
	// ErrForbidden covers authenticated callers who do not own the resource
	// and are not admin.
	ErrForbidden ErrorKind = "forbidden"
	// ErrNotFound covers absent resources.
	ErrNotFound ErrorKind = "not_found"
	// ErrConflict covers uniqueness violations (email, site name). Reported
	// to clients with the same status as validation failures.
	ErrConflict ErrorKind = "conflict"
	// ErrInternal covers store failures and anything unclassified. The
	// message is never sent to clients verbatim.
	ErrInternal ErrorKind = "internal"
)

// Error is a classified application error with a client-safe message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Classify returns the kind of an error, defaulting to internal.
func Classify(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func unauthenticatedError() *Error {
	return &Error{Kind: ErrUnauthenticated, Message: "not authenticated"}
}

func forbiddenError() *Error {
	return &Error{Kind: ErrForbidden, Message: "unauthorized"}
}

func notFoundError(format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictError(format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func internalError(err error) error {
	return fmt.Errorf("internal: %w", err)
}
