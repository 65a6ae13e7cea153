// Package apierr defines the API error taxonomy and the single
// translator that maps error kinds onto HTTP responses.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API error.
type Kind int

// Error kinds in order of increasing severity.
const (
	// KindInvalidArgument marks malformed pagination or filter input.
	KindInvalidArgument Kind = iota
	// KindUnauthorized marks a missing, invalid or expired token.
	KindUnauthorized
	// KindForbidden marks a valid principal lacking a permission.
	KindForbidden
	// KindNotFound marks an identifier that resolves to nothing.
	KindNotFound
	// KindConflict marks a uniqueness violation on create.
	KindConflict
	// KindInternal marks storage or unexpected failures.
	KindInternal
)

// genericInternalMessage is returned for internal errors so no detail
// leaks to the client.
const genericInternalMessage = "Something went wrong"

// Error is an API error carrying a kind and a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// New creates an API error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an API error wrapping an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Convenience constructors for the common kinds.
func InvalidArgument(message string) *Error { return New(KindInvalidArgument, message) }
func Unauthorized(message string) *Error    { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }
func Internal(cause error) *Error {
	return Wrap(KindInternal, genericInternalMessage, cause)
}

// StatusCode maps a kind to its HTTP status code.
func (k Kind) StatusCode() int {
	switch k {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Translate maps any error onto an API error. Unknown errors become
// internal errors with the generic message.
func Translate(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}
