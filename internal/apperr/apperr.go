// Package apperr defines the error kinds returned by the service layer.
// Handlers map a kind to an HTTP status, everything else treats errors
// as opaque.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Internal Kind = iota
	BadRequest
	Unauthorized
	Forbidden
	NotFound
	Conflict
)

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a failure with a kind and a message that is safe to show to
// the caller. Err holds the underlying cause, if any, for logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Message: msg}
}

func NewBadRequest(msg string) *Error   { return New(BadRequest, msg) }
func NewUnauthorized(msg string) *Error { return New(Unauthorized, msg) }
func NewForbidden(msg string) *Error    { return New(Forbidden, msg) }
func NewNotFound(msg string) *Error     { return New(NotFound, msg) }
func NewConflict(msg string) *Error     { return New(Conflict, msg) }

// Wrap marks err as an internal failure. msg describes what was being
// attempted and is only used in logs.
func Wrap(err error, msg string) *Error {
	return &Error{Kind: Internal, Message: msg, Err: err}
}

// KindOf returns the kind of err. Errors that were never tagged are
// treated as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Internal
}

// Message returns the caller-facing message of err. Internal failures
// never expose their message.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}

	return "Internal server error"
}
