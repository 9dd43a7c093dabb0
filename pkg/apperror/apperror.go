// Package apperror holds the error taxonomy shared by services and HTTP handlers.
// Every client-visible message comes from the catalog below.
package apperror

import (
	"errors"
	"net/http"
)

// Message catalog
const (
	MsgBadRequest         = "Invalid request data"
	MsgNotFound           = "Resource not found"
	MsgServerError        = "Internal server error"
	MsgUnauthorized       = "Authorization required"
	MsgForbidden          = "No permission"
	MsgConflictEmail      = "Email is already used"
	MsgWrongCredentials   = "wrong email or password"
	MsgCredentialsMissing = "Email and password are required"
	MsgInvalidEmail       = "Invalid Email"
	MsgUserNotFound       = "User not found"
	MsgBookNotFound       = "Book not found"
	MsgBookNotInList      = "Book is not in the list"
	MsgValidationFailed   = "Validation failed"
	MsgInvalidID          = "Invalid identifier"
	MsgRateLimited        = "Rate limit exceeded, please try again later."
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindConflict
	KindNotFound
)

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithDetails attaches client-visible details (e.g. per-field validation messages).
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// Wrap records the underlying cause. The cause is logged, never sent to clients.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func BadRequest(msg string) *Error   { return New(KindBadRequest, msg) }
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }
func Forbidden(msg string) *Error    { return New(KindForbidden, msg) }
func Conflict(msg string) *Error     { return New(KindConflict, msg) }
func NotFound(msg string) *Error     { return New(KindNotFound, msg) }

// Internal wraps an unexpected fault behind the generic message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgServerError, Err: err}
}

// From returns err as an *Error, treating anything unknown as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
