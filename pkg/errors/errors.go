// Package errors defines the error taxonomy shared by services and handlers.
package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind string

const (
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindUnauthenticated    Kind = "Unauthenticated"
	KindForbidden          Kind = "Forbidden"
	KindInvalidInput       Kind = "InvalidInput"
	KindNotFound           Kind = "NotFound"
	KindConflict           Kind = "Conflict"
	KindInternal           Kind = "Internal"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindInvalidCredentials, KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidInput, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error. Code is the stable machine
// readable name reported to clients (e.g. "AssignmentNotFound").
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// New creates a classified error whose code is the kind itself.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Code: string(kind), Message: message}
}

// NewCode creates a classified error with a specific code.
func NewCode(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// WithMessage returns a copy of e carrying a more specific message. The copy
// still matches e under errors.Is.
func (e *Error) WithMessage(message string) error {
	return &detailed{msg: &Error{Kind: e.Kind, Code: e.Code, Message: message}, base: e}
}

type detailed struct {
	msg  *Error
	base *Error
}

func (d *detailed) Error() string { return d.msg.Message }

func (d *detailed) Unwrap() error { return d.base }

// As extracts the classified error from err's chain.
func As(err error) (*Error, bool) {
	var d *detailed
	if errors.As(err, &d) {
		return d.msg, true
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal when unclassified.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}
