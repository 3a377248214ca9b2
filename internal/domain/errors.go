package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer. HTTP status is looked up by kind,
// never derived from the message text.
type Kind uint8

const (
	KindUnexpected Kind = iota
	KindAuthentication
	KindAuthorization
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// Error is a domain error tagged with a Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works for
// every NotFound error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Sentinels for errors.Is. They carry no message.
var (
	ErrUnauthenticated = &Error{Kind: KindAuthentication}
	ErrForbidden       = &Error{Kind: KindAuthorization}
	ErrInvalidInput    = &Error{Kind: KindValidation}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
)

// Constructors with a human readable message.
func Unauthenticated(format string, args ...any) error { return newf(KindAuthentication, format, args...) }
func Forbidden(format string, args ...any) error       { return newf(KindAuthorization, format, args...) }
func Validation(format string, args ...any) error      { return newf(KindValidation, format, args...) }
func NotFound(format string, args ...any) error        { return newf(KindNotFound, format, args...) }
func Conflict(format string, args ...any) error        { return newf(KindConflict, format, args...) }

// Wrap tags err with kind and a message.
func Wrap(kind Kind, err error, message string) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in the chain, KindUnexpected otherwise.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpected
}

// PublicMessage returns the message that may be shown to the caller. Unexpected errors
// are not echoed.
func PublicMessage(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != KindUnexpected {
		if de.Message != "" {
			return de.Message
		}
		return de.Kind.String()
	}
	return "internal error"
}
