package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies application errors so transport layers can map them to
// status codes without inspecting error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindInvalidOperation
	KindValidation
)

// Error carries a Kind alongside the message and an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound creates a not-found error.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Forbidden creates a forbidden error.
func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

// InvalidOperation creates an invalid-operation error (422-equivalent).
func InvalidOperation(msg string) error {
	return &Error{Kind: KindInvalidOperation, Msg: msg}
}

// Validation creates a validation error for malformed caller input.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// Invalidf creates an invalid-operation error with formatting.
func Invalidf(format string, args ...any) error {
	return &Error{Kind: KindInvalidOperation, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind from an error chain, KindUnknown if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether the error chain carries KindNotFound.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsForbidden reports whether the error chain carries KindForbidden.
func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}
