package app

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindForbidden  Kind = "forbidden"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindStorage    Kind = "storage"
)

// Error is the failure type every service operation returns. Msg is safe to
// show to the caller; Err is the internal cause, if any.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func ValidationError(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }
func AuthError(msg string) error       { return &Error{Kind: KindAuth, Msg: msg} }
func ForbiddenError(msg string) error  { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFoundError(msg string) error   { return &Error{Kind: KindNotFound, Msg: msg} }
func ConflictError(msg string) error   { return &Error{Kind: KindConflict, Msg: msg} }

func StorageError(msg string, err error) error {
	return &Error{Kind: KindStorage, Msg: msg, Err: err}
}

// KindOf reports the kind of err; anything that is not an *Error is storage.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// Message returns the caller-facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "Error interno del servidor"
}
