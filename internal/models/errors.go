package models

import "errors"

// Error kinds. Every error returned by the services wraps exactly one of
// these so callers (HTTP, CLI) can classify failures with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrReserved        = errors.New("reserved")
	ErrLast            = errors.New("last remaining")
	ErrUnknownCategory = errors.New("unknown category")
	ErrCapacity        = errors.New("capacity exceeded")
	ErrConflict        = errors.New("conflict")
)

// Error is a domain error carrying its kind
type Error struct {
	Kind error
	Msg  string
}

// NewError creates a domain error of the given kind
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string {
	return e.Msg
}

// Unwrap exposes the kind to errors.Is
func (e *Error) Unwrap() error {
	return e.Kind
}

// KindOf returns the kind wrapped by err, or nil for unclassified errors
func KindOf(err error) error {
	for _, kind := range []error{
		ErrValidation, ErrNotFound, ErrReserved, ErrLast,
		ErrUnknownCategory, ErrCapacity, ErrConflict,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
