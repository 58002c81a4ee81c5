package core

import "github.com/pkg/errors"

// Kind classifies an error so callers can decide how to surface it.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindInvalidState
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindNotFound:
		return "not found"
	case KindInvalidState:
		return "invalid state"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is a classified error. Sentinels are compared by identity with errors.Is.
type Error struct {
	Kind    Kind
	Message string
}

func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func (err *Error) Error() string {
	return err.Message
}

var (
	ErrConflict     = NewError(KindConflict, "the record was modified concurrently, please retry")
	ErrUnauthorized = NewError(KindUnauthorized, "access denied")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is always of KindInvalidInput.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return KindInvalidInput.String()
	}
	return err.Err.Error()
}

// KindOf walks the error chain and reports the Kind of the first classified error.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.Kind
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return KindInvalidInput
	}
	return KindUnknown
}

func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsInvalidInput(err error) bool { return KindOf(err) == KindInvalidInput }
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
