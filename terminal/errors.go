package terminal

import (
	"errors"
	"fmt"
)

// ErrorKind classifies backend construction failures
type ErrorKind uint8

const (
	InvalidParameter ErrorKind = iota
	Unsupported
	InitializationFailure
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidParameter:
		return "invalid parameter"
	case Unsupported:
		return "unsupported"
	case InitializationFailure:
		return "initialization failure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// Error is returned by New and by backend constructors
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("terminal: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("terminal: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrInvalidParameter      = &Error{Kind: InvalidParameter}
	ErrUnsupported           = &Error{Kind: Unsupported}
	ErrInitializationFailure = &Error{Kind: InitializationFailure}
)

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}
