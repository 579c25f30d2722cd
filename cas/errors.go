package cas

import (
	"errors"
	"fmt"
)

// ErrNoClosedForm is returned when a routine cannot produce a symbolic answer.
var ErrNoClosedForm = errors.New("no closed form")

// MathError is a domain failure raised by the kernel: division by zero, dimension
// mismatch, a divergent integral and the like.
type MathError struct {
	Msg string
	Err error
}

func (e *MathError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *MathError) Unwrap() error { return e.Err }

func mathErrorf(format string, args ...any) *MathError {
	return &MathError{Msg: fmt.Sprintf(format, args...)}
}

func noClosedForm(format string, args ...any) *MathError {
	return &MathError{Msg: fmt.Sprintf(format, args...), Err: ErrNoClosedForm}
}

// BindError reports that arguments do not fit an operation's signature: wrong arity,
// an unknown keyword, or an argument of the wrong kind. It never means the operation
// itself failed.
type BindError struct {
	Op  string
	Msg string
}

func (e *BindError) Error() string { return e.Op + "() " + e.Msg }

func bindErrorf(op, format string, args ...any) *BindError {
	return &BindError{Op: op, Msg: fmt.Sprintf(format, args...)}
}
