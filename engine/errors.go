package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification. Every error returned by Compute
// is an *Error that matches exactly one of these with errors.Is.
var (
	// ErrParse indicates that the expression or an argument string is not
	// valid syntax, or references a name outside the vocabulary.
	ErrParse = errors.New("parse error")

	// ErrMissingParameter indicates that a fast-path task's required field
	// is absent.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrNoSolveTarget indicates a solve request with no unknown to solve for.
	ErrNoSolveTarget = errors.New("no solve target")

	// ErrNotAMatrix indicates a matrix task applied to a non-matrix value.
	ErrNotAMatrix = errors.New("not a matrix")

	// ErrUnsupportedOperation indicates that the task name resolved to
	// nothing invocable.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrInvocationFailed indicates that every calling convention failed to
	// bind.
	ErrInvocationFailed = errors.New("invocation failed")

	// ErrComputation indicates a domain-level failure inside the library.
	ErrComputation = errors.New("computation error")

	// ErrInvalidRequest indicates a request that fails schema validation.
	ErrInvalidRequest = errors.New("invalid request")
)

// Kind classifies an Error.
type Kind int

const (
	KindParse Kind = iota + 1
	KindMissingParameter
	KindNoSolveTarget
	KindNotAMatrix
	KindUnsupportedOperation
	KindInvocationFailed
	KindComputation
	KindInvalidRequest
)

var kindNames = map[Kind]string{
	KindParse:                "ParseError",
	KindMissingParameter:     "MissingParameter",
	KindNoSolveTarget:        "NoSolveTarget",
	KindNotAMatrix:           "NotAMatrix",
	KindUnsupportedOperation: "UnsupportedOperation",
	KindInvocationFailed:     "InvocationFailed",
	KindComputation:          "ComputationError",
	KindInvalidRequest:       "InvalidRequest",
}

var kindSentinels = map[Kind]error{
	KindParse:                ErrParse,
	KindMissingParameter:     ErrMissingParameter,
	KindNoSolveTarget:        ErrNoSolveTarget,
	KindNotAMatrix:           ErrNotAMatrix,
	KindUnsupportedOperation: ErrUnsupportedOperation,
	KindInvocationFailed:     ErrInvocationFailed,
	KindComputation:          ErrComputation,
	KindInvalidRequest:       ErrInvalidRequest,
}

// String returns the wire name of the kind, e.g. "ParseError".
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the engine's error type.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Message describes the failure without the kind prefix.
	Message string

	// Err is the underlying cause, if any. For KindInvocationFailed it is
	// the last bind failure.
	Err error
}

// Error returns "<Kind>: <message>", the format used for batch failures.
func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// asError classifies an arbitrary failure. Errors that already carry a kind
// pass through; anything else raised by the library is a computation error.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindComputation, Message: err.Error(), Err: err}
}
