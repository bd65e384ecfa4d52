// Package studyerr defines the error kinds returned by the ratio study engines.
//
// Every failure is reported synchronously as an *Error carrying a Kind.
// Callers match kinds with errors.Is against the exported sentinels:
//
//	if errors.Is(err, studyerr.ErrInvalidSample) {
//	    // malformed input: length mismatch, empty, non-positive values
//	}
package studyerr

import (
	"errors"
	"fmt"
)

// Kind classifies a ratio study failure.
type Kind string

const (
	// InvalidSample is malformed or missing input.
	InvalidSample Kind = "INVALID_SAMPLE"
	// InsufficientSample is valid input that is too small for a statistic.
	InsufficientSample Kind = "INSUFFICIENT_SAMPLE"
	// DegenerateSample is input for which a statistic is mathematically undefined.
	DegenerateSample Kind = "DEGENERATE_SAMPLE"
	// Configuration is an out-of-range option.
	Configuration Kind = "CONFIGURATION"
)

// Sentinels for errors.Is matching. They compare by Kind only.
var (
	ErrInvalidSample      = &Error{Kind: InvalidSample, Message: "invalid sample"}
	ErrInsufficientSample = &Error{Kind: InsufficientSample, Message: "insufficient sample"}
	ErrDegenerateSample   = &Error{Kind: DegenerateSample, Message: "degenerate sample"}
	ErrConfiguration      = &Error{Kind: Configuration, Message: "invalid configuration"}
)

// Error is a ratio study error.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "sample.New"
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

// Unwrap allows errors.Is and errors.As to reach the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Invalid returns an InvalidSample error.
func Invalid(op, format string, args ...any) *Error {
	return newf(InvalidSample, op, format, args...)
}

// Insufficient returns an InsufficientSample error.
func Insufficient(op, format string, args ...any) *Error {
	return newf(InsufficientSample, op, format, args...)
}

// Degenerate returns a DegenerateSample error.
func Degenerate(op, format string, args ...any) *Error {
	return newf(DegenerateSample, op, format, args...)
}

// Config returns a Configuration error.
func Config(op, format string, args ...any) *Error {
	return newf(Configuration, op, format, args...)
}

// Wrap annotates err with op. The Kind of an existing *Error is preserved;
// any other error becomes an InvalidSample error with err as its cause.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		if se.Op != "" {
			op = op + ": " + se.Op
		}
		return &Error{Kind: se.Kind, Op: op, Message: se.Message, Cause: se.Cause}
	}
	return &Error{Kind: InvalidSample, Op: op, Message: "unexpected failure", Cause: err}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
