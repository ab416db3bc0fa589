// Package errors wraps github.com/pkg/errors and defines the error taxonomy
// shared by the Boolean function engines.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// New creates a new error based on message. Wrapped so that this package does
// not appear in the stack trace.
var New = errors.New

// Errorf creates an error based on a format string and values.
var Errorf = errors.Errorf

// Wrap wraps an error retrieved from outside of dahu (file system, encoders).
var Wrap = errors.Wrap

// Wrapf returns an error annotating err with the format specifier. If err is
// nil, Wrapf returns nil.
var Wrapf = errors.Wrapf

// WithStack annotates err with a stack trace at the point WithStack was called.
var WithStack = errors.WithStack

// As finds the first error in err's tree that matches target.
func As(err error, tgt interface{}) bool { return stderrors.As(err, tgt) }

// Is reports whether any error in err's tree matches target.
func Is(x, y error) bool { return stderrors.Is(x, y) }

// Join returns an error wrapping every non-nil error of errs.
func Join(errs ...error) error { return stderrors.Join(errs...) }

// StateNotReadyError is returned when a representation is read, or a check is
// run, while the representation it depends on is stale. Callers must run the
// matching Update method first.
type StateNotReadyError struct {
	Op   string
	Repr string
}

func (e *StateNotReadyError) Error() string {
	return fmt.Sprintf("%s: %s is not up to date", e.Op, e.Repr)
}

// NotReady returns a *StateNotReadyError with a stack attached.
func NotReady(op, repr string) error {
	return errors.WithStack(&StateNotReadyError{Op: op, Repr: repr})
}

// InvalidArgumentError reports a shape or domain mismatch: wrong vector
// length, a non-bit value, a permutation that is not a bijection.
type InvalidArgumentError struct {
	Arg    string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Arg, e.Reason)
}

// InvalidArgument returns a *InvalidArgumentError with a formatted reason.
func InvalidArgument(arg, format string, args ...interface{}) error {
	return errors.WithStack(&InvalidArgumentError{Arg: arg, Reason: fmt.Sprintf(format, args...)})
}

// UnsupportedConversionError is returned when no conversion path leads from a
// fresh representation to the requested one.
type UnsupportedConversionError struct {
	From string
	To   string
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("no conversion path from %s to %s", e.From, e.To)
}

// Unsupported returns a *UnsupportedConversionError with a stack attached.
func Unsupported(from, to string) error {
	return errors.WithStack(&UnsupportedConversionError{From: from, To: to})
}

// IsNotReady reports whether err is a StateNotReadyError.
func IsNotReady(err error) bool {
	var e *StateNotReadyError
	return As(err, &e)
}

// IsInvalidArgument reports whether err is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var e *InvalidArgumentError
	return As(err, &e)
}

// IsUnsupported reports whether err is an UnsupportedConversionError.
func IsUnsupported(err error) bool {
	var e *UnsupportedConversionError
	return As(err, &e)
}
