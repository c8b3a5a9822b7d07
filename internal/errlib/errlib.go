// Package errlib bridges ordinary Go errors to the interpreter's
// exception.Exception protocol at the boundary crossed by native and
// host command functions: a command implemented in Go may simply
// return a wrapped error the way any other Go code would, and the
// evaluator converts it to a well-formed Error exception without the
// command author having to construct one by hand (§10 "Ambient stack:
// error handling").
package errlib

import (
	"github.com/pkg/errors"

	"github.com/tclforge/tcl/internal/exception"
)

// ToException converts err, returned from a command function, into an
// *exception.Exception. An error that is already an Exception (the case
// for break/continue/return and for errors already raised through this
// package) is returned unchanged so its Code and ErrorData survive;
// anything else becomes a fresh Error exception carrying err's message.
func ToException(err error) *exception.Exception {
	if err == nil {
		return nil
	}
	if exc, ok := err.(*exception.Exception); ok {
		return exc
	}
	return exception.NewError(err.Error())
}

// Errorf builds a *exception.Exception directly from a format string.
// The message is formatted through pkg/errors, but only its rendered
// text is kept: the Exception does not retain the pkg/errors value or
// its stack trace.
func Errorf(format string, args ...any) *exception.Exception {
	return exception.NewError(errors.Errorf(format, args...).Error())
}

// Wrapf is Errorf for wrapping an existing error with additional
// context, mirroring the wrap idiom the rest of the corpus uses for
// Go-level errors crossing a package boundary.
func Wrapf(err error, format string, args ...any) *exception.Exception {
	if err == nil {
		return nil
	}
	return exception.NewError(errors.Wrapf(err, format, args...).Error())
}
