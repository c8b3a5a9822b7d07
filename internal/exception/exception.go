// Package exception implements the interpreter's non-local control flow:
// the result-code protocol (ok, error, return, break, continue, and the
// open-ended "other(n)" codes reserved for host commands) that every
// command evaluation produces, plus the errorInfo/errorCode trace that
// accumulates as an error unwinds through nested command and procedure
// calls (§4.4 "Exception / result-code protocol").
package exception

import "github.com/tclforge/tcl/internal/value"

// Code is one of the interpreter's result codes.
type Code int

const (
	Ok Code = iota
	Error
	Return
	Break
	Continue
	Other
)

func (c Code) String() string {
	switch c {
	case Ok:
		return "ok"
	case Error:
		return "error"
	case Return:
		return "return"
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// ErrorData carries the errorCode/errorInfo trace that accompanies an
// Error exception as it propagates outward; it is populated lazily as
// each enclosing frame adds a line.
type ErrorData struct {
	ErrorCode *value.Value
	ErrorInfo string
}

// Exception is the non-local outcome of evaluating a command or script:
// which Code fired, the associated Value (a return value, an error
// message, a break/continue sentinel), and for Return/Other the extra
// level/code-number state needed to resolve the protocol as the
// exception unwinds (§4.4).
type Exception struct {
	Code      Code
	Value     *value.Value
	Level     int // Return: remaining frames before becoming NextCode; Other: the numeric code n
	NextCode  Code
	ErrorData *ErrorData
}

// Error implements the error interface so an *Exception can be returned
// directly from any Go function signature ending in error, letting
// native and host commands raise break/continue/return/other codes
// through an ordinary `return nil, exc` without a parallel return type.
func (e *Exception) Error() string {
	if e.Value != nil {
		return e.Value.String()
	}
	return e.Code.String()
}

// NewOk wraps v as a successful result.
func NewOk(v *value.Value) *Exception {
	return &Exception{Code: Ok, Value: v}
}

// NewError builds an Error exception from a plain message, seeding
// errorCode to the default "NONE" (§9, Open Question: default errorCode).
func NewError(msg string) *Exception {
	return &Exception{
		Code:  Error,
		Value: value.NewString(msg),
		ErrorData: &ErrorData{
			ErrorCode: value.NewString("NONE"),
		},
	}
}

// NewErrorValue is NewError for a message already held as a Value.
func NewErrorValue(v *value.Value) *Exception {
	return &Exception{
		Code:  Error,
		Value: v,
		ErrorData: &ErrorData{
			ErrorCode: value.NewString("NONE"),
		},
	}
}

// NewReturn builds a Return exception. level is the number of enclosing
// procedure-call frames the return must still pass through before it
// resolves to nextCode (ordinarily Ok); a plain `return` from a
// procedure body uses level 1.
func NewReturn(v *value.Value, level int, nextCode Code) *Exception {
	return &Exception{Code: Return, Value: v, Level: level, NextCode: nextCode}
}

// NewBreak builds a Break exception.
func NewBreak() *Exception {
	return &Exception{Code: Break, Value: value.Empty()}
}

// NewContinue builds a Continue exception.
func NewContinue() *Exception {
	return &Exception{Code: Continue, Value: value.Empty()}
}

// NewOther builds an "other(n)" exception for a host-defined result
// code outside the five built-in ones.
func NewOther(n int, v *value.Value) *Exception {
	return &Exception{Code: Other, Value: v, Level: n}
}

// IsNewError reports whether e is an Error exception that has not yet
// had any errorInfo trace line attached — the case right at the point
// the error was raised, before any enclosing frame has annotated it.
func IsNewError(e *Exception) bool {
	return e.Code == Error && e.ErrorData != nil && e.ErrorData.ErrorInfo == ""
}

// AddErrorInfo appends one line of trace to e's errorInfo; callers
// supply their own leading indentation (conventionally four spaces) so
// that a "while executing" line and its quoted command text line up.
// It is a no-op on anything but an Error exception. The first call
// seeds errorInfo with the error message itself, matching how errorInfo
// is built incrementally as the error unwinds the call stack.
func (e *Exception) AddErrorInfo(frame string) {
	if e.Code != Error {
		return
	}
	if e.ErrorData == nil {
		e.ErrorData = &ErrorData{ErrorCode: value.NewString("NONE")}
	}
	if e.ErrorData.ErrorInfo == "" {
		e.ErrorData.ErrorInfo = e.Value.String()
	}
	e.ErrorData.ErrorInfo += "\n" + frame
}

// SetErrorCode overrides e's errorCode; a no-op on anything but an
// Error exception.
func (e *Exception) SetErrorCode(code *value.Value) {
	if e.Code != Error {
		return
	}
	if e.ErrorData == nil {
		e.ErrorData = &ErrorData{}
	}
	e.ErrorData.ErrorCode = code
}

// StepReturnLevel applies one frame of the return-level decrement
// protocol: Level is reduced by one, and once it reaches zero the
// exception's Code becomes its NextCode (ordinarily Ok), carrying the
// same Value forward. Exceptions other than Return pass through
// unchanged.
func StepReturnLevel(e *Exception) *Exception {
	if e.Code != Return {
		return e
	}
	if e.Level > 1 {
		return &Exception{Code: Return, Value: e.Value, Level: e.Level - 1, NextCode: e.NextCode}
	}
	next := &Exception{Code: e.NextCode, Value: e.Value}
	if next.Code == Error {
		next.ErrorData = &ErrorData{ErrorCode: value.NewString("NONE")}
	}
	return next
}
