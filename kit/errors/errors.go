package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error codes shared by the compiler, the expression nodes and the
// built-in functions. Automated handlers switch on these codes; the
// human-readable text lives in the error message.
const (
	EInternal        = "internal error"
	ECompile         = "compile error"
	ETypeMismatch    = "type mismatch"
	EConversion      = "conversion error"
	EGrammarMismatch = "grammar mismatch"
	EParse           = "parse error"
	EFunctionCall    = "function call error"
)

// Error is the error envelope of the remap engine.
//
// Errors may have error codes, human-readable messages,
// and a logical stack trace.
//
// The Code targets automated handlers so that recovery can occur.
// Msg is used by the operator to help diagnose and fix the problem.
// Op and Err chain errors together in a logical stack trace to
// further help operators.
//
// To report a failure raised inside a built-in function,
//
//	&Error{
//	    Code: EFunctionCall,
//	    Msg:  "function call error",
//	    Op:   "join",
//	    Err:  err,
//	}
type Error struct {
	Code string
	Msg  string
	Op   string
	Err  error
}

// NewError returns an instance of an error.
func NewError(options ...func(*Error)) *Error {
	err := &Error{}
	for _, o := range options {
		o(err)
	}

	return err
}

// WithErrorErr sets the err on the error.
func WithErrorErr(err error) func(*Error) {
	return func(e *Error) {
		e.Err = err
	}
}

// WithErrorCode sets the code on the error.
func WithErrorCode(code string) func(*Error) {
	return func(e *Error) {
		e.Code = code
	}
}

// WithErrorMsg sets the message on the error.
func WithErrorMsg(msg string) func(*Error) {
	return func(e *Error) {
		e.Msg = msg
	}
}

// WithErrorOp sets the operation on the error.
func WithErrorOp(op string) func(*Error) {
	return func(e *Error) {
		e.Op = op
	}
}

// FunctionCall wraps err, raised while executing the built-in fn.
func FunctionCall(fn string, err error) *Error {
	return &Error{
		Code: EFunctionCall,
		Msg:  "function call error",
		Op:   fn,
		Err:  err,
	}
}

// Error implements the error interface by writing out the recursive messages.
func (e *Error) Error() string {
	if e.Msg != "" && e.Err != nil {
		var b strings.Builder
		b.WriteString(e.Msg)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
		return b.String()
	} else if e.Msg != "" {
		return e.Msg
	} else if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("<%s>", e.Code)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// coder is implemented by the typed errors of this package.
type coder interface {
	Code() string
}

// ErrorCode returns the code of the root error, if available; otherwise returns EInternal.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		if e == nil {
			return ""
		}
		if e.Code != "" {
			return e.Code
		}
		if e.Err != nil {
			return ErrorCode(e.Err)
		}
		return EInternal
	}

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	return EInternal
}

// ErrorOp returns the op of the error, if available; otherwise return empty string.
func ErrorOp(err error) string {
	var e *Error
	if !errors.As(err, &e) || e == nil {
		return ""
	}

	if e.Op != "" {
		return e.Op
	}

	if e.Err != nil {
		return ErrorOp(e.Err)
	}

	return ""
}

// ErrorMessage returns the human-readable message of the error, including
// the messages of the errors it wraps.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// CompileError aborts the compilation of a program.
type CompileError struct {
	Reason string
}

// Compilef returns a CompileError with a formatted reason.
func Compilef(format string, args ...interface{}) *CompileError {
	return &CompileError{Reason: fmt.Sprintf(format, args...)}
}

func (e *CompileError) Error() string { return e.Reason }

// Code returns ECompile.
func (e *CompileError) Code() string { return ECompile }

// TypeMismatchError is returned when a value does not have the kind an
// operation expects.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
}

// Code returns ETypeMismatch.
func (e *TypeMismatchError) Code() string { return ETypeMismatch }

// ConversionError is returned when a value cannot be converted.
type ConversionError struct {
	Detail string
}

func (e *ConversionError) Error() string { return e.Detail }

// Code returns EConversion.
func (e *ConversionError) Code() string { return EConversion }

// GrammarMismatchError is returned when text does not match a grammar as a whole.
type GrammarMismatchError struct {
	Grammar string
}

func (e *GrammarMismatchError) Error() string {
	return "failed parsing " + e.Grammar
}

// Code returns EGrammarMismatch.
func (e *GrammarMismatchError) Code() string { return EGrammarMismatch }

// ParseError is returned when a captured field cannot be parsed.
// Msg is the message shown to the operator; Cause, when set, is appended.
type ParseError struct {
	Field string
	Raw   string
	Msg   string
	Cause error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = fmt.Sprintf("failed parsing %s %s", e.Field, e.Raw)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying parse failure.
func (e *ParseError) Unwrap() error { return e.Cause }

// Code returns EParse.
func (e *ParseError) Code() string { return EParse }

// errEncode an JSON encoding helper that is needed to handle the recursive stack of errors.
type errEncode struct {
	Code string      `json:"code"`              // Code is the machine-readable error code.
	Msg  string      `json:"message,omitempty"` // Msg is a human-readable message.
	Op   string      `json:"op,omitempty"`      // Op describes the logical code operation during error.
	Err  interface{} `json:"error,omitempty"`   // Err is a stack of additional errors.
}

// MarshalJSON recursively marshals the stack of Err.
func (e *Error) MarshalJSON() ([]byte, error) {
	ee := errEncode{
		Code: e.Code,
		Msg:  e.Msg,
		Op:   e.Op,
	}
	if e.Err != nil {
		if inner, ok := e.Err.(*Error); ok {
			ee.Err = inner
		} else {
			ee.Err = e.Err.Error()
		}
	}
	return json.Marshal(ee)
}
