// Package errors provides the coded error type shared by deploytrace packages.
//
// Conventions:
//  1. every error can be inspected with errors.Is / errors.As
//  2. errors carry enough context to be printed as a diagnostic line
//  3. the code classifies the failure for diagnostics and tests
//  4. causes are kept in the chain (error wrapping)
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an error.
type ErrorCode string

const (
	// request / configuration
	CodeInvalidParam    ErrorCode = "INVALID_PARAM"
	CodeConfigError     ErrorCode = "CONFIG_ERROR"
	CodeValidationError ErrorCode = "VALIDATION_ERROR"

	// log engine
	CodeDirectoryUnavailable ErrorCode = "DIRECTORY_UNAVAILABLE"
	CodeWriteFailed          ErrorCode = "WRITE_FAILED"
	CodeRotationFailed       ErrorCode = "ROTATION_FAILED"

	// collaborators
	CodeCopyFailed ErrorCode = "COPY_FAILED"

	// system
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error is the unified error type.
type Error struct {
	Code    ErrorCode // error code
	Message string    // human readable message
	Cause   error     // wrapped error
	Path    string    // file system path involved, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap supports errors.Unwrap.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithPath records the path the failure relates to.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// New creates an error.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates an error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps err. A nil err still yields an error so callers can attach a code
// to a failure that has no underlying cause.
func Wrap(err error, code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps err with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// GetCode extracts the code from err, CodeInternal when err is not an *Error.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Is re-exports errors.Is
var Is = errors.Is

// As re-exports errors.As
var As = errors.As
