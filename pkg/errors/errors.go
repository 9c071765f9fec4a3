// Package errors provides structured error types for embedlegend.
//
// Error codes separate the three failure classes the actions surface:
//   - precondition failures (no active layer, not a vector layer, no
//     destination), reported as warnings before any work starts
//   - unrecoverable I/O and archive failures, reported with their raw detail
//   - input failures while loading projects, settings or remote layers
//
// Per-feature export failures never become errors; they are collected as
// issues in the export summary.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoActiveLayer, "no active layer")
//	if errors.IsPrecondition(err) {
//	    // warn and stop
//	}
//
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "failed to create %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Precondition errors
	ErrCodeNoActiveLayer Code = "NO_ACTIVE_LAYER"
	ErrCodeNotVector     Code = "NOT_VECTOR_LAYER"
	ErrCodeNoDestination Code = "NO_DESTINATION"

	// Input errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidProject  Code = "INVALID_PROJECT"
	ErrCodeInvalidLanguage Code = "INVALID_LANGUAGE"
	ErrCodeUnsupportedCRS  Code = "UNSUPPORTED_CRS"
	ErrCodeLayerNotFound   Code = "LAYER_NOT_FOUND"

	// Unrecoverable output errors
	ErrCodeIO      Code = "IO_ERROR"
	ErrCodeArchive Code = "ARCHIVE_ERROR"
	ErrCodeRender  Code = "RENDER_ERROR"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsPrecondition reports whether err is a precondition failure that should be
// shown as a warning rather than an error.
func IsPrecondition(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoActiveLayer, ErrCodeNotVector, ErrCodeNoDestination:
		return true
	}
	return false
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
