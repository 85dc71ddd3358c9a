// Package errors provides structured error types for drapemap.
//
// Every failure surfaced by the figure core carries one of a small set of
// codes so that the CLI can report it consistently and callers can branch on
// it without string matching:
//   - DATA_ERROR: a raster or point source could not be read or is malformed
//   - CONFIGURATION_ERROR: an unsupported coordinate convention, colourbar
//     placement, colour range or similar option
//   - SHAPE_MISMATCH: a drape raster is not co-registered with the base raster
//   - INVALID_STATE: an operation was attempted on a figure that was already saved
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "unsupported unit: %q", unit)
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//	    // report before drawing anything
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeData, origErr, "read raster %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input data errors (unreadable or malformed rasters, csv files, geojson)
	ErrCodeData Code = "DATA_ERROR"

	// Option errors, reported before any drawing happens
	ErrCodeConfiguration Code = "CONFIGURATION_ERROR"

	// A drape layer whose extent or grid differs from the base layer
	ErrCodeShapeMismatch Code = "SHAPE_MISMATCH"

	// Operation not allowed in the current figure state
	ErrCodeInvalidState Code = "INVALID_STATE"

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

// Data is shorthand for New(ErrCodeData, ...).
func Data(format string, args ...any) *Error {
	return New(ErrCodeData, format, args...)
}

// Configuration is shorthand for New(ErrCodeConfiguration, ...).
func Configuration(format string, args ...any) *Error {
	return New(ErrCodeConfiguration, format, args...)
}

// ShapeMismatch is shorthand for New(ErrCodeShapeMismatch, ...).
func ShapeMismatch(format string, args ...any) *Error {
	return New(ErrCodeShapeMismatch, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}
