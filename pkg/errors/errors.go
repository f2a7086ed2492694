// Package errors provides structured error types for graphshake.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the tree-shake pipeline and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (graph, config)
//   - UNRESOLVED_* / MISSING_*: Lookups into the module graph that failed
//   - *_FAILED: A pipeline stage (transpile, engine, merge) failed
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnresolvedSpecifier, "cannot resolve %q from %s", spec, importer)
//	if errors.Is(err, errors.ErrCodeUnresolvedSpecifier) {
//	    // Handle resolution failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransformFailed, origErr, "transpile %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Module graph lookups
	ErrCodeUnresolvedSpecifier Code = "UNRESOLVED_SPECIFIER"
	ErrCodeMissingNode         Code = "MISSING_NODE"
	ErrCodeFileNotFound        Code = "FILE_NOT_FOUND"

	// Stage failures
	ErrCodeTransformFailed Code = "TRANSFORM_FAILED"
	ErrCodeEngineFailed    Code = "ENGINE_FAILED"
	ErrCodeMergeFailed     Code = "MERGE_FAILED"
	ErrCodeTimeout         Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// The outermost *Error decides; a wrapped error with a different code
// deeper in the chain does not match.
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

// UnresolvedSpecifier builds the error returned when an import specifier
// cannot be mapped to a canonical module id.
func UnresolvedSpecifier(specifier, importer string) *Error {
	return New(ErrCodeUnresolvedSpecifier, "cannot resolve %q imported by %s", specifier, importer)
}

// MissingNode builds the error returned when a module id is absent from the graph.
func MissingNode(id string) *Error {
	return New(ErrCodeMissingNode, "module %q is not in the graph", id)
}
