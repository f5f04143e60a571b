// Package errors provides structured error types for shaderdoc.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Documentation runs fail with one of a small set of codes. Validation
// failures (no material, no node graph, no output path) are detected before
// any traversal begins. Output failures (unwritable directory, sink I/O) and
// root resolution failures abort the current run only.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoMaterialSelected, "no shader selected")
//	if errors.Is(err, errors.ErrCodeNoMaterialSelected) {
//	    // Ask the user to pick a material
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeWriteFailure, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Documentation run errors
	ErrCodeNoMaterialSelected        Code = "NO_MATERIAL_SELECTED"
	ErrCodeMaterialHasNoNodeGraph    Code = "MATERIAL_HAS_NO_NODE_GRAPH"
	ErrCodeNoOutputPathGiven         Code = "NO_OUTPUT_PATH_GIVEN"
	ErrCodeOutputDirectoryUnwritable Code = "OUTPUT_DIRECTORY_UNWRITABLE"
	ErrCodeNoOutputNode              Code = "NO_OUTPUT_NODE"
	ErrCodeWriteFailure              Code = "WRITE_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidLibrary Code = "INVALID_LIBRARY"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
	ErrCodeMaterialNotFound Code = "MATERIAL_NOT_FOUND"

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
// It returns the code of the outermost *Error in the chain, so a
// WRITE_FAILURE wrapping an INVALID_PATH reports only WRITE_FAILURE.
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err was raised before any traversal began,
// i.e. the caller supplied incomplete or unusable input.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoMaterialSelected, ErrCodeMaterialHasNoNodeGraph, ErrCodeNoOutputPathGiven,
		ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidPath, ErrCodeInvalidLibrary:
		return true
	}
	return false
}
