// Package errors provides structured error types for Bannerforge.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly, actionable error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - TARGET_MISSING, CAPTURE_FAILED, EMPTY_ARTIFACT: fatal export failures
//   - SYNC_TIMEOUT, IMAGE_LOAD, PERSISTENCE_FAILED: non-fatal, logged and degraded
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDimension, "unknown dimension label: %s", label)
//	if errors.Is(err, errors.ErrCodeInvalidDimension) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCaptureFailed, origErr, "rasterizing %s banner", label)
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
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidDimension  Code = "INVALID_DIMENSION"
	ErrCodeInvalidColor      Code = "INVALID_COLOR"
	ErrCodeInvalidDocument   Code = "INVALID_DOCUMENT"
	ErrCodeInvalidBackground Code = "INVALID_BACKGROUND"

	// Fatal export failures. These abort the export attempt.
	ErrCodeTargetMissing Code = "TARGET_MISSING"
	ErrCodeCaptureFailed Code = "CAPTURE_FAILED"
	ErrCodeEmptyArtifact Code = "EMPTY_ARTIFACT"

	// Non-fatal export degradations. Logged, never abort the pipeline.
	ErrCodeSyncTimeout       Code = "SYNC_TIMEOUT"
	ErrCodeImageLoad         Code = "IMAGE_LOAD"
	ErrCodePersistenceFailed Code = "PERSISTENCE_FAILED"

	// Concurrency guard
	ErrCodeExportInFlight Code = "EXPORT_IN_FLIGHT"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeRecordNotFound Code = "RECORD_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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

// Guidance returns an actionable hint for the given error, distinguishing
// image-source problems (re-upload) from transient ones (wait and retry)
// from everything else (generic retry). Returns "" for nil errors.
func Guidance(err error) string {
	if err == nil {
		return ""
	}
	switch GetCode(err) {
	case ErrCodeCaptureFailed, ErrCodeImageLoad:
		return "one or more images could not be read; re-upload your images and try again"
	case ErrCodeTimeout, ErrCodeSyncTimeout, ErrCodeNetwork:
		return "a resource was slow to load; wait a few seconds and try again"
	case ErrCodeTargetMissing:
		return "the preview has not been rendered yet; render the banner before exporting"
	case ErrCodeExportInFlight:
		return "an export is already running; wait for it to finish"
	default:
		return "try the export again"
	}
}
