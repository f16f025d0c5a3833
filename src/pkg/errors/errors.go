// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package errors provides the error taxonomy shared by the hooks so callers can tell
// "the call failed" apart from "the call succeeded and found nothing".
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodeConfiguration indicates missing or invalid local configuration. Fatal, never retried.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
	// ErrCodeUnauthorized indicates an authentication or authorization failure.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeNotFound indicates the call succeeded but nothing matched.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeTransient indicates an external call failed and may succeed if repeated.
	ErrCodeTransient ErrorCode = "TRANSIENT"
	// ErrCodeConflict indicates the remote state diverged from the local state.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError carries an error code for programmatic handling, a human-readable message,
// the underlying cause and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a StructuredError with the same code and no message,
// which lets sentinel values like ErrNotFound match any error of that code.
func (e *StructuredError) Is(target error) bool {
	t, ok := target.(*StructuredError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrConfiguration = &StructuredError{Code: ErrCodeConfiguration}
	ErrUnauthorized  = &StructuredError{Code: ErrCodeUnauthorized}
	ErrNotFound      = &StructuredError{Code: ErrCodeNotFound}
	ErrTransient     = &StructuredError{Code: ErrCodeTransient}
	ErrConflict      = &StructuredError{Code: ErrCodeConflict}
)

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new StructuredError with a formatted message.
func Newf(code ErrorCode, format string, a ...any) *StructuredError {
	return New(code, fmt.Sprintf(format, a...))
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// CodeOf returns the code of the outermost StructuredError in err's chain, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// IsRetryable reports whether err is worth repeating.
func IsRetryable(err error) bool {
	switch CodeOf(err) {
	case ErrCodeTransient, ErrCodeConflict:
		return true
	default:
		return false
	}
}
