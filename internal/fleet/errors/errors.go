// Package errors provides the error codes shared across the compose
// document store, the config synthesizer and the compose CLI runner. It is
// a leaf package with no internal dependencies so that all of them can
// import it without cycles.
//
// Every failure surfaced to the CLI, dashboard or MCP layer is an *OpError
// carrying one of these codes plus a human-readable message; callers
// branch on the code, never on message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies what went wrong.
type ErrorCode int

const (
	// ErrNotFound indicates a referenced file, service or network is absent.
	ErrNotFound ErrorCode = iota + 1

	// ErrValidation indicates a malformed document or a missing required field.
	ErrValidation

	// ErrConflict indicates a duplicate name on add.
	ErrConflict

	// ErrExternalTool indicates the compose tool exited non-zero or was not found.
	ErrExternalTool

	// ErrTimeout indicates a bounded wait expired before the tool finished.
	ErrTimeout

	// ErrIO indicates a persistence failure (read, write or backup).
	ErrIO
)

// String returns the stable name reported to callers alongside the message.
func (c ErrorCode) String() string {
	switch c {
	case ErrNotFound:
		return "NotFound"
	case ErrValidation:
		return "ValidationError"
	case ErrConflict:
		return "Conflict"
	case ErrExternalTool:
		return "ExternalToolError"
	case ErrTimeout:
		return "Timeout"
	case ErrIO:
		return "IOError"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// OpError is the error type returned by fleet operations.
type OpError struct {
	Code    ErrorCode
	Message string
	Path    string // file or resource the failure refers to, when known
	Err     error  // underlying cause, when there is one
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *OpError) Unwrap() error {
	return e.Err
}

// NewNotFound creates a NotFound error for the named resource.
func NewNotFound(path, resourceType string) *OpError {
	return &OpError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resourceType),
		Path:    path,
	}
}

// NewValidation creates a ValidationError with a formatted reason.
func NewValidation(format string, args ...interface{}) *OpError {
	return &OpError{
		Code:    ErrValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewConflict creates a Conflict error for a duplicate name.
func NewConflict(resourceType, name string) *OpError {
	return &OpError{
		Code:    ErrConflict,
		Message: fmt.Sprintf("%s %q already exists", resourceType, name),
	}
}

// NewToolError creates an ExternalToolError. The captured stderr is carried
// verbatim in the message so the caller sees exactly what the tool said.
func NewToolError(err error, stderr string) *OpError {
	msg := "external tool failed"
	if err != nil {
		msg = err.Error()
	}
	if stderr != "" {
		msg = fmt.Sprintf("%s. Stderr: %s", msg, stderr)
	}
	return &OpError{
		Code:    ErrExternalTool,
		Message: msg,
		Err:     err,
	}
}

// NewTimeout creates a Timeout error for the named operation.
func NewTimeout(operation, limit string) *OpError {
	return &OpError{
		Code:    ErrTimeout,
		Message: fmt.Sprintf("%s did not finish within %s", operation, limit),
	}
}

// NewIO creates an IOError wrapping the underlying cause.
func NewIO(err error, format string, args ...interface{}) *OpError {
	return &OpError{
		Code:    ErrIO,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed. Errors
// that never passed through this package report 0.
func CodeOf(err error) ErrorCode {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Code
	}
	return 0
}

// IsNotFound returns true if the error carries ErrNotFound.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrNotFound
}

// IsValidation returns true if the error carries ErrValidation.
func IsValidation(err error) bool {
	return CodeOf(err) == ErrValidation
}

// IsConflict returns true if the error carries ErrConflict.
func IsConflict(err error) bool {
	return CodeOf(err) == ErrConflict
}

// IsExternalTool returns true if the error carries ErrExternalTool.
func IsExternalTool(err error) bool {
	return CodeOf(err) == ErrExternalTool
}

// IsTimeout returns true if the error carries ErrTimeout.
func IsTimeout(err error) bool {
	return CodeOf(err) == ErrTimeout
}

// IsIO returns true if the error carries ErrIO.
func IsIO(err error) bool {
	return CodeOf(err) == ErrIO
}
