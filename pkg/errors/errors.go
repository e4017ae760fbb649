package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrPermission     ErrorCode = "PERMISSION"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Managed tree errors
	ErrTreeNotFound ErrorCode = "TREE_NOT_FOUND"
	ErrTreeInvalid  ErrorCode = "TREE_INVALID"

	// Release bundle errors
	ErrBundleNotFound ErrorCode = "BUNDLE_NOT_FOUND"
	ErrBundleInvalid  ErrorCode = "BUNDLE_INVALID"
	ErrBundleCompile  ErrorCode = "BUNDLE_COMPILE"

	// Version ledger errors
	ErrLedgerParse ErrorCode = "LEDGER_PARSE"
	ErrLedgerWrite ErrorCode = "LEDGER_WRITE"

	// Snapshot errors
	ErrSnapshotFailed ErrorCode = "SNAPSHOT_FAILED"
	ErrNoSnapshot     ErrorCode = "NO_SNAPSHOT"
	ErrRestoreFailed  ErrorCode = "RESTORE_FAILED"

	// Update errors
	ErrUpdateFailed ErrorCode = "UPDATE_FAILED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// CanonError represents a structured error with code and details
type CanonError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CanonError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CanonError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CanonError) Is(target error) bool {
	var targetErr *CanonError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CanonError with the given code and message
func New(code ErrorCode, message string) *CanonError {
	return &CanonError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CanonError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CanonError {
	return &CanonError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CanonError
func Wrap(err error, code ErrorCode, message string) *CanonError {
	if err == nil {
		return nil
	}
	return &CanonError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CanonError {
	if err == nil {
		return nil
	}
	return &CanonError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CanonError) WithDetail(key string, value interface{}) *CanonError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *CanonError) WithDetails(details map[string]interface{}) *CanonError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var canonErr *CanonError
	if errors.As(err, &canonErr) {
		return canonErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CanonError
func GetErrorCode(err error) ErrorCode {
	var canonErr *CanonError
	if errors.As(err, &canonErr) {
		return canonErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CanonError
func GetErrorDetails(err error) map[string]interface{} {
	var canonErr *CanonError
	if errors.As(err, &canonErr) {
		return canonErr.Details
	}
	return nil
}
