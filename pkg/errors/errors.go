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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrIO            ErrorCode = "IO"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Rule table errors
	ErrRuleSource    ErrorCode = "RULE_SOURCE"
	ErrRegexCompile  ErrorCode = "REGEX_COMPILE"
	ErrTableNotReady ErrorCode = "TABLE_NOT_READY"
	ErrTableFrozen   ErrorCode = "TABLE_FROZEN"

	// Dispatch errors
	ErrActionApply ErrorCode = "ACTION_APPLY"

	// Record errors
	ErrRecordParse ErrorCode = "RECORD_PARSE"
)

// RulesError represents a structured error with code and details
type RulesError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RulesError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RulesError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RulesError) Is(target error) bool {
	var targetErr *RulesError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RulesError with the given code and message
func New(code ErrorCode, message string) *RulesError {
	return &RulesError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RulesError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RulesError {
	return &RulesError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RulesError
func Wrap(err error, code ErrorCode, message string) *RulesError {
	if err == nil {
		return nil
	}
	return &RulesError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RulesError {
	if err == nil {
		return nil
	}
	return &RulesError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RulesError) WithDetail(key string, value interface{}) *RulesError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *RulesError) WithDetails(details map[string]interface{}) *RulesError {
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
	var rulesErr *RulesError
	if errors.As(err, &rulesErr) {
		return rulesErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RulesError
func GetErrorCode(err error) ErrorCode {
	var rulesErr *RulesError
	if errors.As(err, &rulesErr) {
		return rulesErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RulesError
func GetErrorDetails(err error) map[string]interface{} {
	var rulesErr *RulesError
	if errors.As(err, &rulesErr) {
		return rulesErr.Details
	}
	return nil
}
