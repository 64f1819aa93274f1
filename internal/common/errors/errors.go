// internal/common/errors/errors.go
// Package errors provides standardized error values for the estimating core.
//
// The engines themselves are total functions: domain outcomes (unsafe
// matches, missing scope, invariant violations) come back as data, never as
// errors. Errors here cover caller-contract breaches only: bad configuration,
// an unreadable ratebook, a malformed request at the service boundary.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfigInvalid         ErrorCode = "CONFIG_INVALID"
	ErrCodeRatebookLoadFailed    ErrorCode = "RATEBOOK_LOAD_FAILED"
	ErrCodeRatebookSchemaInvalid ErrorCode = "RATEBOOK_SCHEMA_INVALID"
	ErrCodeRequestParseFailed    ErrorCode = "REQUEST_PARSE_FAILED"
	ErrCodeInvalidProjectInput   ErrorCode = "INVALID_PROJECT_INPUT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewConfigInvalidError reports unusable configuration at startup.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Configuration is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRatebookLoadError reports an unreadable or unparseable ratebook file.
func NewRatebookLoadError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRatebookLoadFailed,
		Message:   "Ratebook could not be loaded",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
	}
}

// NewRatebookSchemaError reports a ratebook file that fails schema validation.
func NewRatebookSchemaError(path string, violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRatebookSchemaInvalid,
		Message:   "Ratebook failed schema validation",
		Retryable: false,
		Metadata: map[string]interface{}{
			"path":       path,
			"violations": violations,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestParseError reports a malformed request body at the service boundary.
func NewRequestParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestParseFailed,
		Message:   "Request body could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidProjectInputError reports a project snapshot the engines cannot accept.
func NewInvalidProjectInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidProjectInput,
		Message:   "Project input is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
