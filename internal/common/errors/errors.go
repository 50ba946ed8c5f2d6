// Package errors provides standardized error handling for the API handlers.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeAuthRequired ErrorCode = "AUTH_REQUIRED"
	ErrCodeAuthInvalid  ErrorCode = "AUTH_INVALID"

	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	ErrCodeLocationNotFound ErrorCode = "LOCATION_NOT_FOUND"

	ErrCodeGenerationUnavailable ErrorCode = "GENERATION_UNAVAILABLE"
	ErrCodeWeatherUnavailable    ErrorCode = "WEATHER_UNAVAILABLE"
	ErrCodeAnalysisFailed        ErrorCode = "ANALYSIS_FAILED"

	ErrCodeUploadFailed      ErrorCode = "UPLOAD_FAILED"
	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
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

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable request-validation error.
func NewValidationError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthRequiredError signals a missing or malformed Authorization header.
func NewAuthRequiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthRequired,
		Message:   "Authentication required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthInvalidError signals a bearer token the auth service rejected.
func NewAuthInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthInvalid,
		Message:   "Invalid authentication",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitError carries the retry-after hint in seconds.
func NewRateLimitError(retryAfterSeconds int) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimitExceeded,
		Message:   "Rate limit exceeded. Please try again later.",
		Retryable: true,
		Metadata:  map[string]interface{}{"retryAfter": retryAfterSeconds},
		Timestamp: time.Now().UTC(),
	}
}

// NewLocationNotFoundError signals a geocoding miss.
func NewLocationNotFoundError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLocationNotFound,
		Message:   "Location not found",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamError wraps a transport failure against an external provider.
func NewUpstreamError(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceError wraps a datastore write/read failure.
func NewPersistenceError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceFailed,
		Message:   message,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
