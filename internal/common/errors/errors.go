// Package errors provides standardized error handling for the intake relay and its clients.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMailNotConfigured ErrorCode = "MAIL_NOT_CONFIGURED"
	ErrCodeMailSendFailed    ErrorCode = "MAIL_SEND_FAILED"
	ErrCodeMailTimeout       ErrorCode = "MAIL_TIMEOUT"

	ErrCodePayloadInvalid      ErrorCode = "PAYLOAD_INVALID"
	ErrCodeFileTooLarge        ErrorCode = "FILE_TOO_LARGE"
	ErrCodeUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"

	ErrCodeApplicationValidationFailed ErrorCode = "APPLICATION_VALIDATION_FAILED"

	ErrCodeRelayUnavailable ErrorCode = "RELAY_UNAVAILABLE"
	ErrCodeRelayRejected    ErrorCode = "RELAY_REJECTED"

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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches on error code so callers can use errors.Is against a template error.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMailNotConfiguredError reports which mail settings are absent. Never retryable:
// an operator has to fix the deployment.
func NewMailNotConfiguredError(missing []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailNotConfigured,
		Message:   fmt.Sprintf("Missing %s in server configuration", strings.Join(missing, " / ")),
		Details:   "mail transport credentials or recipient not set",
		Retryable: false,
		Metadata:  map[string]interface{}{"missing": missing},
		Timestamp: time.Now().UTC(),
	}
}

// NewMailSendFailedError creates a retryable transport error.
func NewMailSendFailedError(transport string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailSendFailed,
		Message:   "Email failed on server",
		Details:   fmt.Sprintf("transport: %s, error: %s", transport, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMailTimeoutError creates a retryable timeout error.
func NewMailTimeoutError(transport string, timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailTimeout,
		Message:   "Email failed on server",
		Details:   fmt.Sprintf("transport: %s, timed out after %s", transport, timeout),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadInvalidError creates a non-retryable request parsing error.
func NewPayloadInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadInvalid,
		Message:   "Invalid multipart payload",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileTooLargeError creates a non-retryable file size error.
func NewFileTooLargeError(field string, size, limit int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileTooLarge,
		Message:   fmt.Sprintf("%s exceeds the %d MB file limit", field, limit/(1024*1024)),
		Details:   fmt.Sprintf("field: %s, size: %d, limit: %d", field, size, limit),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedFileTypeError creates a non-retryable content type error.
func NewUnsupportedFileTypeError(field, contentType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedFileType,
		Message:   fmt.Sprintf("%s must be a PDF, JPEG or PNG file", field),
		Details:   fmt.Sprintf("field: %s, contentType: %s", field, contentType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationValidationFailedError creates a non-retryable application validation error.
func NewApplicationValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationValidationFailed,
		Message:   "Application data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRelayUnavailableError wraps a network failure talking to the relay.
func NewRelayUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRelayUnavailable,
		Message:   "Could not reach the application server",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRelayRejectedError carries the relay's own error message when it answered non-2xx.
func NewRelayRejectedError(status int, message string) *StandardError {
	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("Submission failed (HTTP %d)", status)
	}
	return &StandardError{
		Code:      ErrCodeRelayRejected,
		Message:   message,
		Details:   fmt.Sprintf("status: %d", status),
		Retryable: status >= http.StatusBadGateway && status <= http.StatusGatewayTimeout,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Error Classification
// ==========================

// GetRetryCount returns how many additional attempts a caller may make. The relay and
// its clients allow a single retry for transient failures only.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeMailSendFailed,
		ErrCodeMailTimeout,
		ErrCodeRelayUnavailable:
		return 1
	default:
		return 0
	}
}

// HTTPStatus maps an error code to the relay's response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodePayloadInvalid, ErrCodeApplicationValidationFailed:
		return http.StatusBadRequest
	case ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeUnsupportedFileType:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "MAIL_"):
		return "MAIL"
	case strings.HasPrefix(codeStr, "RELAY_"):
		return "RELAY"
	case strings.Contains(codeStr, "FILE"):
		return "ATTACHMENT"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}
