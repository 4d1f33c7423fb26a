// Package errors provides standardized error handling for the HTTP surface and
// BPMN workflow integration.
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
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeResourceNotFound     ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeUserAlreadyExists    ErrorCode = "USER_ALREADY_EXISTS"
	ErrCodeUnsupportedDocument  ErrorCode = "UNSUPPORTED_DOCUMENT"

	ErrCodeModelUnavailable ErrorCode = "MODEL_UNAVAILABLE"
	ErrCodePredictionFailed ErrorCode = "PREDICTION_FAILED"

	ErrCodeLLMTimeout          ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMGenerationFailed ErrorCode = "LLM_GENERATION_FAILED"

	ErrCodeJobSearchTimeout  ErrorCode = "JOB_SEARCH_TIMEOUT"
	ErrCodeJobSearchUpstream ErrorCode = "JOB_SEARCH_UPSTREAM_ERROR"

	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeIndexNotFound            ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeStorageFailed          ErrorCode = "STORAGE_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error. Message is safe to
// show to API clients; Details carries the internal cause.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewValidationError creates a non-retryable input error.
func NewValidationError(message string) *StandardError {
	return newError(ErrCodeValidationFailed, message, nil, false)
}

// NewAuthenticationError creates a non-retryable credentials error.
func NewAuthenticationError(message string) *StandardError {
	return newError(ErrCodeAuthenticationFailed, message, nil, false)
}

func NewNotFoundError(message string) *StandardError {
	return newError(ErrCodeResourceNotFound, message, nil, false)
}

// NewConflictError reports an entity that already exists.
func NewConflictError(message string) *StandardError {
	return newError(ErrCodeUserAlreadyExists, message, nil, false)
}

func NewUnsupportedDocumentError(message string, err error) *StandardError {
	return newError(ErrCodeUnsupportedDocument, message, err, false)
}

// NewModelUnavailableError reports a classifier that was never loaded.
func NewModelUnavailableError(message string) *StandardError {
	return newError(ErrCodeModelUnavailable, message, nil, false)
}

func NewPredictionFailedError(message string, err error) *StandardError {
	return newError(ErrCodePredictionFailed, message, err, false)
}

// NewLLMTimeoutError creates a retryable language model timeout.
func NewLLMTimeoutError(message string, err error) *StandardError {
	return newError(ErrCodeLLMTimeout, message, err, true)
}

func NewLLMGenerationFailedError(message string, err error) *StandardError {
	return newError(ErrCodeLLMGenerationFailed, message, err, true)
}

// NewJobSearchTimeoutError creates a retryable job board timeout.
func NewJobSearchTimeoutError(message string, err error) *StandardError {
	return newError(ErrCodeJobSearchTimeout, message, err, true)
}

func NewJobSearchUpstreamError(message string, err error) *StandardError {
	return newError(ErrCodeJobSearchUpstream, message, err, true)
}

// NewConfigurationError reports missing credentials or settings.
func NewConfigurationError(message string) *StandardError {
	return newError(ErrCodeConfiguration, message, nil, false)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err, true)
}

// NewDatabaseInsertFailedError creates a retryable write error.
func NewDatabaseInsertFailedError(message string, err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, message, err, true)
}

// NewQueryExecutionFailedError creates a retryable read error.
func NewQueryExecutionFailedError(message string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, message, err, true)
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(index string, err error) *StandardError {
	e := newError(ErrCodeSearchQueryFailed, "Elasticsearch query error", err, true)
	return e.WithMetadata("index", index)
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(index string) *StandardError {
	e := newError(ErrCodeIndexNotFound, "Elasticsearch index not found", nil, false)
	return e.WithMetadata("index", index)
}

func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	e := newError(ErrCodeNotificationSendFailed, "Failed to send notification", err, true)
	return e.WithMetadata("notificationType", notificationType)
}

func NewStorageFailedError(message string, err error) *StandardError {
	return newError(ErrCodeStorageFailed, message, err, true)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err, true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err, true)
}

// NewInternalError wraps an unexpected failure behind a client-safe message.
func NewInternalError(message string, err error) *StandardError {
	return newError(ErrCodeInternal, message, err, false)
}

// Normalize returns err as a *StandardError, wrapping it as an internal error
// when it is not one already.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError("Unexpected error", err)
}

// ==========================
// 4. HTTP and BPMN mapping
// ==========================

// HTTPStatus maps an error code to the status code returned by the API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeUserAlreadyExists, ErrCodeUnsupportedDocument:
		return http.StatusBadRequest
	case ErrCodeAuthenticationFailed:
		return http.StatusUnauthorized
	case ErrCodeResourceNotFound:
		return http.StatusNotFound
	case ErrCodeModelUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeJobSearchUpstream, ErrCodeExternalService:
		return http.StatusBadGateway
	case ErrCodeJobSearchTimeout, ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// GetRetryCount returns the recommended job retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeStorageFailed,
		ErrCodeLLMGenerationFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeJobSearchTimeout,
		ErrCodeJobSearchUpstream,
		ErrCodeTimeout:
		return 2

	case ErrCodeLLMTimeout:
		return 1

	default:
		return 0 // business errors
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
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
	case strings.Contains(codeStr, "AUTHENTICATION") || strings.Contains(codeStr, "USER"):
		return "AUTH"
	case strings.Contains(codeStr, "MODEL") || strings.Contains(codeStr, "PREDICTION"):
		return "PREDICTION"
	case strings.Contains(codeStr, "LLM"):
		return "AI"
	case strings.Contains(codeStr, "JOB_SEARCH"):
		return "JOB_SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY_EXECUTION"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "UNSUPPORTED"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
