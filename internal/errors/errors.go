package errors

import (
	"fmt"
)

// LawError is the structured error type for LawSage.
// It provides rich context for error handling, logging, and user presentation.
type LawError struct {
	// Code is the unique error code (e.g., "ERR_201_CORPUS_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Corpus, Service, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *LawError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *LawError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with LawError.
func (e *LawError) Is(target error) bool {
	if t, ok := target.(*LawError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *LawError) WithDetail(key, value string) *LawError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new LawError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *LawError {
	return &LawError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a LawError from an existing error.
// The error's message becomes the LawError message.
func Wrap(code string, err error) *LawError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *LawError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// CorpusError creates a corpus-loading error.
func CorpusError(message string, cause error) *LawError {
	return New(ErrCodeCorpusInvalid, message, cause)
}

// ServiceError creates an external-service error. Service errors are retryable.
func ServiceError(code string, message string, cause error) *LawError {
	return New(code, message, cause)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if le, ok := err.(*LawError); ok {
		return le.Retryable
	}
	return false
}

// GetCode extracts the error code from a LawError.
// Returns empty string if not a LawError.
func GetCode(err error) string {
	if le, ok := err.(*LawError); ok {
		return le.Code
	}
	return ""
}
