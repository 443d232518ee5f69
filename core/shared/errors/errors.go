package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Catalog errors
	ErrCodeUnknownReport ErrorCode = "UNKNOWN_REPORT"

	// Request errors
	ErrCodeValidationError ErrorCode = "VALIDATION_ERROR"

	// Database errors
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	ErrCodeQueryFailed      ErrorCode = "QUERY_FAILED"

	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with code and context
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Status  int // HTTP status code
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Status:  getHTTPStatus(code),
	}
}

// UnknownReport reports a name that is not in the catalog.
func UnknownReport(name string) *AppError {
	return NewAppError(ErrCodeUnknownReport, fmt.Sprintf("report '%s' not found", name), nil)
}

// Validation reports a parameter outside its declared contract.
func Validation(message string, err error) *AppError {
	return NewAppError(ErrCodeValidationError, message, err)
}

// Connection reports an unreachable database.
func Connection(err error) *AppError {
	return NewAppError(ErrCodeConnectionFailed, "database connection failed", err)
}

// QueryExecution reports a statement or bind rejected by the database.
func QueryExecution(report string, err error) *AppError {
	return NewAppError(ErrCodeQueryFailed, fmt.Sprintf("report '%s' failed", report), err)
}

// getHTTPStatus maps error codes to HTTP status codes
func getHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnknownReport:
		return http.StatusNotFound
	case ErrCodeValidationError:
		return http.StatusBadRequest
	case ErrCodeConnectionFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// As extracts the first AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr != nil {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// IsUnknownReport checks if the error is an unknown report error
func IsUnknownReport(err error) bool {
	return hasCode(err, ErrCodeUnknownReport)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return hasCode(err, ErrCodeValidationError)
}

// IsConnectionError checks if the error is a database connection error
func IsConnectionError(err error) bool {
	return hasCode(err, ErrCodeConnectionFailed)
}

// IsQueryExecutionError checks if the error is a query execution error
func IsQueryExecutionError(err error) bool {
	return hasCode(err, ErrCodeQueryFailed)
}
