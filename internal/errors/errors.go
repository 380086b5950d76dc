package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common domain failures
var (
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrSectorNotFound   = errors.New("sector not found")
	ErrMetricUnknown    = errors.New("unknown metric")
	ErrEmptyDataset     = errors.New("dataset contains no rows")
)

// ErrorType represents the category of an application error
type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeRendering  ErrorType = "RENDERING"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeInternal   ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// ValidationError creates a validation error for a single field
func ValidationError(field, message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil).WithContext("field", field)
}

// NotFoundError creates a not-found error for a named resource
func NotFoundError(resource, name string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s %q not found", resource, name), nil).
		WithContext("resource", resource).
		WithContext("name", name)
}
