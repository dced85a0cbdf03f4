// Package errors defines the application error taxonomy used across the
// pipeline. Every failure is fatal by policy: callers wrap and propagate,
// they never retry.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an application error.
type ErrorType string

const (
	ErrTypeNotFound       ErrorType = "NOT_FOUND"
	ErrTypeInvalidInput   ErrorType = "INVALID_INPUT"
	ErrTypeEmptyDataset   ErrorType = "EMPTY_DATASET"
	ErrTypeSchemaMismatch ErrorType = "SCHEMA_MISMATCH"
	ErrTypeParsing        ErrorType = "PARSING"
	ErrTypeConfig         ErrorType = "CONFIG"
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

// NewNotFoundError creates an error for a missing input file.
func NewNotFoundError(path string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("file not found: %s", path), nil).
		WithContext("path", path)
}

// NewInvalidInputError creates an error for an option outside the
// accepted enumeration.
func NewInvalidInputError(option string) *AppError {
	return NewAppError(ErrTypeInvalidInput, fmt.Sprintf("invalid option selected: %q", option), nil).
		WithContext("option", option)
}

// NewEmptyDatasetError creates an error for a dataset with no rows.
func NewEmptyDatasetError(name string) *AppError {
	return NewAppError(ErrTypeEmptyDataset, fmt.Sprintf("dataset %s is empty", name), nil).
		WithContext("dataset", name)
}

// NewSchemaMismatchError creates an error for a table whose columns do not
// match the expected shape.
func NewSchemaMismatchError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchemaMismatch, message, cause)
}

// NewParsingError creates an error for undecodable spreadsheet content.
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewConfigError creates an error for invalid configuration.
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err (or anything it wraps) is an AppError of the
// given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// GetType returns the type of an AppError, or empty string for other errors.
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
