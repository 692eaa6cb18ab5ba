package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypeDB           ErrorType = "database"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeInput        ErrorType = "input"
	ErrorTypeConstruction ErrorType = "construction"
	ErrorTypeRelationship ErrorType = "relationship"
	ErrorTypeHierarchy    ErrorType = "hierarchy"
	ErrorTypeIO           ErrorType = "io"
	ErrorTypeStorage      ErrorType = "storage"
	ErrorTypeSystem       ErrorType = "system"
)

// AppError is a structured error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Op      string // Operation that failed
}

// Error returns the error message
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(t ErrorType, op, message string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: message,
		Err:     err,
		Op:      op,
	}
}

// NewConfigError creates a new configuration error
func NewConfigError(op, message string, err error) *AppError {
	return newError(ErrorTypeConfig, op, message, err)
}

// NewDBError creates a new database error
func NewDBError(op, message string, err error) *AppError {
	return newError(ErrorTypeDB, op, message, err)
}

// NewValidationError creates a new validation error
func NewValidationError(op, message string, err error) *AppError {
	return newError(ErrorTypeValidation, op, message, err)
}

// NewInputError creates an error for malformed or headerless input
func NewInputError(op, message string, err error) *AppError {
	return newError(ErrorTypeInput, op, message, err)
}

// NewConstructionError creates an error for a row that cannot become a domain record
func NewConstructionError(op, message string, err error) *AppError {
	return newError(ErrorTypeConstruction, op, message, err)
}

// NewRelationshipError creates a batch-level referential integrity error
func NewRelationshipError(op, message string, err error) *AppError {
	return newError(ErrorTypeRelationship, op, message, err)
}

// NewHierarchyError creates a batch-level hierarchy error
func NewHierarchyError(op, message string, err error) *AppError {
	return newError(ErrorTypeHierarchy, op, message, err)
}

// NewIOError creates a new I/O error
func NewIOError(op, message string, err error) *AppError {
	return newError(ErrorTypeIO, op, message, err)
}

// NewStorageError creates a new object storage error
func NewStorageError(op, message string, err error) *AppError {
	return newError(ErrorTypeStorage, op, message, err)
}

// NewSystemError creates an error for unexpected failures
func NewSystemError(op, message string, err error) *AppError {
	return newError(ErrorTypeSystem, op, message, err)
}

// IsType checks if an error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if err == nil {
		return false
	}
	ok := errors.As(err, &appErr)
	return ok && appErr.Type == errorType
}

// TypeOf returns the type of the outermost AppError in the chain, or ErrorTypeSystem
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeSystem
}

// GetOp returns the operation from an error, if available
func GetOp(err error) string {
	var appErr *AppError
	if err == nil {
		return ""
	}
	if errors.As(err, &appErr) {
		return appErr.Op
	}
	return ""
}
