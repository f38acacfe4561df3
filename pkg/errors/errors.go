package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorType string

const (
	InvalidArgumentError ErrorType = "INVALID_ARGUMENT"
	MissingFieldsError   ErrorType = "MISSING_FIELDS"
	ParseError           ErrorType = "PARSE_ERROR"
	StoreIOError         ErrorType = "STORE_IO_ERROR"
	NotFoundError        ErrorType = "NOT_FOUND"
	InternalError        ErrorType = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"` // Internal error, not exposed in JSON
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Helper functions to create specific error types
func NewInvalidArgumentError(msg string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    InvalidArgumentError,
		Message: msg,
		Details: details,
	}
}

func NewMissingFieldsError(msg string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    MissingFieldsError,
		Message: msg,
		Details: details,
	}
}

func NewParseError(msg string, err error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ParseError,
		Message: msg,
		Details: details,
		Err:     err,
	}
}

func NewStoreIOError(msg string, err error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    StoreIOError,
		Message: msg,
		Details: details,
		Err:     err,
	}
}

func NewNotFoundError(msg string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    NotFoundError,
		Message: msg,
		Details: details,
	}
}

func NewInternalError(msg string, err error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    InternalError,
		Message: msg,
		Details: details,
		Err:     err,
	}
}

// IsType reports whether err, or anything it wraps, is an AppError of the given type
func IsType(err error, target ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == target
	}
	return false
}
