package errors

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. AppError.Is compares type and code, so
// any error built by the constructors below matches its category.
var (
	ErrValidation     = &AppError{Type: ErrorTypeValidation, Code: CodeValidation}
	ErrNotFound       = &AppError{Type: ErrorTypeNotFound, Code: CodeNotFound}
	ErrInfrastructure = &AppError{Type: ErrorTypeInfrastructure, Code: CodeInfrastructure}
)

// NewValidationError creates a validation error for a single field and the
// rule it broke.
func NewValidationError(field, rule string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf("invalid %s: %s", field, rule),
		Code:    CodeValidation,
		Cause:   cause,
		Context: map[string]interface{}{
			"field": field,
			"rule":  rule,
		},
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    CodeNotFound,
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewInfrastructureError wraps a storage or transport failure.
func NewInfrastructureError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeInfrastructure,
		Message: fmt.Sprintf("storage operation failed: %s", operation),
		Code:    CodeInfrastructure,
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// WrapInfrastructure returns err unchanged when it already is an AppError and
// wraps it as an infrastructure error otherwise. A nil err yields nil.
func WrapInfrastructure(operation string, err error) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	return NewInfrastructureError(operation, err)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

func IsValidation(err error) bool     { return IsErrorType(err, ErrorTypeValidation) }
func IsNotFound(err error) bool       { return IsErrorType(err, ErrorTypeNotFound) }
func IsInfrastructure(err error) bool { return IsErrorType(err, ErrorTypeInfrastructure) }

// GetUserMessage returns a message that is safe to show to an end user.
// Infrastructure causes are never included.
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound:
			return appErr.Message
		case ErrorTypeInfrastructure:
			return "A storage error occurred. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound:
			return false // caller mistakes
		default:
			return true
		}
	}
	return true
}
