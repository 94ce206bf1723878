package validation

import (
	"fmt"
	"strings"
)

// ValidationErrorType names the rule a field broke
type ValidationErrorType string

const (
	ErrorTypeRequired      ValidationErrorType = "required"
	ErrorTypeInvalidLength ValidationErrorType = "invalid_length"
	ErrorTypeInvalidText   ValidationErrorType = "invalid_text"
)

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
}

// Error implements the error interface for FieldError
func (fe *FieldError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", fe.Field, fe.Message)
}

// ValidationError collects field errors in the order they were found.
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make([]FieldError, 0)}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation error"
	case 1:
		return ve.Errors[0].Error()
	}

	messages := make([]string, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if the ValidationError has any errors
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// First returns the first recorded field error.
func (ve *ValidationError) First() (FieldError, bool) {
	if len(ve.Errors) == 0 {
		return FieldError{}, false
	}
	return ve.Errors[0], true
}

// AddError adds a new field error to the validation error
func (ve *ValidationError) AddError(field string, errorType ValidationErrorType, message string) {
	ve.Errors = append(ve.Errors, FieldError{
		Field:   field,
		Type:    errorType,
		Message: message,
	})
}

// AddRequiredError adds a required field error
func (ve *ValidationError) AddRequiredError(field string) {
	ve.AddError(field, ErrorTypeRequired, "must not be empty")
}

// AddMaxLengthError adds an error for a value longer than max characters
func (ve *ValidationError) AddMaxLengthError(field string, max int) {
	ve.AddError(field, ErrorTypeInvalidLength, fmt.Sprintf("must be at most %d characters long", max))
}

// AddInvalidTextError adds an error for a value that is not valid UTF-8 text
func (ve *ValidationError) AddInvalidTextError(field string) {
	ve.AddError(field, ErrorTypeInvalidText, "must be valid UTF-8 text")
}
