package validation

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name        string
		errors      []FieldError
		expectError string
	}{
		{"No errors", []FieldError{}, "validation error"},
		{"Single error", []FieldError{{Field: "task_id", Message: "must not be empty"}}, "validation error for field 'task_id': must not be empty"},
		{"Multiple errors", []FieldError{
			{Field: "task_id", Message: "must not be empty"},
			{Field: "task_status", Message: "must be at most 2 characters long"},
		}, "multiple validation errors: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := (&ValidationError{Errors: tt.errors}).Error()
			if !strings.HasPrefix(result, tt.expectError) {
				t.Errorf("ValidationError.Error() = %v, expected prefix %v", result, tt.expectError)
			}
		})
	}
}

func TestValidationError_AddHelpers(t *testing.T) {
	ve := NewValidationError()
	if ve.HasErrors() {
		t.Fatal("new ValidationError should be empty")
	}
	if _, ok := ve.First(); ok {
		t.Fatal("First() on empty error should report false")
	}

	ve.AddRequiredError("task_id")
	ve.AddMaxLengthError("task_status", 2)
	ve.AddInvalidTextError("task_body")

	want := []struct {
		field   string
		typ     ValidationErrorType
		message string
	}{
		{"task_id", ErrorTypeRequired, "must not be empty"},
		{"task_status", ErrorTypeInvalidLength, "must be at most 2 characters long"},
		{"task_body", ErrorTypeInvalidText, "must be valid UTF-8 text"},
	}
	if len(ve.Errors) != len(want) {
		t.Fatalf("expected %d errors, got %d", len(want), len(ve.Errors))
	}
	for i, w := range want {
		got := ve.Errors[i]
		if got.Field != w.field || got.Type != w.typ || got.Message != w.message {
			t.Errorf("error %d = %+v, want %+v", i, got, w)
		}
	}
}
