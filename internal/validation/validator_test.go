package validation

import (
	"testing"
)

func TestIsNonEmptyString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Empty string", "", false},
		{"Whitespace only", "   ", false},
		{"Tab and newline", "\t\n", false},
		{"Valid string", "task 1", true},
		{"Leading and trailing spaces", "  task  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsNonEmptyString(tt.input); result != tt.expected {
				t.Errorf("IsNonEmptyString(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsWithinMaxLength(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected bool
	}{
		{"Empty", "", 2, true},
		{"Exactly max", "05", 2, true},
		{"Over max", "123", 2, false},
		{"Multibyte runes counted once", "éé", 2, true},
		{"Multibyte over max", "日本語", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsWithinMaxLength(tt.input, tt.max); result != tt.expected {
				t.Errorf("IsWithinMaxLength(%q, %d) = %v, expected %v", tt.input, tt.max, result, tt.expected)
			}
		})
	}
}

func TestValidator_Chain(t *testing.T) {
	err := NewValidator().
		ValidText("task_id", "task 1").
		Required("task_id", "task 1").
		MaxLength("task_status", "05", 2).
		Err()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidator_StopsAtFirstFailurePerField(t *testing.T) {
	err := NewValidator().
		Required("task_status", "   ").
		MaxLength("task_status", "   ", 2).
		Err()
	if err == nil {
		t.Fatal("expected an error")
	}

	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(ve.Errors), ve.Errors)
	}
	if ve.Errors[0].Type != ErrorTypeRequired {
		t.Errorf("expected required error, got %s", ve.Errors[0].Type)
	}
}

func TestValidator_InvalidText(t *testing.T) {
	err := NewValidator().ValidText("task_body", "bad \xff byte").Err()
	if err == nil {
		t.Fatal("expected an error for invalid UTF-8")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if ve.Errors[0].Type != ErrorTypeInvalidText {
		t.Errorf("expected invalid text error, got %s", ve.Errors[0].Type)
	}
}

func TestValidator_MultipleFields(t *testing.T) {
	err := NewValidator().
		Required("task_id", "").
		MaxLength("task_status", "toolong", 2).
		Err()

	ve := err.(*ValidationError)
	if len(ve.Errors) != 2 || ve.Errors[0].Field != "task_id" || ve.Errors[1].Field != "task_status" {
		t.Errorf("expected one error per field, got %v", ve.Errors)
	}
	first, ok := ve.First()
	if !ok || first.Field != "task_id" {
		t.Errorf("First() = %v, %v", first, ok)
	}
}
