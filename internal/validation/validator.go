package validation

import (
	"strings"
	"unicode/utf8"
)

// Validator accumulates field errors. Rules for a field stop at the first
// failure so a single field never reports two contradictory problems.
type Validator struct {
	errs   *ValidationError
	failed map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errs:   NewValidationError(),
		failed: make(map[string]bool),
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsWithinMaxLength reports whether s has at most max characters (runes).
func IsWithinMaxLength(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}

// ValidText requires the value to be well-formed UTF-8.
func (v *Validator) ValidText(field, value string) *Validator {
	if v.failed[field] || utf8.ValidString(value) {
		return v
	}
	v.fail(field)
	v.errs.AddInvalidTextError(field)
	return v
}

// Required rejects empty and whitespace-only values.
func (v *Validator) Required(field, value string) *Validator {
	if v.failed[field] || IsNonEmptyString(value) {
		return v
	}
	v.fail(field)
	v.errs.AddRequiredError(field)
	return v
}

// MaxLength rejects values longer than max characters.
func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if v.failed[field] || IsWithinMaxLength(value, max) {
		return v
	}
	v.fail(field)
	v.errs.AddMaxLengthError(field, max)
	return v
}

func (v *Validator) fail(field string) {
	v.failed[field] = true
}

// Err returns the collected errors, or nil when every rule passed.
func (v *Validator) Err() error {
	if !v.errs.HasErrors() {
		return nil
	}
	return v.errs
}
