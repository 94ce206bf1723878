package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "task-store/internal/errors"
)

func TestNewTaskID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple id", input: "task 1"},
		{name: "uuid style", input: "task-6f1c2d0e"},
		{name: "surrounding whitespace kept", input: "  a  "},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: " \t\n", wantErr: true},
		{name: "invalid utf-8", input: "\xff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewTaskID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
			assert.Equal(t, tt.input, id.Value())
		})
	}
}

func TestNewTaskID_ErrorNamesFieldAndRule(t *testing.T) {
	_, err := NewTaskID("")
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	field, _ := appErr.GetContext("field")
	rule, _ := appErr.GetContext("rule")
	assert.Equal(t, "task_id", field)
	assert.Equal(t, "must not be empty", rule)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestNewTaskBody(t *testing.T) {
	for _, body := range []string{"", "description", "multi\nline", "ünïcödé"} {
		b, err := NewTaskBody(body)
		require.NoError(t, err, "body %q", body)
		assert.Equal(t, body, b.String())
	}

	_, err := NewTaskBody("broken \xc3")
	assert.True(t, apperrors.IsValidation(err))
}

func TestNewTaskStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "empty", input: ""},
		{name: "one char", input: "a"},
		{name: "two chars", input: "05"},
		{name: "two multibyte chars", input: "✓✓"},
		{name: "three chars", input: "123", wantErr: true},
		{name: "three multibyte chars", input: "日本語", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewTaskStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				assert.Contains(t, err.Error(), "task_status")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, s.Value())
		})
	}
}

func TestMustTaskID(t *testing.T) {
	assert.Equal(t, "a", MustTaskID("a").String())
	assert.Panics(t, func() { MustTaskID("") })
}

func TestValueEquality(t *testing.T) {
	a, _ := NewTaskID("x")
	b, _ := NewTaskID("x")
	c, _ := NewTaskID("y")

	assert.True(t, a == b)
	assert.False(t, a == c)
}
