package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "task-store/internal/errors"
)

func TestParseTask(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		body      string
		status    string
		wantField string
	}{
		{name: "valid", id: "task 1", body: "description", status: "05"},
		{name: "empty body and status", id: "a", body: "", status: ""},
		{name: "empty id", id: "", body: "b", status: "s", wantField: "task_id"},
		{name: "long status", id: "a", body: "b", status: "123", wantField: "task_status"},
		{name: "first failure wins", id: " ", body: "b", status: "123", wantField: "task_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := ParseTask(tt.id, tt.body, tt.status)
			if tt.wantField != "" {
				require.Error(t, err)
				appErr, ok := apperrors.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
				field, _ := appErr.GetContext("field")
				assert.Equal(t, tt.wantField, field)
				assert.True(t, task.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, task.ID().Value())
			assert.Equal(t, tt.body, task.Body().Value())
			assert.Equal(t, tt.status, task.Status().Value())
			assert.False(t, task.IsZero())
		})
	}
}

func TestTask_Equality(t *testing.T) {
	a, err := ParseTask("task 1", "description", "05")
	require.NoError(t, err)
	b, err := ParseTask("task 1", "description", "05")
	require.NoError(t, err)
	c, err := ParseTask("task 1", "description", "06")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.True(t, a == b)
	assert.NotEqual(t, a, c)
}

func TestTask_WithBodyAndStatus(t *testing.T) {
	original, err := ParseTask("task 1", "description", "05")
	require.NoError(t, err)

	body, _ := NewTaskBody("new description")
	status, _ := NewTaskStatus("06")
	updated := original.WithBody(body).WithStatus(status)

	assert.Equal(t, "description", original.Body().Value())
	assert.Equal(t, "05", original.Status().Value())
	assert.Equal(t, original.ID(), updated.ID())
	assert.Equal(t, "new description", updated.Body().Value())
	assert.Equal(t, "06", updated.Status().Value())
}

func TestTask_String(t *testing.T) {
	task, err := ParseTask("task 1", "description", "05")
	require.NoError(t, err)
	assert.Equal(t, "task 1 [05] description", task.String())
}

func TestTask_IsZero(t *testing.T) {
	assert.True(t, Task{}.IsZero())
	assert.False(t, NewTask(MustTaskID("a"), TaskBody{}, TaskStatus{}).IsZero())
}
