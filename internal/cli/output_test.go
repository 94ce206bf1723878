package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-store/internal/domain"
)

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	p, err := newPrinter(&buf, FormatTable)
	require.NoError(t, err)

	tasks := []domain.Task{
		mustTask(t, "a", "first task", "OK"),
		mustTask(t, "bbbb", "", ""),
	}
	require.NoError(t, p.Tasks(tasks))

	want := "ID    STATUS  BODY\n" +
		"a     OK      first task\n" +
		"bbbb          \n"
	assert.Equal(t, want, buf.String())
}

func TestPrinter_JSONSingle(t *testing.T) {
	var buf bytes.Buffer
	p, err := newPrinter(&buf, FormatJSON)
	require.NoError(t, err)

	require.NoError(t, p.Task(mustTask(t, "a", "line\nbreak", "é")))
	assert.JSONEq(t, `{"id":"a","body":"line\nbreak","status":"é"}`, buf.String())

	buf.Reset()
	require.NoError(t, p.Message("Deleted task %s", "a"))
	assert.Empty(t, buf.String())
}

func TestNewPrinter_Unsupported(t *testing.T) {
	_, err := newPrinter(&bytes.Buffer{}, "csv")
	assert.Error(t, err)
}

func mustTask(t *testing.T, id, body, status string) domain.Task {
	t.Helper()
	task, err := domain.ParseTask(id, body, status)
	require.NoError(t, err)
	return task
}
