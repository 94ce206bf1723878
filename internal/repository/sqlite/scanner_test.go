package sqlite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "task-store/internal/errors"
)

// TestScanner implements the Scanner interface for testing
type TestScanner struct {
	data []string
	err  error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}
	if len(dest) != len(ts.data) {
		return errors.New("mismatch in number of destinations")
	}
	for i, d := range dest {
		*(d.(*string)) = ts.data[i]
	}
	return nil
}

// TestRows replays a fixed set of rows.
type TestRows struct {
	rows []*TestScanner
	pos  int
	err  error
}

func (tr *TestRows) Next() bool {
	if tr.pos >= len(tr.rows) {
		return false
	}
	tr.pos++
	return true
}

func (tr *TestRows) Scan(dest ...interface{}) error {
	return tr.rows[tr.pos-1].Scan(dest...)
}

func (tr *TestRows) Err() error { return tr.err }

func row(id, body, status string) *TestScanner {
	return &TestScanner{data: []string{id, body, status}}
}

func TestScanTask(t *testing.T) {
	tests := []struct {
		name           string
		scanner        *TestScanner
		wantValidation bool
		wantErr        bool
	}{
		{name: "valid row", scanner: row("task 1", "description", "05")},
		{name: "empty status", scanner: row("a", "b", "")},
		{name: "status too long", scanner: row("a", "b", "123"), wantValidation: true},
		{name: "blank id", scanner: row(" ", "b", "1"), wantValidation: true},
		{name: "scan failure", scanner: &TestScanner{err: errors.New("bad column")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := ScanTask(tt.scanner)
			switch {
			case tt.wantValidation:
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				assert.Nil(t, task)
			case tt.wantErr:
				require.Error(t, err)
				assert.False(t, apperrors.IsAppError(err), "raw scan errors are wrapped by the caller")
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.scanner.data[0], task.ID().Value())
				assert.Equal(t, tt.scanner.data[1], task.Body().Value())
				assert.Equal(t, tt.scanner.data[2], task.Status().Value())
			}
		})
	}
}

func TestScanTasks(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		tasks, err := ScanTasks(&TestRows{rows: []*TestScanner{row("a", "1", "01"), row("b", "2", "02")}})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "b", tasks[1].ID().Value())
	})

	t.Run("no rows gives empty slice", func(t *testing.T) {
		tasks, err := ScanTasks(&TestRows{})
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("invalid row aborts", func(t *testing.T) {
		rows := &TestRows{rows: []*TestScanner{row("a", "1", "01"), row("b", "2", "toolong"), row("c", "3", "03")}}
		tasks, err := ScanTasks(rows)
		require.Error(t, err)
		assert.Nil(t, tasks)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, 2, rows.pos, "mapping stops at the first bad row")
	})

	t.Run("iteration error", func(t *testing.T) {
		tasks, err := ScanTasks(&TestRows{err: errors.New("connection lost")})
		require.Error(t, err)
		assert.Nil(t, tasks)
	})
}
