package logging

import (
	"bytes"
	"testing"
)

func TestDebugEnabled(t *testing.T) {
	t.Setenv(DebugEnv, "")
	if DebugEnabled() {
		t.Error("DebugEnabled() should return false when TASKS_DEBUG is empty")
	}

	t.Setenv(DebugEnv, "1")
	if !DebugEnabled() {
		t.Error("DebugEnabled() should return true when TASKS_DEBUG is set")
	}
}

func TestDebugf(t *testing.T) {
	var buf bytes.Buffer
	original := debugOut
	debugOut = &buf
	t.Cleanup(func() { debugOut = original })

	t.Setenv(DebugEnv, "")
	Debugf("hidden %s", "line")
	if buf.Len() != 0 {
		t.Errorf("Debugf wrote %q with debug disabled", buf.String())
	}

	t.Setenv(DebugEnv, "1")
	Debugf("applied %s migration %d", "sqlite", 1)
	if got, want := buf.String(), "debug: applied sqlite migration 1\n"; got != want {
		t.Errorf("Debugf wrote %q, want %q", got, want)
	}
}
