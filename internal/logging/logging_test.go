package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"hello"`},
		{"text", "msg=hello"},
		{"", "msg=hello"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			New("info", tt.format, &buf).Info("hello")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "text", &buf)

	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("info message should be filtered at warn level, got %q", buf.String())
	}

	logger.Warn("loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("warn message missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if ValidLevel("verbose") || !ValidLevel("Debug") {
		t.Error("ValidLevel mismatch")
	}
}

func TestRedaction(t *testing.T) {
	tests := []struct {
		name   string
		attr   slog.Attr
		secret string
	}{
		{"password field", slog.String("password", "hunter2"), "hunter2"},
		{"database_url field", slog.String("database_url", "postgres://app:hunter2@db/tasks"), "hunter2"},
		{"dsn inside message attr", slog.String("detail", "dial postgres://app:hunter2@db:5432/tasks failed"), "hunter2"},
		{"keyword dsn", slog.String("detail", "host=db password=hunter2 dbname=tasks"), "hunter2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New("info", "json", &buf).Info("connect", tt.attr)
			if strings.Contains(buf.String(), tt.secret) {
				t.Errorf("secret leaked into log output: %q", buf.String())
			}
		})
	}
}

func TestRedaction_KeepsOrdinaryFields(t *testing.T) {
	var buf bytes.Buffer
	New("info", "json", &buf).Info("task created", slog.String("task_id", "task 1"))
	if !strings.Contains(buf.String(), `"task_id":"task 1"`) {
		t.Errorf("ordinary field was altered: %q", buf.String())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Error("FromContext without logger should return slog.Default()")
	}

	logger := Discard()
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("FromContext should return the stored logger")
	}

	fallback := Discard()
	if FromContextOr(context.Background(), fallback) != fallback {
		t.Error("FromContextOr without logger should return the fallback")
	}
	if FromContextOr(ctx, fallback) != logger {
		t.Error("FromContextOr should prefer the stored logger")
	}
}
