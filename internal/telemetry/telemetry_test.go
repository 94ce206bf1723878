package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	tp := otel.GetTracerProvider()
	mp := otel.GetMeterProvider()
	prop := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
		otel.SetTextMapPropagator(prop)
	})
}

func TestSetup_StdoutWritesSpansAndMetrics(t *testing.T) {
	restoreGlobals(t)
	ctx := context.Background()
	var buf bytes.Buffer

	shutdown, err := Setup(ctx, Options{ServiceName: "task-store-test", Writer: &buf})
	require.NoError(t, err)

	_, span := otel.Tracer("telemetry-test").Start(ctx, "TaskRepository.create")
	span.End()

	counter, err := otel.Meter("telemetry-test").Int64Counter("task.repository.operations")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	require.NoError(t, shutdown(ctx))

	out := buf.String()
	assert.Contains(t, out, "TaskRepository.create")
	assert.Contains(t, out, "task.repository.operations")
	assert.Contains(t, out, "task-store-test")
}

func TestSetup_SetsGlobalPropagator(t *testing.T) {
	restoreGlobals(t)
	ctx := context.Background()

	shutdown, err := Setup(ctx, Options{ServiceName: "svc", Writer: &bytes.Buffer{}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(ctx) })

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}

func TestSetup_OTLP(t *testing.T) {
	restoreGlobals(t)
	ctx := context.Background()

	shutdown, err := Setup(ctx, Options{
		ServiceName: "svc",
		Exporter:    ExporterOTLP,
		Endpoint:    "http://localhost:4318",
	})
	require.NoError(t, err)
	// no collector is listening, so the flush on shutdown may fail
	_ = shutdown(ctx)
}

func TestSetup_UnsupportedExporter(t *testing.T) {
	restoreGlobals(t)

	_, err := Setup(context.Background(), Options{ServiceName: "svc", Exporter: "zipkin"})
	assert.ErrorIs(t, err, ErrUnsupportedExporter)
}

func TestHostPort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://collector:4318", "collector:4318"},
		{"https://otel.example.com", "otel.example.com"},
		{"collector:4318", "collector:4318"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hostPort(tt.in), tt.in)
	}
}

func TestIsHTTPS(t *testing.T) {
	assert.True(t, isHTTPS("https://otel.example.com"))
	assert.False(t, isHTTPS("http://localhost:4318"))
	assert.False(t, isHTTPS("localhost:4318"))
}
