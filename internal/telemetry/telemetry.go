// Package telemetry registers the global OpenTelemetry tracer and meter
// providers that the instrumented task repository reports to.
//
//	shutdown, err := telemetry.Setup(ctx, telemetry.Options{ServiceName: "task-store"})
//	defer shutdown(ctx)
//
// The stdout exporter writes to Options.Writer (stderr by default) so that
// command output on stdout stays machine readable.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Supported exporters.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// ErrUnsupportedExporter is returned for an exporter name other than
// ExporterStdout or ExporterOTLP.
var ErrUnsupportedExporter = errors.New("unsupported telemetry exporter")

// Options selects where spans and metrics go.
type Options struct {
	ServiceName string
	// Exporter is ExporterStdout (the default when empty) or ExporterOTLP.
	Exporter string
	// Endpoint is the OTLP/HTTP collector URL, e.g. http://localhost:4318.
	Endpoint string
	// Writer receives stdout exporter output. Defaults to os.Stderr.
	Writer io.Writer
}

// ShutdownFunc flushes and stops the registered providers.
type ShutdownFunc func(context.Context) error

// Setup registers a global TracerProvider, MeterProvider and propagator.
func Setup(ctx context.Context, opts Options) (ShutdownFunc, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	if opts.Exporter == "" {
		opts.Exporter = ExporterStdout
	}

	tp, err := InitTracer(ctx, opts)
	if err != nil {
		return nil, err
	}

	mp, err := InitMeter(ctx, opts)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

// InitTracer creates and registers a global TracerProvider. The caller owns
// its shutdown.
func InitTracer(ctx context.Context, opts Options) (*sdktrace.TracerProvider, error) {
	res, err := newResource(opts.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	exporter, err := newSpanExporter(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}

// InitMeter creates and registers a global MeterProvider.
func InitMeter(ctx context.Context, opts Options) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(opts.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	exporter, err := newMetricExporter(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newSpanExporter(ctx context.Context, opts Options) (sdktrace.SpanExporter, error) {
	switch opts.Exporter {
	case ExporterStdout, "":
		w := opts.Writer
		if w == nil {
			w = os.Stderr
		}
		return stdouttrace.New(stdouttrace.WithWriter(w))
	case ExporterOTLP:
		o := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort(opts.Endpoint))}
		if !isHTTPS(opts.Endpoint) {
			o = append(o, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, o...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExporter, opts.Exporter)
	}
}

func newMetricExporter(ctx context.Context, opts Options) (sdkmetric.Exporter, error) {
	switch opts.Exporter {
	case ExporterStdout, "":
		w := opts.Writer
		if w == nil {
			w = os.Stderr
		}
		return stdoutmetric.New(stdoutmetric.WithWriter(w))
	case ExporterOTLP:
		o := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(hostPort(opts.Endpoint))}
		if !isHTTPS(opts.Endpoint) {
			o = append(o, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, o...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExporter, opts.Exporter)
	}
}

// hostPort reduces "http://collector:4318" to "collector:4318".
func hostPort(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

func isHTTPS(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	return u.Scheme == "https"
}
