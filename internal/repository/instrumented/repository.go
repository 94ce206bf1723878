// Package instrumented wraps a domain.TaskRepository with a trace span,
// metrics and a debug log line per operation. Results and errors of the
// wrapped repository are returned unchanged.
package instrumented

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"task-store/internal/domain"
	apperrors "task-store/internal/errors"
)

const instrumentationName = "task-store/internal/repository"

var (
	attrOperation = attribute.Key("task.operation")
	attrTaskID    = attribute.Key("task.id")
	attrResult    = attribute.Key("result")
)

type Repository struct {
	next     domain.TaskRepository
	tracer   trace.Tracer
	total    metric.Int64Counter
	duration metric.Float64Histogram
	logger   *slog.Logger
}

var _ domain.TaskRepository = (*Repository)(nil)

// New wraps next. Passing noop providers disables the corresponding signal.
func New(next domain.TaskRepository, tp trace.TracerProvider, mp metric.MeterProvider, logger *slog.Logger) (*Repository, error) {
	meter := mp.Meter(instrumentationName)

	total, err := meter.Int64Counter(
		"task.repository.operations",
		metric.WithDescription("Number of task repository operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"task.repository.duration",
		metric.WithDescription("Duration of task repository operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Repository{
		next:     next,
		tracer:   tp.Tracer(instrumentationName),
		total:    total,
		duration: duration,
		logger:   logger,
	}, nil
}

func (r *Repository) FindByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	ctx, done := r.observe(ctx, "find_by_id", attrTaskID.String(id.Value()))
	task, err := r.next.FindByID(ctx, id)
	done(err, attribute.Bool("task.found", task != nil))
	return task, err
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Task, error) {
	ctx, done := r.observe(ctx, "find_all")
	tasks, err := r.next.FindAll(ctx)
	done(err, attribute.Int("task.count", len(tasks)))
	return tasks, err
}

func (r *Repository) Create(ctx context.Context, task domain.Task) error {
	ctx, done := r.observe(ctx, "create", attrTaskID.String(task.ID().Value()))
	err := r.next.Create(ctx, task)
	done(err)
	return err
}

func (r *Repository) Update(ctx context.Context, task domain.Task) error {
	ctx, done := r.observe(ctx, "update", attrTaskID.String(task.ID().Value()))
	err := r.next.Update(ctx, task)
	done(err)
	return err
}

func (r *Repository) Delete(ctx context.Context, id domain.TaskID) (bool, error) {
	ctx, done := r.observe(ctx, "delete", attrTaskID.String(id.Value()))
	deleted, err := r.next.Delete(ctx, id)
	done(err, attribute.Bool("task.deleted", deleted))
	return deleted, err
}

// observe starts a span for op. The returned func ends it and records the
// outcome; extra attributes are added to the span only.
func (r *Repository) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error, ...attribute.KeyValue)) {
	start := time.Now()
	attrs = append(attrs, attrOperation.String(op))
	ctx, span := r.tracer.Start(ctx, "TaskRepository."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)

	return ctx, func(err error, extra ...attribute.KeyValue) {
		defer span.End()

		result := resultOf(err)
		span.SetAttributes(extra...)
		span.SetAttributes(attrResult.String(result))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, apperrors.GetErrorCode(err))
		}

		opts := metric.WithAttributes(attrOperation.String(op), attrResult.String(result))
		r.total.Add(ctx, 1, opts)
		r.duration.Record(ctx, time.Since(start).Seconds(), opts)

		r.logger.DebugContext(ctx, "task repository operation",
			slog.String("operation", op),
			slog.String("result", result),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

func resultOf(err error) string {
	if err == nil {
		return "ok"
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Type.String()
	}
	return "error"
}
