package instrumented

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"clinic/internal/model"
	"clinic/internal/repository"
)

const tracerName = "clinic/internal/repository"

// Repository decorates another Repository with metrics, a span per operation and debug logs.
// Errors from the wrapped repository are returned unchanged.
type Repository[ID comparable, T model.Entity[ID]] struct {
	next    repository.Repository[ID, T]
	backend string
	entity  string
	metrics *Metrics
	tracer  trace.Tracer
	log     *zap.Logger
}

type options struct {
	tracerProvider trace.TracerProvider
	log            *zap.Logger
}

// Option configures Wrap.
type Option func(*options)

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithLogger sets the logger used for per-operation debug entries.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// Wrap decorates next. metrics may be nil to disable metric collection.
func Wrap[ID comparable, T model.Entity[ID]](next repository.Repository[ID, T], backend, entity string, metrics *Metrics, opts ...Option) *Repository[ID, T] {
	o := options{tracerProvider: otel.GetTracerProvider(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[ID, T]{
		next:    next,
		backend: backend,
		entity:  entity,
		metrics: metrics,
		tracer:  o.tracerProvider.Tracer(tracerName),
		log:     o.log.With(zap.String("backend", backend), zap.String("entity", entity)),
	}
}

var (
	_ repository.PatientRepository     = (*Repository[int, model.Patient])(nil)
	_ repository.AppointmentRepository = (*Repository[int, model.Appointment])(nil)
)

// Outcome classifies err into the metric label used for repository operations.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, repository.ErrDuplicateKey):
		return "duplicate_key"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrMalformedSource):
		return "malformed_source"
	case errors.Is(err, repository.ErrIO):
		return "io_failure"
	default:
		return "error"
	}
}

func (r *Repository[ID, T]) observe(ctx context.Context, op string, key any, call func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "repository."+op, trace.WithAttributes(
		attribute.String("repository.backend", r.backend),
		attribute.String("repository.entity", r.entity),
	))
	defer span.End()
	if key != nil {
		span.SetAttributes(attribute.String("repository.key", fmt.Sprint(key)))
	}

	start := time.Now()
	err := call(ctx)
	elapsed := time.Since(start)
	outcome := Outcome(err)

	if r.metrics != nil {
		r.metrics.operations.WithLabelValues(r.backend, r.entity, op, outcome).Inc()
		r.metrics.duration.WithLabelValues(r.backend, r.entity, op).Observe(elapsed.Seconds())
	}

	span.SetAttributes(attribute.String("repository.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}

	fields := []zap.Field{zap.String("operation", op), zap.String("outcome", outcome), zap.Duration("duration", elapsed)}
	if key != nil {
		fields = append(fields, zap.Any("key", key))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	r.log.Debug("repository operation", fields...)
	return err
}

// Add observes next.Add.
func (r *Repository[ID, T]) Add(ctx context.Context, entity T) error {
	return r.observe(ctx, "add", entity.Key(), func(ctx context.Context) error {
		return r.next.Add(ctx, entity)
	})
}

// Get observes next.Get.
func (r *Repository[ID, T]) Get(ctx context.Context, id ID) (T, error) {
	var out T
	err := r.observe(ctx, "get", id, func(ctx context.Context) error {
		var err error
		out, err = r.next.Get(ctx, id)
		return err
	})
	return out, err
}

// Remove observes next.Remove.
func (r *Repository[ID, T]) Remove(ctx context.Context, id ID) error {
	return r.observe(ctx, "remove", id, func(ctx context.Context) error {
		return r.next.Remove(ctx, id)
	})
}

// Update observes next.Update.
func (r *Repository[ID, T]) Update(ctx context.Context, entity T) error {
	return r.observe(ctx, "update", entity.Key(), func(ctx context.Context) error {
		return r.next.Update(ctx, entity)
	})
}

// ListAll observes next.ListAll.
func (r *Repository[ID, T]) ListAll(ctx context.Context) ([]T, error) {
	var out []T
	err := r.observe(ctx, "list_all", nil, func(ctx context.Context) error {
		var err error
		out, err = r.next.ListAll(ctx)
		return err
	})
	return out, err
}

// Close closes the wrapped repository if it holds resources.
func (r *Repository[ID, T]) Close() error {
	if c, ok := r.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
