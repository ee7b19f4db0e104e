package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

const tracerName = "github.com/kea-momentum/hackathon-backend-springboot-sub000/service"

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes service use-case events to logger. Rejected
// requests log at warn, infrastructure failures at error.
func NewLogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	switch {
	case event.Err == nil:
		o.logger.InfoContext(ctx, "service_use_case", attrs...)
	case domain.IsValidationError(event.Err):
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.WarnContext(ctx, "service_use_case", attrs...)
	default:
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "service_use_case", attrs...)
	}
}

// Outcome label values for use-case metrics.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case domain.IsValidationError(err):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

// PrometheusUseCaseObserver counts use cases by outcome and records their latency.
type PrometheusUseCaseObserver struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusUseCaseObserver registers the use-case metrics on reg.
func NewPrometheusUseCaseObserver(reg prometheus.Registerer) (*PrometheusUseCaseObserver, error) {
	o := &PrometheusUseCaseObserver{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "momentum_use_case_total",
			Help: "Service use cases executed, by outcome.",
		}, []string{"use_case", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "momentum_use_case_duration_seconds",
			Help:    "Service use case latency.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"use_case"}),
	}
	for _, c := range []prometheus.Collector{o.total, o.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering use case metrics: %w", err)
		}
	}
	return o, nil
}

func (o *PrometheusUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.total.WithLabelValues(event.Name, outcomeOf(event.Err)).Inc()
	o.duration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}

// MultiUseCaseObserver fans every event out to each observer in turn.
type MultiUseCaseObserver []UseCaseObserver

func (m MultiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, o := range m {
		if o != nil {
			o.ObserveUseCase(ctx, event)
		}
	}
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var live MultiUseCaseObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	default:
		return live
	}
}

// useCase is one in-flight service call: a span plus the event handed to the
// observer when it ends.
type useCase struct {
	ctx      context.Context
	name     string
	started  time.Time
	span     trace.Span
	observer UseCaseObserver
	fields   map[string]any
}

func beginUseCase(ctx context.Context, observer UseCaseObserver, name string, fields map[string]any) (context.Context, *useCase) {
	if fields == nil {
		fields = map[string]any{}
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "service."+name,
		trace.WithAttributes(attributesOf(fields)...),
	)
	return ctx, &useCase{
		ctx:      ctx,
		name:     name,
		started:  time.Now().UTC(),
		span:     span,
		observer: observer,
		fields:   fields,
	}
}

// set adds a field reported both on the span and to the observer.
func (u *useCase) set(key string, value any) {
	u.fields[key] = value
	u.span.SetAttributes(attributeOf(key, value))
}

func (u *useCase) end(err error) {
	if err != nil {
		u.span.RecordError(err)
		u.span.SetStatus(codes.Error, err.Error())
	}
	u.span.End()
	u.observer.ObserveUseCase(u.ctx, UseCaseEvent{
		Name:      u.name,
		StartedAt: u.started,
		Duration:  time.Since(u.started),
		Success:   err == nil,
		Err:       err,
		Fields:    u.fields,
	})
}

func attributesOf(fields map[string]any) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(fields))
	for k, v := range fields {
		out = append(out, attributeOf(k, v))
	}
	return out
}

func attributeOf(key string, value any) attribute.KeyValue {
	key = "momentum." + key
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
