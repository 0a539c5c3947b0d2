package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records calculator metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records one evaluated line. kind is "" on success,
	// otherwise the error kind.
	RecordEvaluation(ctx context.Context, kind string, duration time.Duration)

	// RecordSession records a finished session.
	RecordSession(ctx context.Context, lines int, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	evaluations   metric.Int64Counter
	evalLatency   metric.Float64Histogram
	evalErrors    metric.Int64Counter
	sessions      metric.Int64Counter
	sessionLines  metric.Int64Histogram
	sessionLength metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the default OTel metrics instance.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("gocalc")

	evaluations, err := meter.Int64Counter("gocalc.eval.count",
		metric.WithDescription("Number of evaluated lines"),
	)
	if err != nil {
		return nil, err
	}

	evalLatency, err := meter.Float64Histogram("gocalc.eval.latency_ms",
		metric.WithDescription("Line evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	evalErrors, err := meter.Int64Counter("gocalc.eval.errors",
		metric.WithDescription("Number of lines rejected by the lexer or parser"),
	)
	if err != nil {
		return nil, err
	}

	sessions, err := meter.Int64Counter("gocalc.session.count",
		metric.WithDescription("Number of finished sessions"),
	)
	if err != nil {
		return nil, err
	}

	sessionLines, err := meter.Int64Histogram("gocalc.session.lines",
		metric.WithDescription("Lines evaluated per session"),
	)
	if err != nil {
		return nil, err
	}

	sessionLength, err := meter.Float64Histogram("gocalc.session.duration_ms",
		metric.WithDescription("Session duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations:   evaluations,
		evalLatency:   evalLatency,
		evalErrors:    evalErrors,
		sessions:      sessions,
		sessionLines:  sessionLines,
		sessionLength: sessionLength,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider, which must be configured
// before the first call.
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordEvaluation(ctx context.Context, kind string, duration time.Duration) {
	success := kind == ""
	attrs := metric.WithAttributes(attribute.Bool("success", success))

	m.evaluations.Add(ctx, 1, attrs)
	m.evalLatency.Record(ctx, Milliseconds(duration), attrs)

	if !success {
		m.evalErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}

func (m *otelMetrics) RecordSession(ctx context.Context, lines int, duration time.Duration) {
	m.sessions.Add(ctx, 1)
	m.sessionLines.Record(ctx, int64(lines))
	m.sessionLength.Record(ctx, Milliseconds(duration))
}
