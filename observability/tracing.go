package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartLineSpan starts a span for one input line.
	StartLineSpan(ctx context.Context, sessionID string, seq int) (context.Context, trace.Span)

	// StartStageSpan starts a child span for a pipeline stage
	// ("tokenize", "parse", "evaluate").
	StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry. The tracer is
// looked up on the global provider when the manager is created.
type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager that uses the global OTel tracer
// provider, which must be configured before the call.
func NewSpanManager() SpanManager {
	return &otelSpanManager{tracer: otel.Tracer("gocalc")}
}

func (m *otelSpanManager) StartLineSpan(ctx context.Context, sessionID string, seq int) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "gocalc.line",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.Int("line.seq", seq),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "gocalc."+stage,
		trace.WithAttributes(
			attribute.String("stage", stage),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
