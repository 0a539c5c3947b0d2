package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Providers holds the SDK providers installed by Setup.
type Providers struct {
	logger *slog.Logger
	reader *sdkmetric.ManualReader
	meter  *sdkmetric.MeterProvider
	tracer *sdktrace.TracerProvider
}

// Setup installs global OTel providers. Finished spans and, on Shutdown,
// collected metrics are written to logger at debug level. Disabled signals
// keep the global no-op providers.
func Setup(logger *slog.Logger, metrics, tracing bool) *Providers {
	p := &Providers{logger: logger}
	if metrics {
		p.reader = sdkmetric.NewManualReader()
		p.meter = sdkmetric.NewMeterProvider(sdkmetric.WithReader(p.reader))
		otel.SetMeterProvider(p.meter)
	}
	if tracing {
		p.tracer = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(&logSpanProcessor{logger: logger}))
		otel.SetTracerProvider(p.tracer)
	}
	return p
}

// Metrics returns the recorder matching the installed providers.
func (p *Providers) Metrics() MetricsRecorder {
	if p == nil || p.meter == nil {
		return NoopMetrics{}
	}
	return NewMetricsRecorder()
}

// Spans returns the span manager matching the installed providers.
func (p *Providers) Spans() SpanManager {
	if p == nil || p.tracer == nil {
		return NoopSpanManager{}
	}
	return NewSpanManager()
}

// Shutdown flushes and stops the providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.reader != nil {
		var rm metricdata.ResourceMetrics
		if err := p.reader.Collect(ctx, &rm); err != nil {
			errs = append(errs, err)
		} else {
			logMetrics(p.logger, &rm)
		}
		errs = append(errs, p.meter.Shutdown(ctx))
	}
	if p.tracer != nil {
		errs = append(errs, p.tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func logMetrics(logger *slog.Logger, rm *metricdata.ResourceMetrics) {
	if logger == nil {
		return
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				logger.Debug("metric", slog.String("name", m.Name), slog.Int64("value", total))
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					logger.Debug("metric",
						slog.String("name", m.Name),
						slog.Uint64("count", dp.Count),
						slog.Float64("sum", dp.Sum),
					)
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					logger.Debug("metric",
						slog.String("name", m.Name),
						slog.Uint64("count", dp.Count),
						slog.Int64("sum", dp.Sum),
					)
				}
			}
		}
	}
}

// logSpanProcessor writes every finished span to a logger.
type logSpanProcessor struct {
	logger *slog.Logger
}

var _ sdktrace.SpanProcessor = (*logSpanProcessor)(nil)

func (*logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *logSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if p.logger == nil {
		return
	}
	p.logger.Debug("span",
		slog.String("name", s.Name()),
		slog.String("trace_id", s.SpanContext().TraceID().String()),
		slog.String("status", s.Status().Code.String()),
		slog.Float64("duration_ms", Milliseconds(s.EndTime().Sub(s.StartTime()))),
	)
}

func (*logSpanProcessor) Shutdown(context.Context) error { return nil }

func (*logSpanProcessor) ForceFlush(context.Context) error { return nil }
