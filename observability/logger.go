// Package observability provides structured logging, metrics and tracing for
// the calculator shell.
//
// Logging uses log/slog. Metrics and tracing use OpenTelemetry through the
// global providers. Both have no-op implementations for when they are disabled.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// NewLogger builds a logger writing to w in the given format ("text" or "json").
func NewLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// LogSessionStart logs the start of a shell session.
func LogSessionStart(logger *slog.Logger, sessionID string, strict bool) {
	if logger == nil {
		return
	}
	logger.Info("session starting",
		slog.String("session_id", sessionID),
		slog.Bool("strict", strict),
	)
}

// LogSessionEnd logs the end of a shell session.
func LogSessionEnd(logger *slog.Logger, sessionID string, lines int, err error) {
	if logger == nil {
		return
	}
	attrs := []any{
		slog.String("session_id", sessionID),
		slog.Int("lines", lines),
	}
	if err != nil {
		logger.Error("session ended", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	logger.Info("session ended", attrs...)
}

// LogLineEvaluated logs a successfully evaluated line.
func LogLineEvaluated(logger *slog.Logger, seq int, input string, result float64, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("line evaluated",
		slog.Int("seq", seq),
		slog.String("input", input),
		slog.Float64("result", result),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogLineError logs a line that failed to tokenize or parse.
func LogLineError(logger *slog.Logger, seq int, input, kind string, err error) {
	if logger == nil {
		return
	}
	logger.Debug("line rejected",
		slog.Int("seq", seq),
		slog.String("input", input),
		slog.String("kind", kind),
		slog.String("error", err.Error()),
	)
}

// LogHistoryError logs a history store failure (non-fatal).
func LogHistoryError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("history failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Milliseconds converts d to fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
