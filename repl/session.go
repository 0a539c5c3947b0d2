// Package repl implements the interactive read-eval-print loop around the
// calculator core.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kr/pretty"

	"go.creack.net/gocalc/ast"
	"go.creack.net/gocalc/calc"
	"go.creack.net/gocalc/config"
	"go.creack.net/gocalc/evaluator"
	"go.creack.net/gocalc/history"
	"go.creack.net/gocalc/observability"
)

// ErrUnknownCommand is returned for an unrecognized ":command".
var ErrUnknownCommand = errors.New("unknown command")

// Session is one run of the shell. Every line is parsed from scratch; the
// session only keeps a counter and the optional history log. A Session is
// not safe for concurrent use.
type Session struct {
	id  string
	cfg config.Config

	logger  *slog.Logger
	store   history.Store
	metrics observability.MetricsRecorder
	spans   observability.SpanManager

	seq int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore records every evaluated line in store. The session does not
// close the store.
func WithStore(store history.Store) Option {
	return func(s *Session) { s.store = store }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithSpans sets the span manager.
func WithSpans(sm observability.SpanManager) Option {
	return func(s *Session) {
		if sm != nil {
			s.spans = sm
		}
	}
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// New creates a session.
func New(cfg config.Config, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		cfg:     cfg,
		logger:  observability.DiscardLogger(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Run reads lines from in until EOF, ":quit" or ctx is done, writing a
// result or an error message to out for each one.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	done := observability.TimedOperation()
	observability.LogSessionStart(s.logger, s.id, s.cfg.Strict)

	lines, err := s.loop(ctx, in, out)

	s.metrics.RecordSession(ctx, lines, done())
	observability.LogSessionEnd(s.logger, s.id, lines, err)
	return err
}

func (s *Session) loop(ctx context.Context, in io.Reader, out io.Writer) (int, error) {
	lines := 0
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return lines, err
		}
		fmt.Fprint(out, s.cfg.Prompt)
		if !scanner.Scan() {
			return lines, scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, ":"):
			quit, err := s.command(line, out)
			if err != nil {
				fmt.Fprintf(out, "error: %s\n", err)
			}
			if quit {
				return lines, nil
			}
			continue
		}

		lines++
		expr, result, err := s.eval(ctx, line)
		s.print(out, expr, result, err)
	}
}

// RunArgs evaluates each argument as one line and prints its result. It
// returns an error if any argument failed.
func (s *Session) RunArgs(ctx context.Context, args []string, out io.Writer) error {
	done := observability.TimedOperation()
	observability.LogSessionStart(s.logger, s.id, s.cfg.Strict)

	var errs []error
	for _, arg := range args {
		expr, result, err := s.eval(ctx, arg)
		s.print(out, expr, result, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("%q: %w", arg, err))
		}
	}
	err := errors.Join(errs...)

	s.metrics.RecordSession(ctx, len(args), done())
	observability.LogSessionEnd(s.logger, s.id, len(args), err)
	return err
}

// Eval evaluates one line: tokenize, parse, evaluate. The line is logged,
// traced, counted and appended to the history store.
func (s *Session) Eval(ctx context.Context, line string) (float64, error) {
	_, result, err := s.eval(ctx, line)
	return result, err
}

func (s *Session) eval(ctx context.Context, line string) (ast.Expr, float64, error) {
	s.seq++
	seq := s.seq
	done := observability.TimedOperation()

	ctx, span := s.spans.StartLineSpan(ctx, s.id, seq)
	expr, err := s.compile(ctx, line)
	var result float64
	if err == nil {
		_, evalSpan := s.spans.StartStageSpan(ctx, "evaluate")
		result = evaluator.Evaluate(expr)
		s.spans.EndSpanWithError(evalSpan, nil)
	}
	s.spans.EndSpanWithError(span, err)

	elapsed := done()
	kind := calc.Kind(err)
	s.metrics.RecordEvaluation(ctx, kind, elapsed)

	if err != nil {
		observability.LogLineError(s.logger, seq, line, kind, err)
	} else {
		observability.LogLineEvaluated(s.logger, seq, line, result, observability.Milliseconds(elapsed))
		if s.logger.Enabled(ctx, slog.LevelDebug) {
			s.logger.Debug("parsed tree", slog.Int("seq", seq), slog.String("tree", pretty.Sprint(expr)))
		}
	}

	s.record(seq, line, result, err)
	return expr, result, err
}

func (s *Session) compile(ctx context.Context, line string) (ast.Expr, error) {
	_, span := s.spans.StartStageSpan(ctx, "tokenize")
	tokens, err := calc.Tokenize(line)
	s.spans.EndSpanWithError(span, err)
	if err != nil {
		return nil, err
	}

	_, span = s.spans.StartStageSpan(ctx, "parse")
	expr, err := calc.Parse(tokens, s.cfg.Strict)
	s.spans.EndSpanWithError(span, err)
	return expr, err
}

func (s *Session) record(seq int, line string, result float64, err error) {
	if s.store == nil {
		return
	}
	e := history.Entry{
		SessionID: s.id,
		Seq:       seq,
		Input:     line,
		Result:    result,
		Kind:      calc.Kind(err),
		Timestamp: time.Now(),
	}
	if err != nil {
		e.Err = err.Error()
	}
	if err := s.store.Append(e); err != nil {
		observability.LogHistoryError(s.logger, "append", err)
	}
}

func (s *Session) print(out io.Writer, expr ast.Expr, result float64, err error) {
	if err != nil {
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}
	if s.cfg.Echo {
		fmt.Fprintf(out, "%s = ", expr.Dump())
	}
	fmt.Fprintf(out, s.cfg.Format+"\n", result)
}
