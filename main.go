package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"go.creack.net/gocalc/config"
	"go.creack.net/gocalc/history"
	"go.creack.net/gocalc/observability"
	"go.creack.net/gocalc/repl"
)

// errFailedLines is returned when a non-interactive expression failed. The
// failure itself has already been printed.
var errFailedLines = errors.New("some expressions failed")

type cli struct {
	Config    string `short:"c" type:"path" help:"Configuration file (.yaml, .yml or .json)."`
	Prompt    string `help:"Prompt printed before each line."`
	Format    string `help:"fmt verb used to print results (default %g)."`
	Lenient   bool   `help:"Ignore tokens left over after the first complete expression."`
	Echo      bool   `help:"Print the parsed tree before each result."`
	History   string `help:"History database path, or :memory:."`
	NoHistory bool   `help:"Do not record history."`
	LogLevel  string `help:"Log level (debug, info, warn, error)."`
	LogFormat string `help:"Log format (text, json)."`
	Metrics   bool   `help:"Collect metrics and log them on exit."`
	Tracing   bool   `help:"Trace every line and log spans at debug level."`

	Exprs []string `arg:"" optional:"" name:"expr" help:"Expressions to evaluate. Reads stdin when none are given."`
}

// load builds the effective configuration: defaults, then the config file,
// then flags.
func (c *cli) load() (config.Config, error) {
	cfg := config.Default()
	if c.Config != "" {
		var err error
		if cfg, err = config.FromFile(c.Config); err != nil {
			return config.Config{}, err
		}
	}

	if c.Prompt != "" {
		cfg.Prompt = c.Prompt
	}
	if c.Format != "" {
		cfg.Format = c.Format
	}
	if c.Lenient {
		cfg.Strict = false
	}
	if c.Echo {
		cfg.Echo = true
	}
	if c.History != "" {
		cfg.History.Enabled = true
		cfg.History.Path = c.History
	}
	if c.NoHistory {
		cfg.History.Enabled = false
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Log.Format = c.LogFormat
	}
	if c.Metrics {
		cfg.Telemetry.Metrics = true
	}
	if c.Tracing {
		cfg.Telemetry.Tracing = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(ctx context.Context, c *cli) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(os.Stderr, level, cfg.Log.Format)
	if err != nil {
		return err
	}

	providers := observability.Setup(logger, cfg.Telemetry.Metrics, cfg.Telemetry.Tracing)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	opts := []repl.Option{
		repl.WithLogger(logger),
		repl.WithMetrics(providers.Metrics()),
		repl.WithSpans(providers.Spans()),
	}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.HistoryPath())
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer func() { _ = store.Close() }() // Best effort.
		opts = append(opts, repl.WithStore(store))
	}

	session := repl.New(cfg, opts...)
	if len(c.Exprs) > 0 {
		if err := session.RunArgs(ctx, c.Exprs, os.Stdout); err != nil {
			logger.Debug("expressions failed", slog.String("error", err.Error()))
			return errFailedLines
		}
		return nil
	}

	if err := session.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("gocalc"),
		kong.Description("Evaluate arithmetic expressions with + - * / and parentheses."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, &c)
	stop()

	if errors.Is(err, errFailedLines) {
		os.Exit(1)
	}
	kctx.FatalIfErrorf(err)
}
