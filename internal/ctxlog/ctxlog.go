// Package ctxlog provides context-aware structured logging utilities.
package ctxlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Options configure the logger installed by Setup.
type Options struct {
	// Dir receives one JSON log file per run. Empty logs to stderr only.
	Dir   string
	Level slog.Level
}

// Setup installs a JSON logger for app as the slog default and stores it in ctx.
// The returned closer releases the log file, if any.
func Setup(ctx context.Context, app string, opts Options) (context.Context, io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if opts.Dir != "" {
		err := os.MkdirAll(opts.Dir, 0755)
		if err != nil {
			return ctx, nil, fmt.Errorf("create log dir: %w", err)
		}

		name := app + "-" + time.Now().Format("2006-01-02-15-04-05.log")
		logFile, err := os.Create(filepath.Join(opts.Dir, name))
		if err != nil {
			return ctx, nil, fmt.Errorf("create log file: %w", err)
		}

		w = io.MultiWriter(os.Stderr, logFile)
		closer = logFile
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})).With("app", app)
	slog.SetDefault(logger)

	return Store(ctx, logger), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type ctxKey struct{}

var key ctxKey

func Store(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, key, log)
}

func Get(ctx context.Context) *slog.Logger {
	log, ok := ctx.Value(key).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return log
}

// Close closes closer and logs a failure under name.
func Close(ctx context.Context, name string, closer io.Closer) error {
	logger := Get(ctx)
	err := closer.Close()
	if err != nil {
		logger.Error("failed to close", "closer", name, "error", err)
		return err
	}
	return nil
}

func With(ctx context.Context, kv ...any) context.Context {
	return Store(ctx, Get(ctx).With(kv...))
}

// ParseLevel maps a config level name to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}
