package knn

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with knn-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogClassify logs a single classification.
func (l *Logger) LogClassify(ctx context.Context, query int, label int, err error) {
	if err != nil {
		l.WarnContext(ctx, "classify failed",
			"query", query,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "classify completed",
			"query", query,
			"label", label,
		)
	}
}

// LogBatch logs a batch classification.
func (l *Logger) LogBatch(ctx context.Context, count, unresolved int, elapsed time.Duration, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "batch classify failed",
			"total", count,
			"error", err,
		)
	case unresolved > 0:
		l.WarnContext(ctx, "batch classify completed with unresolved queries",
			"total", count,
			"unresolved", unresolved,
			"resolved", count-unresolved,
			"elapsed", elapsed,
		)
	default:
		l.InfoContext(ctx, "batch classify completed",
			"count", count,
			"elapsed", elapsed,
		)
	}
}

// LogLoad logs a dataset load.
func (l *Logger) LogLoad(ctx context.Context, name string, rows, dim int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset load failed",
			"name", name,
			"rows", rows,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "dataset loaded",
		"name", name,
		"rows", rows,
		"dimension", dim,
		"elapsed", elapsed,
	)
}
