package vecstats

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with decorator-specific context.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithIndex adds scope and index name fields to the logger.
func (l *Logger) WithIndex(scope, name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("scope", scope, "index", name),
	}
}

// LogAccuracy logs a completed accuracy measurement.
func (l *Logger) LogAccuracy(ctx context.Context, k, overlap, groundTruth, accuracy int) {
	l.DebugContext(ctx, "accuracy measured",
		"k", k,
		"overlap", overlap,
		"ground_truth", groundTruth,
		"accuracy", accuracy,
	)
}

// LogAccuracySkipped logs a measurement that produced no sample.
func (l *Logger) LogAccuracySkipped(ctx context.Context, k int, reason string) {
	l.DebugContext(ctx, "accuracy measurement skipped",
		"k", k,
		"reason", reason,
	)
}

// LogAccuracyDropped logs a sampled call whose measurement could not be scheduled.
func (l *Logger) LogAccuracyDropped(ctx context.Context, k int, reason string) {
	l.WarnContext(ctx, "accuracy measurement dropped",
		"k", k,
		"reason", reason,
	)
}

// LogAccuracyFailure logs a failed accuracy measurement.
func (l *Logger) LogAccuracyFailure(ctx context.Context, k int, err error) {
	l.ErrorContext(ctx, "accuracy measurement failed",
		"k", k,
		"error", err,
	)
}

// LogClose logs decorator shutdown with the final sampling counters.
func (l *Logger) LogClose(ctx context.Context, stats Stats) {
	l.InfoContext(ctx, "statistics decorator closed",
		"sampled", stats.Sampled,
		"measured", stats.Measured,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"dropped", stats.Dropped,
		"rate_limited", stats.RateLimited,
	)
}
