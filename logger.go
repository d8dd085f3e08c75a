package topo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with pipeline-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithJob adds a job identifier field to the logger.
func (l *Logger) WithJob(jobID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("job_id", jobID),
	}
}

// WithCloud adds point-cloud shape fields to the logger.
func (l *Logger) WithCloud(n, dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("points", n, "dimension", dim),
	}
}

// LogKNN logs a k-nearest-neighbor stage.
func (l *Logger) LogKNN(ctx context.Context, n, k int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "knn failed",
			"points", n,
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "knn completed",
			"points", n,
			"k", k,
		)
	}
}

// LogPersistence logs a persistence computation stage.
func (l *Logger) LogPersistence(ctx context.Context, dim, pairs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "persistence failed",
			"homology_dim", dim,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "persistence completed",
			"homology_dim", dim,
			"pairs", pairs,
		)
	}
}

// LogExtraction logs a candidate extraction stage.
func (l *Logger) LogExtraction(ctx context.Context, dim, candidates int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "extraction failed",
			"homology_dim", dim,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "extraction completed",
			"homology_dim", dim,
			"candidates", candidates,
		)
	}
}

// LogPipeline logs a full pipeline run.
func (l *Logger) LogPipeline(ctx context.Context, n, dim int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "pipeline failed",
			"points", n,
			"dimension", dim,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "pipeline completed",
			"points", n,
			"dimension", dim,
		)
	}
}
