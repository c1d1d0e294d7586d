package astarnn

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger with astarnn-specific context: one wrapper type,
// a handful of level constructors, and domain helpers that log success at
// Debug/Info and failure at Error with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. A nil handler falls
// back to a text handler on stderr at Info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NoopLogger discards everything logged through it.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(1000)}))}
}

// WithEngineID tags the logger with an engine identity so log lines from
// several engines sharing one process can be correlated.
func (l *Logger) WithEngineID(id uuid.UUID) *Logger {
	return &Logger{Logger: l.Logger.With("engine_id", id.String())}
}

// LogConstruct logs engine construction.
func (l *Logger) LogConstruct(ctx context.Context, n int, rho float64, numShells int, numProbes int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "engine construction failed",
			"dim", n, "rho", rho, "num_shells", numShells, "error", err)
		return
	}
	l.InfoContext(ctx, "engine constructed",
		"dim", n, "rho", rho, "num_shells", numShells, "num_probes", numProbes, "duration", d)
}

// LogQuery logs a single query of the given kind ("nearest", "delaunay",
// "extended").
func (l *Logger) LogQuery(ctx context.Context, kind string, matches int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed", "kind", kind, "error", err)
		return
	}
	l.DebugContext(ctx, "query completed", "kind", kind, "matches", matches, "duration", d)
}
