// Package logger provides structured logging built on log/slog with
// context-first call sites so trace IDs can travel with every record.
package logger

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Level represents a logging level.
type Level slog.Level

// Logging levels.
const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// TraceIDFn extracts a trace id from the context for log correlation.
type TraceIDFn func(ctx context.Context) string

// LoggerInterface is the logging surface passed around the application.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}

// Logger wraps slog with service metadata and optional trace id extraction.
type Logger struct {
	handler slog.Handler
	traceID TraceIDFn
}

// New constructs a Logger writing JSON records to w at the given level.
// traceIDFn may be nil.
func New(w io.Writer, minLevel Level, serviceName string, traceIDFn TraceIDFn) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.Level(minLevel)})
	h := handler.WithAttrs([]slog.Attr{slog.String("service", serviceName)})
	return &Logger{handler: h, traceID: traceIDFn}
}

// Debug logs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelDebug, msg, args)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelInfo, msg, args)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelWarn, msg, args)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelError, msg, args)
}

func (l *Logger) write(ctx context.Context, level slog.Level, msg string, args []any) {
	if !l.handler.Enabled(ctx, level) {
		return
	}

	r := slog.NewRecord(time.Now(), level, msg, 0)
	if l.traceID != nil {
		if id := l.traceID(ctx); id != "" {
			r.AddAttrs(slog.String("trace_id", id))
		}
	}
	r.Add(args...)

	_ = l.handler.Handle(ctx, r)
}
