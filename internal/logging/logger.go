// Package logging provides structured logging for docshell built on
// log/slog, with component-scoped child loggers used across the server,
// loader, and watcher subsystems.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the structured logging interface used throughout docshell.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
	Error(ctx context.Context, err error, msg string, fields ...interface{})

	With(fields ...interface{}) Logger
	WithComponent(component string) Logger
}

// Config holds logger construction options.
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "text" or "json"
	Output io.Writer
}

// DefaultConfig returns the logger configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "text",
		Output: os.Stderr,
	}
}

type shellLogger struct {
	logger    *slog.Logger
	component string
}

// NewLogger creates a structured logger from the given configuration.
func NewLogger(config *Config) Logger {
	if config == nil {
		config = DefaultConfig()
	}
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(config.Level)}

	var handler slog.Handler
	if strings.EqualFold(config.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &shellLogger{logger: slog.New(handler)}
}

// NewTestLogger returns a logger that discards all output, for use in tests.
func NewTestLogger() Logger {
	return NewLogger(&Config{Level: "error", Output: io.Discard})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *shellLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.logger.DebugContext(ctx, msg, l.args(nil, fields)...)
}

func (l *shellLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.logger.InfoContext(ctx, msg, l.args(nil, fields)...)
}

func (l *shellLogger) Warn(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.logger.WarnContext(ctx, msg, l.args(err, fields)...)
}

func (l *shellLogger) Error(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.logger.ErrorContext(ctx, msg, l.args(err, fields)...)
}

func (l *shellLogger) With(fields ...interface{}) Logger {
	return &shellLogger{
		logger:    l.logger.With(fields...),
		component: l.component,
	}
}

func (l *shellLogger) WithComponent(component string) Logger {
	return &shellLogger{
		logger:    l.logger.With("component", component),
		component: component,
	}
}

// args appends the error field, keeping slog's key/value pairing intact.
func (l *shellLogger) args(err error, fields []interface{}) []interface{} {
	if len(fields)%2 != 0 {
		fields = append(fields, "(missing)")
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
	}
	return fields
}
