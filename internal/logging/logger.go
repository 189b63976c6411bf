package logging

import (
	"log/slog"
	"os"
)

// Logger is a structured logger built on slog
type Logger struct {
	*slog.Logger
}

// NewLogger creates a human-readable debug logger in development and a JSON
// info logger everywhere else.
func NewLogger(isDevelopment bool) *Logger {
	if isDevelopment {
		return New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// New wraps an arbitrary slog handler
func New(handler slog.Handler) *Logger {
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return New(slog.DiscardHandler)
}

// WithFields returns a child logger that always includes the given fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{Logger: l.Logger.With(args...)}
}
