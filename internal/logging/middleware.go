package logging

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// LoggerContextKey is the key for the logger in the request context
	LoggerContextKey ContextKey = "logger"

	requestStateKey ContextKey = "request_state"
)

// requestState is filled in by handlers further down the chain and read
// back when the request completes.
type requestState struct {
	userID string
}

// RequestLogger is a middleware that logs HTTP requests and puts a
// request-scoped logger into the context. The completion line carries the
// authenticated user when WithUserID was called during the request.
func RequestLogger(logger *Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.WithFields(map[string]any{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"remote_ip":  r.RemoteAddr,
			})

			reqLogger.Debug("request started")

			state := &requestState{}
			ctx := context.WithValue(WithLogger(r.Context(), reqLogger), requestStateKey, state)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			logLevel := slog.LevelInfo
			if status >= 500 {
				logLevel = slog.LevelError
			} else if status >= 400 {
				logLevel = slog.LevelWarn
			}

			attrs := []any{
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if state.userID != "" {
				attrs = append(attrs, "user_id", state.userID)
			}
			reqLogger.Log(r.Context(), logLevel, "request completed", attrs...)
		})
	}
}

// WithUserID tags the current request with the authenticated user. The
// returned context carries a logger with a user_id field, and the request
// logger reports the id on completion.
func WithUserID(ctx context.Context, userID string) context.Context {
	if state, ok := ctx.Value(requestStateKey).(*requestState); ok {
		state.userID = userID
	}
	return WithLogger(ctx, GetLoggerFromContext(ctx).WithFields(map[string]any{"user_id": userID}))
}

// WithLogger stores the logger in ctx
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// GetLoggerFromContext retrieves the logger from the request context
func GetLoggerFromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return Discard()
}
