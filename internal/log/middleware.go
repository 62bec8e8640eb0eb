package log

import (
	"context"
	"log/slog"
	"net/http"

	"bikeshare/internal/core"
)

type ctxKey struct{}

// NewContext returns ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request logger, or one around the slog default
// tagged "unknown".
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return logger
	}
	return wrap(slog.Default(), "unknown")
}

// Middleware puts logger into every request context.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), logger)))
		})
	}
}

// RequestIDMiddleware tags the request logger with the request ID.
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := FromContext(r.Context()).With(FieldRequestID, extractRequestID(r))
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), logger)))
		})
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogReport logs one computed report at Info, or Error when err is set.
func (sl *StructuredLogger) LogReport(ctx context.Context, surface string, r core.DateRange, daily, hourly int, durationMs int64, err error) {
	fields := NewFields().
		WithRange(r).
		WithOperation(OpReport).
		WithError(err)
	fields[FieldSurface] = surface
	fields[FieldDailyRows] = daily
	fields[FieldHourlyRows] = hourly
	fields[FieldDuration] = durationMs

	if err != nil {
		sl.logger.ErrorContext(ctx, "Report failed", fields.ToSlice()...)
		return
	}
	sl.logger.InfoContext(ctx, "Report computed", fields.ToSlice()...)
}
