// Package trace tags every request with an ID, logs its outcome and feeds
// the HTTP latency histogram.
package trace

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type ctxKey struct{}

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDPrefix = "req_"

// Observer receives the outcome of every traced request.
type Observer interface {
	ObserveHTTP(method string, status int, d time.Duration)
}

// Metrics are the in-process request counters.
type Metrics struct {
	TotalRequests int64
	ServerErrors  int64
	BytesWritten  int64
}

// Middleware handles request tracing and logging
type Middleware struct {
	extractIP func(*http.Request) string
	observer  Observer

	total    atomic.Int64
	failures atomic.Int64
	bytes    atomic.Int64
}

// NewMiddleware creates a new trace middleware. observer may be nil.
func NewMiddleware(extractIP func(*http.Request) string, observer Observer) *Middleware {
	return &Middleware{extractIP: extractIP, observer: observer}
}

// Middleware returns HTTP middleware for request tracing
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := incomingRequestID(r)
		if requestID == "" {
			requestID = GenerateRequestID()
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, requestID)
		r = r.WithContext(ctx)
		w.Header().Set(RequestIDHeader, requestID)

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}
		slog.DebugContext(ctx, "HTTP request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)

		m.total.Add(1)
		m.bytes.Add(rw.bytes)
		if rw.status >= 500 {
			m.failures.Add(1)
		}
		if m.observer != nil {
			m.observer.ObserveHTTP(r.Method, rw.status, duration)
		}

		slog.Log(ctx, levelFor(rw.status), "HTTP request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status_code", rw.status,
			"bytes", rw.bytes,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	})
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// incomingRequestID accepts an upstream ID only in our own format.
func incomingRequestID(r *http.Request) string {
	id := r.Header.Get(RequestIDHeader)
	raw, ok := strings.CutPrefix(id, requestIDPrefix)
	if !ok {
		return ""
	}
	if _, err := uuid.Parse(raw); err != nil {
		return ""
	}
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

// GenerateRequestID returns a fresh "req_<uuid>" identifier.
func GenerateRequestID() string {
	return requestIDPrefix + uuid.NewString()
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromRequest extracts the request ID from the request context.
func FromRequest(r *http.Request) string {
	return GetRequestID(r.Context())
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests: m.total.Load(),
		ServerErrors:  m.failures.Load(),
		BytesWritten:  m.bytes.Load(),
	}
}
