// Package http serves the dashboard: the full page, the HTMX report
// partial, the chart JSON, the workbook export and the async report queue.
package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"bikeshare/internal/core"
)

// HTMX events emitted by the dashboard.
const (
	eventRangeChanged = "range:changed"
	eventReportQueued = "report:queued"
	eventNotification = "show-notification"
)

// NotificationType selects the styling of a client-side notification.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

type rangePayload struct {
	ID    string `json:"id,omitempty"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func newRangePayload(r core.DateRange) rangePayload {
	return rangePayload{Start: r.Start.String(), End: r.End.String()}
}

type notificationPayload struct {
	Type     NotificationType `json:"type"`
	Message  string           `json:"message"`
	Duration int64            `json:"duration"`
}

// HTMXResponseBuilder assembles an HTMX response: status, HX-* headers and
// an HTML fragment.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    http.Header
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(http.Header),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named event to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerRangeChanged tells the page which range the swapped report covers.
func (b *HTMXResponseBuilder) TriggerRangeChanged(r core.DateRange) *HTMXResponseBuilder {
	return b.Trigger(eventRangeChanged, newRangePayload(r))
}

// TriggerReportQueued announces an accepted async report request.
func (b *HTMXResponseBuilder) TriggerReportQueued(id string, r core.DateRange) *HTMXResponseBuilder {
	p := newRangePayload(r)
	p.ID = id
	return b.Trigger(eventReportQueued, p)
}

// Notify shows a transient notification; errors stay up longer.
func (b *HTMXResponseBuilder) Notify(kind NotificationType, message string) *HTMXResponseBuilder {
	d := 3 * time.Second
	if kind == NotificationError {
		d = 5 * time.Second
	}
	return b.Trigger(eventNotification, notificationPayload{Type: kind, Message: message, Duration: d.Milliseconds()})
}

// PushRange records the range in the browser history so reloads keep it.
func (b *HTMXResponseBuilder) PushRange(r core.DateRange) *HTMXResponseBuilder {
	return b.Header("HX-Push-Url", "/?"+rangeQuery(r))
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers.Set(name, value)
	return b
}

// BodyString sets a plain-text body.
func (b *HTMXResponseBuilder) BodyString(content string) *HTMXResponseBuilder {
	b.body = []byte(content)
	return b
}

// BodyHTML sets an HTML fragment body.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers.Set("Content-Type", "text/html; charset=utf-8")
	b.body = []byte(html)
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, values := range b.headers {
		w.Header()[name] = values
	}
	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse renders message, HTML-escaped, in an error fragment.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func ServiceUnavailableError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusServiceUnavailable, message)
}

// MethodNotAllowedError answers 405 with the Allow header set.
func MethodNotAllowedError(allowedMethods string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}
