package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bikeshare/internal/core"
)

var summerRange = core.NewDateRange(core.NewDate(2011, 6, 1), core.NewDate(2012, 6, 1))

func TestHTMXResponseBuilder_RangeSwap(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerRangeChanged(summerRange).
		PushRange(summerRange).
		BodyHTML(`<section id="report"></section>`).
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("HX-Push-Url"); got != "/?start=2011-06-01&end=2012-06-01" {
		t.Errorf("HX-Push-Url = %q", got)
	}
	if got := w.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}

	var triggers map[string]map[string]string
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	got := triggers["range:changed"]
	if got["start"] != "2011-06-01" || got["end"] != "2012-06-01" {
		t.Errorf("range:changed payload = %v", got)
	}
	if _, ok := got["id"]; ok {
		t.Errorf("range:changed should not carry an id: %v", got)
	}
}

func TestHTMXResponseBuilder_QueuedWithNotification(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusAccepted).
		TriggerReportQueued("abc", summerRange).
		Notify(NotificationSuccess, "Report queued").
		Write(w)

	if w.Code != http.StatusAccepted {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusAccepted)
	}
	trigger := w.Header().Get("HX-Trigger")
	for _, part := range []string{
		`"report:queued"`,
		`"id":"abc"`,
		`"show-notification"`,
		`"type":"success"`,
		`"duration":3000`,
	} {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestNotifyErrorLastsLonger(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().Notify(NotificationError, "broker down").Write(w)

	if trigger := w.Header().Get("HX-Trigger"); !strings.Contains(trigger, `"duration":5000`) {
		t.Errorf("error notification duration not 5s: %s", trigger)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		builder    *HTMXResponseBuilder
		wantStatus int
		wantBody   string
	}{
		{
			name:       "bad request",
			builder:    BadRequestError("Malformed request"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `<div class="error">Malformed request</div>`,
		},
		{
			name:       "internal server error",
			builder:    InternalServerError("Could not render the report"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `<div class="error">Could not render the report</div>`,
		},
		{
			name:       "service unavailable",
			builder:    ServiceUnavailableError("Dataset unavailable"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `<div class="error">Dataset unavailable</div>`,
		},
		{
			name:       "escapes html",
			builder:    ErrorResponse(http.StatusBadRequest, "<script>alert('x')</script>"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `<div class="error">&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;</div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("Body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestMethodNotAllowedError(t *testing.T) {
	w := httptest.NewRecorder()

	MethodNotAllowedError("GET, HEAD").Write(w)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
	if w.Header().Get("Allow") != "GET, HEAD" {
		t.Errorf("Allow header = %q, want %q", w.Header().Get("Allow"), "GET, HEAD")
	}
	if w.Body.Len() != 0 {
		t.Errorf("405 body should be empty, got %q", w.Body.String())
	}
}
