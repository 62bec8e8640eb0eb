package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.ObserveReport("api", OutcomeOK, 15*time.Millisecond)
	r.ObserveReport("html", OutcomeEmpty, time.Millisecond)
	r.SetDatasetRows("daily", 731)
	r.IncQueued(OutcomeOK)
	r.IncWorker(OutcomeError)
	r.ObserveHTTP(http.MethodGet, http.StatusOK, 2*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `bikeshare_reports_total{outcome="ok",surface="api"} 1`)
	assert.Contains(t, text, `bikeshare_reports_total{outcome="empty",surface="html"} 1`)
	assert.Contains(t, text, `bikeshare_dataset_rows{dataset="daily"} 731`)
	assert.Contains(t, text, `bikeshare_report_requests_queued_total{outcome="ok"} 1`)
	assert.Contains(t, text, `bikeshare_worker_messages_total{outcome="error"} 1`)
	assert.Contains(t, text, "bikeshare_report_duration_seconds_bucket")
	assert.Contains(t, text, `bikeshare_http_request_duration_seconds_count{code="200",method="GET"} 1`)
	assert.Contains(t, text, "go_goroutines")
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveReport("api", OutcomeOK, time.Second)
		r.SetDatasetRows("daily", 1)
		r.IncQueued(OutcomeOK)
		r.IncWorker(OutcomeOK)
		r.ObserveHTTP(http.MethodGet, http.StatusOK, time.Second)
	})
	assert.Nil(t, r.Registry())

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
