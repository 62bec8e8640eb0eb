package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Report outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Recorder is the Prometheus recorder for the dashboard. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	reportDuration  *prometheus.HistogramVec
	reportTotal     *prometheus.CounterVec
	datasetRows     *prometheus.GaugeVec
	queuedTotal     *prometheus.CounterVec
	workerProcessed *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewRecorder creates a recorder on its own registry, with Go runtime and
// process collectors attached.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{
		registry: registry,
		reportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bikeshare_report_duration_seconds",
			Help:    "Time spent computing a dashboard report.",
			Buckets: prometheus.DefBuckets,
		}, []string{"surface"}),
		reportTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_reports_total",
			Help: "Reports computed by surface and outcome.",
		}, []string{"surface", "outcome"}),
		datasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bikeshare_dataset_rows",
			Help: "Rows held in the loaded dataset snapshot.",
		}, []string{"dataset"}),
		queuedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_report_requests_queued_total",
			Help: "Asynchronous report requests published, by outcome.",
		}, []string{"outcome"}),
		workerProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_worker_messages_total",
			Help: "Report requests handled by the worker, by outcome.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bikeshare_http_request_duration_seconds",
			Help:    "HTTP request latency by method and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}

	registry.MustRegister(r.reportDuration)
	registry.MustRegister(r.reportTotal)
	registry.MustRegister(r.datasetRows)
	registry.MustRegister(r.queuedTotal)
	registry.MustRegister(r.workerProcessed)
	registry.MustRegister(r.httpDuration)
	return r
}

// Registry returns the underlying Prometheus registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveReport records one report computation for a surface (html, api,
// xlsx, worker).
func (r *Recorder) ObserveReport(surface, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.reportDuration.WithLabelValues(surface).Observe(d.Seconds())
	r.reportTotal.WithLabelValues(surface, outcome).Inc()
}

// SetDatasetRows publishes the size of a loaded dataset.
func (r *Recorder) SetDatasetRows(dataset string, n int) {
	if r == nil {
		return
	}
	r.datasetRows.WithLabelValues(dataset).Set(float64(n))
}

// IncQueued counts an asynchronous report request.
func (r *Recorder) IncQueued(outcome string) {
	if r == nil {
		return
	}
	r.queuedTotal.WithLabelValues(outcome).Inc()
}

// IncWorker counts a message handled by the report worker.
func (r *Recorder) IncWorker(outcome string) {
	if r == nil {
		return
	}
	r.workerProcessed.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records one served HTTP request.
func (r *Recorder) ObserveHTTP(method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
