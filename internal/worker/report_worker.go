package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bikeshare/internal/amqp"
	"bikeshare/internal/cache"
	"bikeshare/internal/core"
	"bikeshare/internal/metrics"
)

// Reporter computes a report for a date range.
type Reporter interface {
	Report(ctx context.Context, r core.DateRange, surface string) (core.Report, error)
}

// ResultPublisher publishes finished reports.
type ResultPublisher interface {
	PublishReportReady(ctx context.Context, msg *amqp.ReportReady) error
}

// ReportWorker answers asynchronous report requests. Request IDs seen
// within the dedup window are acknowledged without recomputing.
type ReportWorker struct {
	reporter  Reporter
	publisher ResultPublisher
	seen      *cache.LRU[time.Time]
	recorder  *metrics.Recorder
}

func NewReportWorker(reporter Reporter, publisher ResultPublisher, seen *cache.LRU[time.Time], recorder *metrics.Recorder) *ReportWorker {
	return &ReportWorker{
		reporter:  reporter,
		publisher: publisher,
		seen:      seen,
		recorder:  recorder,
	}
}

// HandleReportRequest processes a single report request from AMQP.
// A failed computation is still published, as a ReportReady carrying the
// error; only a failed publish is returned so the message is requeued.
func (w *ReportWorker) HandleReportRequest(ctx context.Context, msg *amqp.ReportRequest) error {
	id := msg.ID.String()
	if !w.seen.Add(id, time.Now()) {
		slog.InfoContext(ctx, "Skipping duplicate report request", "id", id)
		w.recorder.IncWorker("duplicate")
		return nil
	}

	slog.InfoContext(ctx, "Processing report request",
		"id", id,
		"range", msg.Range.String(),
		"queued_for", time.Since(msg.Timestamp))

	rep, err := w.reporter.Report(ctx, msg.Range, "worker")
	var result *amqp.ReportReady
	if err != nil {
		slog.ErrorContext(ctx, "Report computation failed", "id", id, "error", err)
		result = amqp.NewReportReady(msg.ID, nil, err)
	} else {
		result = amqp.NewReportReady(msg.ID, &rep, nil)
	}

	if err := w.publisher.PublishReportReady(ctx, result); err != nil {
		// Let the redelivery retry the publish.
		w.seen.Delete(id)
		w.recorder.IncWorker(metrics.OutcomeError)
		return fmt.Errorf("publish report result: %w", err)
	}

	if result.Error != "" {
		w.recorder.IncWorker("failed")
	} else {
		w.recorder.IncWorker(metrics.OutcomeOK)
	}
	return nil
}
