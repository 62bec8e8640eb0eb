package services

import (
	"context"
	"fmt"
	"time"

	"bikeshare/internal/core"
	"bikeshare/internal/dataset"
	"bikeshare/internal/log"
	"bikeshare/internal/metrics"
)

// DashboardService turns a requested date range into a report over the
// cached datasets. Every call recomputes from the raw snapshot.
type DashboardService struct {
	cache    *dataset.Cache
	recorder *metrics.Recorder
	logger   *log.StructuredLogger
}

func NewDashboardService(cache *dataset.Cache, recorder *metrics.Recorder, logger *log.Logger) *DashboardService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DashboardService{
		cache:    cache,
		recorder: recorder,
		logger:   log.NewStructuredLogger(logger.WithComponent(log.ComponentDashboard)),
	}
}

// Warm loads the datasets and publishes their sizes. A failure here is
// fatal for the server.
func (s *DashboardService) Warm(ctx context.Context) error {
	snap, err := s.cache.Load(ctx)
	if err != nil {
		return fmt.Errorf("load datasets: %w", err)
	}
	s.recorder.SetDatasetRows("daily", len(snap.Daily))
	s.recorder.SetDatasetRows("hourly", len(snap.Hourly))
	return nil
}

// Ready reports whether the datasets are loaded.
func (s *DashboardService) Ready() bool {
	return s.cache.Loaded()
}

// Bounds returns the first and last date of the daily dataset.
func (s *DashboardService) Bounds(ctx context.Context) (core.DateRange, error) {
	snap, err := s.cache.Load(ctx)
	if err != nil {
		return core.DateRange{}, err
	}
	return snap.Bounds, nil
}

// Report filters both datasets to r (clamped into the dataset bounds) and
// builds the full report. surface names the caller for metrics and logs.
func (s *DashboardService) Report(ctx context.Context, r core.DateRange, surface string) (core.Report, error) {
	start := time.Now()
	snap, err := s.cache.Load(ctx)
	if err != nil {
		s.recorder.ObserveReport(surface, metrics.OutcomeError, time.Since(start))
		s.logger.LogReport(ctx, surface, r, 0, 0, time.Since(start).Milliseconds(), err)
		return core.Report{}, err
	}

	r = r.Clamp(snap.Bounds)
	daily := core.FilterDaily(snap.Daily, r)
	hourly := core.FilterHourly(snap.Hourly, r)
	report := BuildReport(daily, hourly, r, snap.Bounds)

	outcome := metrics.OutcomeOK
	if report.Empty() {
		outcome = metrics.OutcomeEmpty
	}
	elapsed := time.Since(start)
	s.recorder.ObserveReport(surface, outcome, elapsed)
	s.logger.LogReport(ctx, surface, r, len(daily), len(hourly), elapsed.Milliseconds(), nil)
	return report, nil
}
