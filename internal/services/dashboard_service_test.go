package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/core"
	"bikeshare/internal/dataset"
	"bikeshare/internal/metrics"
)

type stubReader struct {
	daily  []core.DailyRecord
	hourly []core.HourlyRecord
	err    error
}

func (s *stubReader) ReadDaily(context.Context) ([]core.DailyRecord, error) {
	return s.daily, s.err
}

func (s *stubReader) ReadHourly(context.Context) ([]core.HourlyRecord, error) {
	return s.hourly, s.err
}

func scenario() *stubReader {
	d2011 := core.DailyRecord{Date: core.NewDate(2011, 6, 1), Year: 0, Month: 6, Season: 2, Holiday: 0, WorkingDay: 1, Weather: 1, Casual: 100, Registered: 400, Total: 500}
	d2012 := core.DailyRecord{Date: core.NewDate(2012, 6, 1), Year: 1, Month: 6, Season: 2, Holiday: 0, WorkingDay: 1, Weather: 2, Casual: 150, Registered: 450, Total: 600}
	return &stubReader{
		daily: []core.DailyRecord{d2011, d2012},
		hourly: []core.HourlyRecord{
			{DailyRecord: core.DailyRecord{Date: d2011.Date, Year: 0, Casual: 40, Registered: 160, Total: 200}, Hour: 8},
			{DailyRecord: core.DailyRecord{Date: d2011.Date, Year: 0, Casual: 60, Registered: 240, Total: 300}, Hour: 17},
			{DailyRecord: core.DailyRecord{Date: d2012.Date, Year: 1, Casual: 150, Registered: 450, Total: 600}, Hour: 17},
		},
	}
}

func newService(t *testing.T, r dataset.Reader) *DashboardService {
	t.Helper()
	return NewDashboardService(dataset.NewCache(r), metrics.NewRecorder(), nil)
}

func TestReportScenarioFullRange(t *testing.T) {
	svc := newService(t, scenario())
	ctx := context.Background()
	require.NoError(t, svc.Warm(ctx))
	assert.True(t, svc.Ready())

	bounds, err := svc.Bounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.NewDateRange(core.NewDate(2011, 6, 1), core.NewDate(2012, 6, 1)), bounds)

	rep, err := svc.Report(ctx, bounds, "test")
	require.NoError(t, err)

	assert.Equal(t, core.Summary{TotalRentals: 1100, TotalCasual: 250, TotalRegistered: 850}, rep.Summary)
	assert.Equal(t, []core.RiderSplit{
		{Year: 2011, Casual: 100, Registered: 400},
		{Year: 2012, Casual: 150, Registered: 450},
	}, rep.Riders.Rows)
	assert.NotEmpty(t, rep.Riders.Caption)
	assert.NotEmpty(t, rep.Conclusion)

	require.Len(t, rep.Sections, 6)
	for _, s := range rep.Sections {
		assert.NotEmpty(t, s.Caption, s.ID)
		assert.NotEmpty(t, s.Title, s.ID)
	}

	monthly, ok := rep.Section(SectionMonthly)
	require.True(t, ok)
	assert.Equal(t, core.ChartLine, monthly.Chart)
	assert.Equal(t, []core.LabeledTotal{
		{Key: 6, Label: "6", Year: 2011, Count: 500},
		{Key: 6, Label: "6", Year: 2012, Count: 600},
	}, monthly.Rows)

	weather, _ := rep.Section(SectionWeather)
	assert.Equal(t, []core.LabeledTotal{
		{Key: 1, Label: "Clear", Year: 2011, Count: 500},
		{Key: 2, Label: "Cloudy/Misty", Year: 2012, Count: 600},
	}, weather.Rows)

	hourly, _ := rep.Section(SectionHourly)
	assert.Equal(t, int64(1100), core.SumCounts(toGroupTotals(hourly.Rows)))

	holiday, _ := rep.Section(SectionHoliday)
	working, _ := rep.Section(SectionWorkingDay)
	assert.Equal(t, working.Caption, holiday.Caption)
	assert.Contains(t, holiday.Caption, "1.4 million")
}

func TestReportSingleDay(t *testing.T) {
	svc := newService(t, scenario())
	day := core.NewDate(2012, 6, 1)
	rep, err := svc.Report(context.Background(), core.NewDateRange(day, day), "test")
	require.NoError(t, err)

	require.Len(t, rep.Riders.Rows, 1)
	assert.Equal(t, 2012, rep.Riders.Rows[0].Year)
	assert.Equal(t, int64(600), rep.Summary.TotalRentals)
	season, _ := rep.Section(SectionSeason)
	assert.Equal(t, []core.LabeledTotal{{Key: 2, Label: "Spring", Year: 2012, Count: 600}}, season.Rows)
}

func TestReportReversedRangeIsEmpty(t *testing.T) {
	svc := newService(t, scenario())
	r := core.NewDateRange(core.NewDate(2012, 6, 1), core.NewDate(2011, 6, 1))
	rep, err := svc.Report(context.Background(), r, "test")
	require.NoError(t, err)
	assert.True(t, rep.Empty())
	assert.Equal(t, core.Summary{}, rep.Summary)
	for _, s := range rep.Sections {
		assert.Empty(t, s.Rows, s.ID)
	}
}

func TestReportClampsIntoBounds(t *testing.T) {
	svc := newService(t, scenario())
	r := core.NewDateRange(core.NewDate(2000, 1, 1), core.NewDate(2030, 1, 1))
	rep, err := svc.Report(context.Background(), r, "test")
	require.NoError(t, err)
	assert.Equal(t, rep.Bounds, rep.Range)
	assert.Equal(t, int64(1100), rep.Summary.TotalRentals)
}

func TestReportIsIdempotent(t *testing.T) {
	svc := newService(t, scenario())
	ctx := context.Background()
	bounds, err := svc.Bounds(ctx)
	require.NoError(t, err)

	a, err := svc.Report(ctx, bounds, "test")
	require.NoError(t, err)
	b, err := svc.Report(ctx, bounds, "test")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReportLoadFailure(t *testing.T) {
	svc := newService(t, &stubReader{err: core.ErrDataUnavailable})
	err := svc.Warm(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDataUnavailable))
	assert.False(t, svc.Ready())

	_, err = svc.Report(context.Background(), core.DateRange{}, "test")
	assert.True(t, errors.Is(err, core.ErrDataUnavailable))
}

func TestBuildReportDoesNotMutateInput(t *testing.T) {
	s := scenario()
	daily := append([]core.DailyRecord(nil), s.daily...)
	hourly := append([]core.HourlyRecord(nil), s.hourly...)
	_ = BuildReport(s.daily, s.hourly, core.DateRange{}, core.DateRange{})
	assert.Equal(t, daily, s.daily)
	assert.Equal(t, hourly, s.hourly)
}

func toGroupTotals(rows []core.LabeledTotal) []core.GroupTotal {
	out := make([]core.GroupTotal, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.GroupTotal{Key: r.Key, Year: r.Year, Count: r.Count})
	}
	return out
}
