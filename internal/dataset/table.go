package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"bikeshare/internal/core"
)

// Column names of the bike-sharing datasets.
const (
	ColDate       = "dteday"
	ColYear       = "yr"
	ColMonth      = "mnth"
	ColHour       = "hr"
	ColSeason     = "season"
	ColHoliday    = "holiday"
	ColWorkingDay = "workingday"
	ColWeather    = "weathersit"
	ColCasual     = "casual"
	ColRegistered = "registered"
	ColTotal      = "cnt"
)

var (
	dailyColumns  = []string{ColDate, ColYear, ColMonth, ColSeason, ColHoliday, ColWorkingDay, ColWeather, ColCasual, ColRegistered, ColTotal}
	hourlyColumns = append(append([]string(nil), dailyColumns...), ColHour)
)

// Table is a raw header + rows view of a dataset, as read from a CSV file
// or a spreadsheet range.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// DecodeDaily converts a raw table into daily records. Columns are located
// by header name; extra columns are ignored.
func DecodeDaily(t Table) ([]core.DailyRecord, error) {
	idx, err := t.index(dailyColumns)
	if err != nil {
		return nil, err
	}
	out := make([]core.DailyRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		rec, err := t.decodeRow(idx, row, i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeHourly converts a raw table into hourly records.
func DecodeHourly(t Table) ([]core.HourlyRecord, error) {
	idx, err := t.index(hourlyColumns)
	if err != nil {
		return nil, err
	}
	out := make([]core.HourlyRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		rec, err := t.decodeRow(idx, row, i)
		if err != nil {
			return nil, err
		}
		hour, err := t.intCell(idx, row, i, ColHour)
		if err != nil {
			return nil, err
		}
		out = append(out, core.HourlyRecord{DailyRecord: rec, Hour: hour})
	}
	return out, nil
}

func (t Table) index(required []string) (map[string]int, error) {
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s: missing columns %v", core.ErrDataUnavailable, t.Name, missing)
	}
	return idx, nil
}

func (t Table) decodeRow(idx map[string]int, row []string, i int) (core.DailyRecord, error) {
	var (
		rec core.DailyRecord
		err error
	)
	raw, err := t.cell(idx, row, i, ColDate)
	if err != nil {
		return rec, err
	}
	if rec.Date, err = core.ParseDate(raw); err != nil {
		return rec, t.cellError(i, ColDate, err)
	}

	ints := []struct {
		col string
		dst *int
	}{
		{ColYear, &rec.Year},
		{ColMonth, &rec.Month},
		{ColSeason, &rec.Season},
		{ColHoliday, &rec.Holiday},
		{ColWorkingDay, &rec.WorkingDay},
		{ColWeather, &rec.Weather},
	}
	for _, f := range ints {
		if *f.dst, err = t.intCell(idx, row, i, f.col); err != nil {
			return rec, err
		}
	}

	counts := []struct {
		col string
		dst *int64
	}{
		{ColCasual, &rec.Casual},
		{ColRegistered, &rec.Registered},
		{ColTotal, &rec.Total},
	}
	for _, f := range counts {
		raw, err := t.cell(idx, row, i, f.col)
		if err != nil {
			return rec, err
		}
		if *f.dst, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return rec, t.cellError(i, f.col, err)
		}
	}
	return rec, nil
}

func (t Table) intCell(idx map[string]int, row []string, i int, col string) (int, error) {
	raw, err := t.cell(idx, row, i, col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, t.cellError(i, col, err)
	}
	return v, nil
}

func (t Table) cell(idx map[string]int, row []string, i int, col string) (string, error) {
	pos := idx[col]
	if pos >= len(row) {
		return "", t.cellError(i, col, fmt.Errorf("row has %d cells", len(row)))
	}
	return strings.TrimSpace(row[pos]), nil
}

// cellError reports the 1-based line, counting the header as line 1.
func (t Table) cellError(i int, col string, err error) error {
	return fmt.Errorf("%w: %s line %d column %q: %v", core.ErrDataUnavailable, t.Name, i+2, col, err)
}
