package core

import (
	"fmt"
	"strings"
)

// DateRange is an inclusive [Start, End] span of calendar days.
// A range whose Start is after its End is empty: it contains no day.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// NewDateRange returns the inclusive range between start and end.
func NewDateRange(start, end Date) DateRange {
	return DateRange{Start: start, End: end}
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// IsEmpty reports whether the range is reversed.
func (r DateRange) IsEmpty() bool {
	return r.Start.After(r.End)
}

// Days returns the number of calendar days covered, zero for an empty range.
func (r DateRange) Days() int {
	if r.IsEmpty() {
		return 0
	}
	return int(r.End.Sub(r.Start.Time).Hours()/24) + 1
}

// Clamp intersects r with bounds. A reversed r is returned unchanged, and a
// range lying entirely outside bounds comes back empty.
func (r DateRange) Clamp(bounds DateRange) DateRange {
	if r.IsEmpty() {
		return r
	}
	out := r
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	return out
}

// ParseDateRange reads a YYYY-MM-DD start and end. A blank side defaults
// to the matching side of bounds. The result is clamped into bounds.
func ParseDateRange(start, end string, bounds DateRange) (DateRange, error) {
	r := bounds
	if start = strings.TrimSpace(start); start != "" {
		d, err := ParseDate(start)
		if err != nil {
			return bounds, fmt.Errorf("%w: start: %w", ErrInvalidRange, err)
		}
		r.Start = d
	}
	if end = strings.TrimSpace(end); end != "" {
		d, err := ParseDate(end)
		if err != nil {
			return bounds, fmt.Errorf("%w: end: %w", ErrInvalidRange, err)
		}
		r.End = d
	}
	return r.Clamp(bounds), nil
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// FilterDaily returns the records whose date lies inside r, in input order.
// The result never aliases records.
func FilterDaily(records []DailyRecord, r DateRange) []DailyRecord {
	return filterByDate(records, r, func(rec DailyRecord) Date { return rec.Date })
}

// FilterHourly returns the hourly records whose date lies inside r, in input order.
func FilterHourly(records []HourlyRecord, r DateRange) []HourlyRecord {
	return filterByDate(records, r, func(rec HourlyRecord) Date { return rec.Date })
}

func filterByDate[T any](records []T, r DateRange, date func(T) Date) []T {
	out := make([]T, 0)
	if r.IsEmpty() {
		return out
	}
	for _, rec := range records {
		if r.Contains(date(rec)) {
			out = append(out, rec)
		}
	}
	return out
}

// Bounds returns the smallest range covering every daily record.
// ok is false when records is empty.
func Bounds(records []DailyRecord) (r DateRange, ok bool) {
	for i, rec := range records {
		if i == 0 {
			r = DateRange{Start: rec.Date, End: rec.Date}
			continue
		}
		if rec.Date.Before(r.Start) {
			r.Start = rec.Date
		}
		if rec.Date.After(r.End) {
			r.End = rec.Date
		}
	}
	return r, len(records) > 0
}
