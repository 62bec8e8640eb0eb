package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by the datasets and the HTTP API.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar day. The wrapped time is always midnight UTC so
	// comparisons never depend on time of day.
	Date struct {
		time.Time
	}

	// DailyRecord is one row of the daily dataset.
	DailyRecord struct {
		Date       Date
		Year       int // year code: 0 = 2011, 1 = 2012
		Month      int // 1-12
		Season     int // 1-4
		Holiday    int // 0/1
		WorkingDay int // 0/1
		Weather    int // 1-4
		Casual     int64
		Registered int64
		Total      int64
	}

	// HourlyRecord is one row of the hourly dataset.
	HourlyRecord struct {
		DailyRecord
		Hour int // 0-23
	}
)

var (
	// ErrDataUnavailable is returned when a raw dataset is missing or cannot be parsed.
	ErrDataUnavailable = errors.New("dataset unavailable")
	// ErrAssetMissing is returned when the optional sidebar image is absent.
	ErrAssetMissing = errors.New("asset missing")
	// ErrInvalidDate is returned for date strings not in DateLayout.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidRange is returned when a requested range cannot be parsed.
	ErrInvalidRange = errors.New("invalid date range")
)

// NewDate builds a Date from its parts.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Before reports whether d is a strictly earlier day than o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// After reports whether d is a strictly later day than o.
func (d Date) After(o Date) bool {
	return d.Time.After(o.Time)
}

// Equal reports whether d and o are the same day.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
