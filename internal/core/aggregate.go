package core

import (
	"cmp"
	"slices"
)

type (
	// RiderTotals is the casual/registered split for one year code.
	RiderTotals struct {
		Year       int
		Casual     int64
		Registered int64
	}

	// GroupTotal is one row of a derived aggregate table: the summed total
	// count for a (Key, Year) combination. The meaning of Key depends on the
	// table (month, hour, season, weather code, holiday or working-day flag).
	GroupTotal struct {
		Key   int
		Year  int
		Count int64
	}
)

type groupKey struct {
	key, year int
}

// CasualRegisteredByYear sums casual and registered riders per year code.
func CasualRegisteredByYear(records []DailyRecord) []RiderTotals {
	byYear := map[int]*RiderTotals{}
	for _, r := range records {
		t, ok := byYear[r.Year]
		if !ok {
			t = &RiderTotals{Year: r.Year}
			byYear[r.Year] = t
		}
		t.Casual += r.Casual
		t.Registered += r.Registered
	}
	out := make([]RiderTotals, 0, len(byYear))
	for _, t := range byYear {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b RiderTotals) int { return cmp.Compare(a.Year, b.Year) })
	return out
}

// TotalsByMonth sums total rentals per (month, year).
func TotalsByMonth(records []DailyRecord) []GroupTotal {
	return sumDaily(records, func(r DailyRecord) int { return r.Month })
}

// TotalsByHoliday sums total rentals per (holiday flag, year).
func TotalsByHoliday(records []DailyRecord) []GroupTotal {
	return sumDaily(records, func(r DailyRecord) int { return r.Holiday })
}

// TotalsByWorkingDay sums total rentals per (working-day flag, year).
func TotalsByWorkingDay(records []DailyRecord) []GroupTotal {
	return sumDaily(records, func(r DailyRecord) int { return r.WorkingDay })
}

// TotalsBySeason sums total rentals per (season, year).
func TotalsBySeason(records []DailyRecord) []GroupTotal {
	return sumDaily(records, func(r DailyRecord) int { return r.Season })
}

// TotalsByWeather sums total rentals per (weather code, year).
func TotalsByWeather(records []DailyRecord) []GroupTotal {
	return sumDaily(records, func(r DailyRecord) int { return r.Weather })
}

// TotalsByHour sums total rentals per (hour, year) over the hourly dataset.
func TotalsByHour(records []HourlyRecord) []GroupTotal {
	return sumBy(records, func(r HourlyRecord) groupKey {
		return groupKey{key: r.Hour, year: r.Year}
	}, func(r HourlyRecord) int64 { return r.Total })
}

func sumDaily(records []DailyRecord, key func(DailyRecord) int) []GroupTotal {
	return sumBy(records, func(r DailyRecord) groupKey {
		return groupKey{key: key(r), year: r.Year}
	}, func(r DailyRecord) int64 { return r.Total })
}

// sumBy groups records by key and sums value per group. Rows come back
// ordered by key then year; groups absent from records are absent from the
// output.
func sumBy[T any](records []T, key func(T) groupKey, value func(T) int64) []GroupTotal {
	sums := make(map[groupKey]int64)
	for _, r := range records {
		sums[key(r)] += value(r)
	}
	out := make([]GroupTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, GroupTotal{Key: k.key, Year: k.year, Count: v})
	}
	slices.SortFunc(out, func(a, b GroupTotal) int {
		if c := cmp.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		return cmp.Compare(a.Year, b.Year)
	})
	return out
}

// SumCounts adds up the Count column of a derived table.
func SumCounts(rows []GroupTotal) int64 {
	var n int64
	for _, r := range rows {
		n += r.Count
	}
	return n
}
