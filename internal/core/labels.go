package core

import "strconv"

// Labeler maps a small category code to its display label. ok is false for
// codes outside the known domain.
type Labeler func(code int) (label string, ok bool)

var (
	yearLabels = map[int]int{0: 2011, 1: 2012}

	seasonLabels = map[int]string{
		1: "Winter",
		2: "Spring",
		3: "Summer",
		4: "Fall",
	}

	weatherLabels = map[int]string{
		1: "Clear",
		2: "Cloudy/Misty",
		3: "Light Rain/Snow",
		4: "Heavy Rain/Storm",
	}

	holidayLabels = map[int]string{
		0: "Regular Day",
		1: "Holiday",
	}

	workingDayLabels = map[int]string{
		0: "Day Off",
		1: "Working Day",
	}
)

// YearOf maps a year code to its calendar year (0 -> 2011, 1 -> 2012).
func YearOf(code int) (int, bool) {
	y, ok := yearLabels[code]
	return y, ok
}

// YearLabel is YearOf rendered as a string.
func YearLabel(code int) (string, bool) {
	y, ok := YearOf(code)
	if !ok {
		return "", false
	}
	return strconv.Itoa(y), true
}

func SeasonLabel(code int) (string, bool) {
	l, ok := seasonLabels[code]
	return l, ok
}

func WeatherLabel(code int) (string, bool) {
	l, ok := weatherLabels[code]
	return l, ok
}

func HolidayLabel(code int) (string, bool) {
	l, ok := holidayLabels[code]
	return l, ok
}

func WorkingDayLabel(code int) (string, bool) {
	l, ok := workingDayLabels[code]
	return l, ok
}

// MonthLabel and HourLabel keep numeric axes numeric.
func MonthLabel(code int) (string, bool) {
	return strconv.Itoa(code), code >= 1 && code <= 12
}

func HourLabel(code int) (string, bool) {
	return strconv.Itoa(code), code >= 0 && code <= 23
}

// LabelOrCode applies l and falls back to the raw code for unknown values.
func LabelOrCode(l Labeler, code int) string {
	if label, ok := l(code); ok {
		return label
	}
	return strconv.Itoa(code)
}

// CalendarYear is YearOf with pass-through for unknown codes.
func CalendarYear(code int) int {
	if y, ok := YearOf(code); ok {
		return y
	}
	return code
}
