package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelersTotalAndInjective(t *testing.T) {
	tests := []struct {
		name   string
		l      Labeler
		domain []int
	}{
		{"year", YearLabel, []int{0, 1}},
		{"season", SeasonLabel, []int{1, 2, 3, 4}},
		{"weather", WeatherLabel, []int{1, 2, 3, 4}},
		{"holiday", HolidayLabel, []int{0, 1}},
		{"workingday", WorkingDayLabel, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := map[string]int{}
			for _, code := range tt.domain {
				label, ok := tt.l(code)
				assert.True(t, ok, "code %d should be in domain", code)
				assert.NotEmpty(t, label)
				prev, dup := seen[label]
				assert.False(t, dup, "codes %d and %d share label %q", prev, code, label)
				seen[label] = code
			}
			_, ok := tt.l(99)
			assert.False(t, ok)
		})
	}
}

func TestLabelValues(t *testing.T) {
	y, ok := YearOf(0)
	assert.True(t, ok)
	assert.Equal(t, 2011, y)
	y, _ = YearOf(1)
	assert.Equal(t, 2012, y)

	assert.Equal(t, "Winter", LabelOrCode(SeasonLabel, 1))
	assert.Equal(t, "Fall", LabelOrCode(SeasonLabel, 4))
	assert.Equal(t, "Cloudy/Misty", LabelOrCode(WeatherLabel, 2))
	assert.Equal(t, "Heavy Rain/Storm", LabelOrCode(WeatherLabel, 4))
	assert.Equal(t, "Holiday", LabelOrCode(HolidayLabel, 1))
	assert.Equal(t, "Day Off", LabelOrCode(WorkingDayLabel, 0))
}

func TestUnknownCodesPassThrough(t *testing.T) {
	assert.Equal(t, "7", LabelOrCode(SeasonLabel, 7))
	assert.Equal(t, 5, CalendarYear(5))
	assert.Equal(t, "13", LabelOrCode(MonthLabel, 13))
}

func TestRelabel(t *testing.T) {
	rows := Relabel([]GroupTotal{{Key: 3, Year: 0, Count: 10}, {Key: 9, Year: 1, Count: 4}}, SeasonLabel)
	assert.Equal(t, []LabeledTotal{
		{Key: 3, Label: "Summer", Year: 2011, Count: 10},
		{Key: 9, Label: "9", Year: 2012, Count: 4},
	}, rows)
}
