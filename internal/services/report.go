package services

import "bikeshare/internal/core"

// BuildReport runs the full pipeline over already-filtered records: the
// seven aggregates, the summary metrics, relabeling and captions. It never
// mutates its inputs.
func BuildReport(daily []core.DailyRecord, hourly []core.HourlyRecord, r, bounds core.DateRange) core.Report {
	return core.Report{
		Range:   r,
		Bounds:  bounds,
		Summary: core.Summarize(daily),
		Riders: core.RiderSection{
			Title:   ridersTitle,
			Caption: ridersCaption,
			Rows:    core.RelabelRiders(core.CasualRegisteredByYear(daily)),
		},
		Sections: []core.Section{
			section(SectionMonthly, core.TotalsByMonth(daily), core.MonthLabel),
			section(SectionHourly, core.TotalsByHour(hourly), core.HourLabel),
			section(SectionSeason, core.TotalsBySeason(daily), core.SeasonLabel),
			section(SectionHoliday, core.TotalsByHoliday(daily), core.HolidayLabel),
			section(SectionWorkingDay, core.TotalsByWorkingDay(daily), core.WorkingDayLabel),
			section(SectionWeather, core.TotalsByWeather(daily), core.WeatherLabel),
		},
		Conclusion: conclusion,
	}
}

func section(id string, rows []core.GroupTotal, label core.Labeler) core.Section {
	spec := sectionSpecs[id]
	return core.Section{
		ID:      spec.id,
		Title:   spec.title,
		Chart:   spec.chart,
		KeyName: spec.keyName,
		Caption: spec.caption,
		Rows:    core.Relabel(rows, label),
	}
}
