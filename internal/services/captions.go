package services

import "bikeshare/internal/core"

// Section identifiers, in display order.
const (
	SectionMonthly    = "monthly"
	SectionHourly     = "hourly"
	SectionSeason     = "season"
	SectionHoliday    = "holiday"
	SectionWorkingDay = "workingday"
	SectionWeather    = "weather"
)

const (
	ridersTitle   = "Registered vs Casual Riders per Year"
	ridersCaption = "Registered riders far outnumber casual riders in both years. " +
		"The service is used mostly by regular customers with routine travel patterns, such as commuters. " +
		"Both rider segments grew from 2011 to 2012."

	monthlyCaption = "The monthly trend shows a strong seasonal effect on rentals. " +
		"Demand starts to climb in March and peaks in the middle of the year (June to September). " +
		"Year over year the business grew quickly: 2012 stays above 2011 in every month."

	hourlyCaption = "Rentals have two daily peaks, around 08:00 in the morning and 17:00 to 18:00 in the afternoon, " +
		"the pattern of commuters riding to and from work or school. " +
		"2012 records more rentals than 2011 in almost every hour, and activity is lowest between 00:00 and 05:00."

	seasonCaption = "Rentals rise sharply in the warm seasons, peak in Summer and Fall, and drop in Winter. " +
		"Every season grew from 2011 to 2012, a sign of the steadily growing popularity of bike sharing."

	// Holiday and working-day charts share one conclusion.
	dayTypeCaption = "Working days see more rentals than days off in both years. " +
		"In the second year working-day rentals passed 1.4 million, almost double the year before. " +
		"The weight of working days confirms that riding is driven by routine commuting."

	weatherCaption = "Weather has a large effect on rentals. " +
		"Clear days produce the highest volume, while heavy rain or storms cause a steep decline. " +
		"The pattern holds in both years, with 2012 ahead of 2011 in every weather condition."

	conclusion = "The bike rental business grew fast, with second-year volume well above the first year in every time category. " +
		"Usage is dominated by commuting on working days, with peaks at the hours people travel to and from the office. " +
		"Beyond the work routine, demand also depends heavily on the season, reaching its highest point from mid-year to just before the end of the year."
)

type sectionSpec struct {
	id, title, chart, keyName, caption string
}

var sectionSpecs = map[string]sectionSpec{
	SectionMonthly:    {SectionMonthly, "Total Rentals per Month", core.ChartLine, "Month", monthlyCaption},
	SectionHourly:     {SectionHourly, "Total Rentals by Hour", core.ChartLine, "Hour", hourlyCaption},
	SectionSeason:     {SectionSeason, "Total Rentals by Season", core.ChartBar, "Season", seasonCaption},
	SectionHoliday:    {SectionHoliday, "Rentals by Holiday", core.ChartBar, "Day Type", dayTypeCaption},
	SectionWorkingDay: {SectionWorkingDay, "Rentals by Working Day", core.ChartBar, "Day Type", dayTypeCaption},
	SectionWeather:    {SectionWeather, "Total Rentals by Weather Condition", core.ChartBar, "Weather", weatherCaption},
}
