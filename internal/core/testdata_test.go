package core

// sampleDaily covers both years, every season and weather code, and both
// flag values, so every aggregate has more than one group.
func sampleDaily() []DailyRecord {
	row := func(y, m, d, yr, season, holiday, working, weather int, casual, registered int64) DailyRecord {
		return DailyRecord{
			Date:       NewDate(y, m, d),
			Year:       yr,
			Month:      m,
			Season:     season,
			Holiday:    holiday,
			WorkingDay: working,
			Weather:    weather,
			Casual:     casual,
			Registered: registered,
			Total:      casual + registered,
		}
	}
	return []DailyRecord{
		row(2011, 1, 1, 0, 1, 0, 0, 2, 331, 654),
		row(2011, 1, 2, 0, 1, 0, 0, 2, 131, 670),
		row(2011, 1, 3, 0, 1, 0, 1, 1, 120, 1229),
		row(2011, 4, 15, 0, 2, 1, 0, 3, 642, 1173),
		row(2011, 7, 4, 0, 3, 1, 0, 2, 3065, 2978),
		row(2011, 10, 29, 0, 4, 0, 0, 3, 57, 570),
		row(2012, 1, 1, 1, 1, 0, 0, 1, 686, 1608),
		row(2012, 6, 1, 1, 2, 0, 1, 2, 1038, 4862),
		row(2012, 10, 29, 1, 4, 0, 1, 4, 2, 20),
		row(2012, 12, 31, 1, 1, 0, 1, 2, 364, 1432),
	}
}

func sampleHourly() []HourlyRecord {
	row := func(base DailyRecord, hour int, casual, registered int64) HourlyRecord {
		rec := HourlyRecord{DailyRecord: base, Hour: hour}
		rec.Casual = casual
		rec.Registered = registered
		rec.Total = casual + registered
		return rec
	}
	days := sampleDaily()
	return []HourlyRecord{
		row(days[0], 0, 3, 13),
		row(days[0], 1, 8, 32),
		row(days[0], 8, 1, 1),
		row(days[2], 8, 5, 90),
		row(days[2], 17, 11, 120),
		row(days[6], 0, 20, 30),
		row(days[7], 8, 40, 400),
		row(days[7], 17, 80, 600),
	}
}
