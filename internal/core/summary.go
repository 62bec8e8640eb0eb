package core

// Summary holds the three headline totals of a filtered daily dataset.
type Summary struct {
	TotalRentals    int64 `json:"total_rentals"`
	TotalCasual     int64 `json:"total_casual"`
	TotalRegistered int64 `json:"total_registered"`
}

// Summarize reduces the daily records to their rental, casual and registered totals.
func Summarize(records []DailyRecord) Summary {
	var s Summary
	for _, r := range records {
		s.TotalRentals += r.Total
		s.TotalCasual += r.Casual
		s.TotalRegistered += r.Registered
	}
	return s
}
