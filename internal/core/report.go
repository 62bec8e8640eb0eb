package core

// Chart kinds understood by the presentation layer.
const (
	ChartLine = "line"
	ChartBar  = "bar"
)

type (
	// Report is everything the dashboard shows for one date range: the
	// headline totals, the seven derived tables already relabeled, and the
	// fixed narrative attached to each.
	Report struct {
		Range      DateRange    `json:"range"`
		Bounds     DateRange    `json:"bounds"`
		Summary    Summary      `json:"summary"`
		Riders     RiderSection `json:"riders"`
		Sections   []Section    `json:"sections"`
		Conclusion string       `json:"conclusion"`
	}

	// RiderSection is the casual vs registered table.
	RiderSection struct {
		Title   string       `json:"title"`
		Caption string       `json:"caption"`
		Rows    []RiderSplit `json:"rows"`
	}

	// RiderSplit is a RiderTotals row with the year code relabeled.
	RiderSplit struct {
		Year       int   `json:"year"`
		Casual     int64 `json:"total_casual"`
		Registered int64 `json:"total_registered"`
	}

	// Section is one grouped-total table with its chart metadata.
	Section struct {
		ID      string         `json:"id"`
		Title   string         `json:"title"`
		Chart   string         `json:"chart"`
		KeyName string         `json:"key_name"`
		Caption string         `json:"caption"`
		Rows    []LabeledTotal `json:"rows"`
	}

	// LabeledTotal is a GroupTotal with both codes relabeled.
	LabeledTotal struct {
		Key   int    `json:"key"`
		Label string `json:"label"`
		Year  int    `json:"year"`
		Count int64  `json:"count"`
	}
)

// Section returns the section with the given id.
func (r Report) Section(id string) (Section, bool) {
	for _, s := range r.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Empty reports whether no record fell inside the range.
func (r Report) Empty() bool {
	return len(r.Riders.Rows) == 0
}

// Relabel converts raw grouped totals into labeled rows.
func Relabel(rows []GroupTotal, key Labeler) []LabeledTotal {
	out := make([]LabeledTotal, 0, len(rows))
	for _, r := range rows {
		out = append(out, LabeledTotal{
			Key:   r.Key,
			Label: LabelOrCode(key, r.Key),
			Year:  CalendarYear(r.Year),
			Count: r.Count,
		})
	}
	return out
}

// RelabelRiders converts the casual/registered table to calendar years.
func RelabelRiders(rows []RiderTotals) []RiderSplit {
	out := make([]RiderSplit, 0, len(rows))
	for _, r := range rows {
		out = append(out, RiderSplit{
			Year:       CalendarYear(r.Year),
			Casual:     r.Casual,
			Registered: r.Registered,
		})
	}
	return out
}
