package http

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"bikeshare/internal/core"
)

type (
	// reportView is the template model for the report partial.
	reportView struct {
		Start, End string
		Min, Max   string
		Days       int
		Empty      bool

		TotalRentals    string
		TotalCasual     string
		TotalRegistered string

		RidersTitle   string
		RidersCaption string
		Riders        []riderRow

		Sections   []sectionView
		Conclusion string
	}

	riderRow struct {
		Year       int
		Casual     string
		Registered string
	}

	sectionView struct {
		ID      string
		Title   string
		Chart   string
		KeyName string
		Caption string
		Rows    []sectionRow
	}

	sectionRow struct {
		Label string
		Year  int
		Count string
	}

	// pageData is the template model for the full page.
	pageData struct {
		Report       reportView
		HasAsset     bool
		QueueEnabled bool
	}
)

func newReportView(rep core.Report) reportView {
	v := reportView{
		Start:           rep.Range.Start.String(),
		End:             rep.Range.End.String(),
		Min:             rep.Bounds.Start.String(),
		Max:             rep.Bounds.End.String(),
		Days:            rep.Range.Days(),
		Empty:           rep.Empty(),
		TotalRentals:    formatCount(rep.Summary.TotalRentals),
		TotalCasual:     formatCount(rep.Summary.TotalCasual),
		TotalRegistered: formatCount(rep.Summary.TotalRegistered),
		RidersTitle:     rep.Riders.Title,
		RidersCaption:   rep.Riders.Caption,
		Conclusion:      rep.Conclusion,
	}
	for _, r := range rep.Riders.Rows {
		v.Riders = append(v.Riders, riderRow{
			Year:       r.Year,
			Casual:     formatCount(r.Casual),
			Registered: formatCount(r.Registered),
		})
	}
	for _, s := range rep.Sections {
		sv := sectionView{
			ID:      s.ID,
			Title:   s.Title,
			Chart:   s.Chart,
			KeyName: s.KeyName,
			Caption: s.Caption,
		}
		for _, row := range s.Rows {
			sv.Rows = append(sv.Rows, sectionRow{Label: row.Label, Year: row.Year, Count: formatCount(row.Count)})
		}
		v.Sections = append(v.Sections, sv)
	}
	return v
}

// formatCount renders a count with thousands separators ("1,100").
func formatCount(n int64) string {
	return humanize.Comma(n)
}

// rangeQuery encodes a range as start/end query parameters.
func rangeQuery(r core.DateRange) string {
	return "start=" + r.Start.String() + "&end=" + r.End.String()
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// contentDisposition builds an attachment header for a download.
func contentDisposition(filename string) string {
	return "attachment; filename=" + strconv.Quote(filename)
}
