package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"bikeshare/internal/core"
)

// Sheet names of the exported workbook.
const (
	SheetSummary = "Summary"
	SheetRiders  = "Riders"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FileName returns the download name for a report range.
func FileName(r core.DateRange) string {
	return fmt.Sprintf("bikeshare_%s_%s.xlsx", r.Start.String(), r.End.String())
}

// WriteWorkbook renders the report as an xlsx workbook: a summary sheet,
// the rider split, and one sheet per grouped table.
func WriteWorkbook(w io.Writer, rep core.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E8EEF4"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	summary := [][]interface{}{
		{"Start", rep.Range.Start.String()},
		{"End", rep.Range.End.String()},
		{"Total Rentals", rep.Summary.TotalRentals},
		{"Casual Riders", rep.Summary.TotalCasual},
		{"Registered Riders", rep.Summary.TotalRegistered},
		{"Conclusion", rep.Conclusion},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}
	// Summary labels run down column A.
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return fmt.Errorf("style %s: %w", SheetSummary, err)
	}

	riders := [][]interface{}{{"Year", "Casual", "Registered"}}
	for _, r := range rep.Riders.Rows {
		riders = append(riders, []interface{}{r.Year, r.Casual, r.Registered})
	}
	if err := addSheet(f, SheetRiders, riders, bold); err != nil {
		return err
	}

	for _, s := range rep.Sections {
		rows := [][]interface{}{{s.KeyName, "Code", "Year", "Count"}}
		for _, r := range s.Rows {
			rows = append(rows, []interface{}{r.Label, r.Key, r.Year, r.Count})
		}
		if err := addSheet(f, SheetName(s.ID), rows, bold); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SheetName maps a section id to its worksheet name.
func SheetName(sectionID string) string {
	switch sectionID {
	case "monthly":
		return "Monthly"
	case "hourly":
		return "Hourly"
	case "season":
		return "Season"
	case "holiday":
		return "Holiday"
	case "workingday":
		return "Working Day"
	case "weather":
		return "Weather"
	}
	if len(sectionID) > 31 {
		return sectionID[:31]
	}
	return sectionID
}

// addSheet writes rows to a new sheet, styling the first row as its header.
func addSheet(f *excelize.File, name string, rows [][]interface{}, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	if err := writeRows(f, name, rows); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", name, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
