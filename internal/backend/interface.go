// Package backend selects and opens the dataset source named by
// DATA_BACKEND: the raw CSV files, an imported SQLite copy, or a Google
// spreadsheet.
package backend

import (
	"context"

	"bikeshare/internal/dataset"
)

// Backend is the dataset source the dashboard reads from.
type Backend interface {
	dataset.Reader
}

// CleanupFunc releases whatever the backend holds open.
type CleanupFunc func() error

// BackendResult is an opened backend. Source describes where the rows come
// from, for startup logs.
type BackendResult struct {
	Type    BackendType
	Source  string
	Backend Backend
	Cleanup CleanupFunc
}

// Close runs the cleanup function if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory opens backends from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// csv
	DailyDataPath  string
	HourlyDataPath string

	// sqlite
	SQLiteDBPath string

	// sheets
	GoogleSpreadsheetID      string
	GoogleDailySheetName     string
	GoogleHourlySheetName    string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// BackendType names a dataset source.
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid reports whether bt is one of the known backend types.
func (bt BackendType) IsValid() bool {
	_, ok := constructors[bt]
	return ok
}
