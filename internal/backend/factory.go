package backend

import (
	"context"
	"fmt"
	"log/slog"

	"bikeshare/internal/core"
	"bikeshare/internal/dataset/csvfile"
	gsheet "bikeshare/internal/dataset/google"
	"bikeshare/internal/storage"
)

type constructor func(ctx context.Context, config Config) (*BackendResult, error)

var constructors = map[BackendType]constructor{
	CSVBackend:    openCSV,
	SQLiteBackend: openSQLite,
	SheetsBackend: openSheets,
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory. A nil logger means the slog
// default tagged component=backend.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default().With("component", "backend")
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend validates config and opens the matching backend.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	res, err := constructors[config.Type](ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", config.Type, err)
	}
	res.Type = config.Type
	f.logger.InfoContext(ctx, "Opened data backend", "backend", res.Type, "source", res.Source)
	return res, nil
}

func openCSV(_ context.Context, config Config) (*BackendResult, error) {
	return &BackendResult{
		Source:  config.DailyDataPath + ", " + config.HourlyDataPath,
		Backend: csvfile.New(config.DailyDataPath, config.HourlyDataPath),
	}, nil
}

// openSQLite refuses a database nobody has imported into yet.
func openSQLite(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, err
	}
	daily, hourly, err := repo.Counts(ctx)
	if err != nil {
		repo.Close()
		return nil, err
	}
	if daily == 0 {
		repo.Close()
		return nil, fmt.Errorf("%w: %s holds no daily rows, run bikeshare-import first", core.ErrDataUnavailable, config.SQLiteDBPath)
	}
	return &BackendResult{
		Source:  fmt.Sprintf("%s (%d daily, %d hourly rows)", config.SQLiteDBPath, daily, hourly),
		Backend: repo,
		Cleanup: repo.Close,
	}, nil
}

func openSheets(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := gsheet.Open(ctx, gsheet.Options{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		DailySheet:      config.GoogleDailySheetName,
		HourlySheet:     config.GoogleHourlySheetName,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, err
	}
	return &BackendResult{
		Source:  fmt.Sprintf("spreadsheet %s [%s, %s]", config.GoogleSpreadsheetID, config.GoogleDailySheetName, config.GoogleHourlySheetName),
		Backend: cli,
	}, nil
}
