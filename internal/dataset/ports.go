package dataset

import (
	"context"

	"bikeshare/internal/core"
)

// Ports for dataset sources (CSV files, SQLite, Google Sheets).
type (
	DailyReader interface {
		// ReadDaily returns every row of the daily dataset in source order.
		ReadDaily(ctx context.Context) ([]core.DailyRecord, error)
	}

	HourlyReader interface {
		// ReadHourly returns every row of the hourly dataset in source order.
		ReadHourly(ctx context.Context) ([]core.HourlyRecord, error)
	}

	// Reader is implemented by every data backend.
	Reader interface {
		DailyReader
		HourlyReader
	}
)
