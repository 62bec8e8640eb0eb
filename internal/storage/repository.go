package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bikeshare/internal/core"
	"bikeshare/internal/dataset"

	_ "modernc.org/sqlite"
)

var _ dataset.Reader = (*SQLiteRepository)(nil)

// SQLiteRepository keeps an imported copy of the daily and hourly datasets.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReadDaily implements dataset.DailyReader
func (r *SQLiteRepository) ReadDaily(ctx context.Context) ([]core.DailyRecord, error) {
	rows, err := r.queries.ListDailyRides(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list daily rides: %v", core.ErrDataUnavailable, err)
	}
	out := make([]core.DailyRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.daily()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadHourly implements dataset.HourlyReader
func (r *SQLiteRepository) ReadHourly(ctx context.Context) ([]core.HourlyRecord, error) {
	rows, err := r.queries.ListHourlyRides(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list hourly rides: %v", core.ErrDataUnavailable, err)
	}
	out := make([]core.HourlyRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.daily()
		if err != nil {
			return nil, err
		}
		out = append(out, core.HourlyRecord{DailyRecord: rec, Hour: int(row.Hr)})
	}
	return out, nil
}

// ReplaceDaily swaps the stored daily dataset for records in one transaction.
func (r *SQLiteRepository) ReplaceDaily(ctx context.Context, records []core.DailyRecord) error {
	return r.replace(ctx, "daily", len(records), func(q *Queries) error {
		if err := q.DeleteDailyRides(ctx); err != nil {
			return fmt.Errorf("delete daily rides: %w", err)
		}
		for i, rec := range records {
			if err := q.InsertDailyRide(ctx, rideRow(rec, 0)); err != nil {
				return fmt.Errorf("insert daily ride %d: %w", i, err)
			}
		}
		return nil
	})
}

// ReplaceHourly swaps the stored hourly dataset for records in one transaction.
func (r *SQLiteRepository) ReplaceHourly(ctx context.Context, records []core.HourlyRecord) error {
	return r.replace(ctx, "hourly", len(records), func(q *Queries) error {
		if err := q.DeleteHourlyRides(ctx); err != nil {
			return fmt.Errorf("delete hourly rides: %w", err)
		}
		for i, rec := range records {
			if err := q.InsertHourlyRide(ctx, rideRow(rec.DailyRecord, rec.Hour)); err != nil {
				return fmt.Errorf("insert hourly ride %d: %w", i, err)
			}
		}
		return nil
	})
}

// Counts returns the number of stored daily and hourly rows.
func (r *SQLiteRepository) Counts(ctx context.Context) (daily, hourly int64, err error) {
	if daily, err = r.queries.CountDailyRides(ctx); err != nil {
		return 0, 0, fmt.Errorf("count daily rides: %w", err)
	}
	if hourly, err = r.queries.CountHourlyRides(ctx); err != nil {
		return 0, 0, fmt.Errorf("count hourly rides: %w", err)
	}
	return daily, hourly, nil
}

func (r *SQLiteRepository) replace(ctx context.Context, table string, n int, fn func(*Queries) error) error {
	start := time.Now()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(r.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s import: %w", table, err)
	}

	slog.InfoContext(ctx, "Dataset imported into SQLite",
		"table", table,
		"rows", n,
		"duration", time.Since(start))
	return nil
}

func rideRow(rec core.DailyRecord, hour int) RideRow {
	return RideRow{
		RideDate:   rec.Date.String(),
		Hr:         int64(hour),
		Yr:         int64(rec.Year),
		Mnth:       int64(rec.Month),
		Season:     int64(rec.Season),
		Holiday:    int64(rec.Holiday),
		Workingday: int64(rec.WorkingDay),
		Weathersit: int64(rec.Weather),
		Casual:     rec.Casual,
		Registered: rec.Registered,
		Cnt:        rec.Total,
	}
}

func (row RideRow) daily() (core.DailyRecord, error) {
	d, err := core.ParseDate(row.RideDate)
	if err != nil {
		return core.DailyRecord{}, fmt.Errorf("%w: stored ride date: %v", core.ErrDataUnavailable, err)
	}
	return core.DailyRecord{
		Date:       d,
		Year:       int(row.Yr),
		Month:      int(row.Mnth),
		Season:     int(row.Season),
		Holiday:    int(row.Holiday),
		WorkingDay: int(row.Workingday),
		Weather:    int(row.Weathersit),
		Casual:     row.Casual,
		Registered: row.Registered,
		Total:      row.Cnt,
	}, nil
}
