package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bikeshare/internal/core"
	"bikeshare/internal/dataset"
)

// Default file names inside a data directory.
const (
	DailyFile  = "day.csv"
	HourlyFile = "hour.csv"
)

var _ dataset.Reader = (*Store)(nil)

// Store reads the daily and hourly datasets from local CSV files.
type Store struct {
	dailyPath  string
	hourlyPath string
}

func New(dailyPath, hourlyPath string) *Store {
	return &Store{dailyPath: dailyPath, hourlyPath: hourlyPath}
}

// NewFromDir uses day.csv and hour.csv inside base.
func NewFromDir(base string) *Store {
	return New(filepath.Join(base, DailyFile), filepath.Join(base, HourlyFile))
}

func (s *Store) ReadDaily(ctx context.Context) ([]core.DailyRecord, error) {
	tbl, err := ReadTable(ctx, s.dailyPath)
	if err != nil {
		return nil, err
	}
	return dataset.DecodeDaily(tbl)
}

func (s *Store) ReadHourly(ctx context.Context) ([]core.HourlyRecord, error) {
	tbl, err := ReadTable(ctx, s.hourlyPath)
	if err != nil {
		return nil, err
	}
	return dataset.DecodeHourly(tbl)
}

// ReadTable loads a headered CSV file into a raw table.
func ReadTable(ctx context.Context, path string) (dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("%w: %v", core.ErrDataUnavailable, err)
	}
	defer f.Close()
	return Parse(ctx, filepath.Base(path), f)
}

// Parse reads CSV content from r. The first record is the header.
func Parse(ctx context.Context, name string, r io.Reader) (dataset.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return dataset.Table{}, fmt.Errorf("%w: %s: empty file", core.ErrDataUnavailable, name)
	}
	if err != nil {
		return dataset.Table{}, fmt.Errorf("%w: %s: %v", core.ErrDataUnavailable, name, err)
	}

	tbl := dataset.Table{Name: name, Header: header}
	for {
		if len(tbl.Rows)%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return dataset.Table{}, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dataset.Table{}, fmt.Errorf("%w: %s: %v", core.ErrDataUnavailable, name, err)
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	return tbl, nil
}
