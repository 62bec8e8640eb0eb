// Command bikeshare-import loads the daily and hourly CSV datasets into the
// SQLite database used by DATA_BACKEND=sqlite. Existing rows are replaced.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"bikeshare/internal/cli"
	"bikeshare/internal/config"
	"bikeshare/internal/core"
	"bikeshare/internal/dataset/csvfile"
	"bikeshare/internal/log"
	"bikeshare/internal/storage"
)

func main() {
	envErr := cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentImport)
	if envErr != nil {
		logger.Warn("Could not read env file", "error", envErr)
	}

	cfg := config.Load()
	daily := flag.String("daily", cfg.DailyDataPath, "path of the daily CSV dataset")
	hourly := flag.String("hourly", cfg.HourlyDataPath, "path of the hourly CSV dataset")
	dir := flag.String("dir", "", "directory holding day.csv and hour.csv; overrides -daily and -hourly")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "SQLite database to populate")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall import timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	src := csvfile.New(*daily, *hourly)
	if *dir != "" {
		src = csvfile.NewFromDir(*dir)
	}

	start := time.Now()
	if err := run(ctx, logger, src, *dbPath); err != nil {
		cancel()
		cli.Fatal(logger, "Import failed", "error", err)
	}
	logger.Info("Import complete", "db", *dbPath, "duration", time.Since(start).Round(time.Millisecond))
}

func run(ctx context.Context, logger *log.Logger, src *csvfile.Store, dbPath string) error {
	var (
		days  []core.DailyRecord
		hours []core.HourlyRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		days, err = src.ReadDaily(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		hours, err = src.ReadHourly(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("read csv datasets: %w", err)
	}

	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.ReplaceDaily(ctx, days); err != nil {
		return fmt.Errorf("import daily: %w", err)
	}
	if err := repo.ReplaceHourly(ctx, hours); err != nil {
		return fmt.Errorf("import hourly: %w", err)
	}

	nDaily, nHourly, err := repo.Counts(ctx)
	if err != nil {
		return fmt.Errorf("count imported rows: %w", err)
	}
	version, _, err := storage.SchemaVersion(dbPath)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("Datasets imported",
		"daily_rows", humanize.Comma(nDaily),
		"hourly_rows", humanize.Comma(nHourly),
		"schema_version", version)
	return nil
}
