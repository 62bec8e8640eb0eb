package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "bikeshare.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepositoryRoundTripPreservesOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	daily := []core.DailyRecord{
		{Date: core.NewDate(2012, 6, 1), Year: 1, Month: 6, Season: 2, WorkingDay: 1, Weather: 1, Casual: 150, Registered: 450, Total: 600},
		{Date: core.NewDate(2011, 6, 1), Year: 0, Month: 6, Season: 2, WorkingDay: 1, Weather: 2, Casual: 100, Registered: 400, Total: 500},
	}
	hourly := []core.HourlyRecord{
		{DailyRecord: daily[1], Hour: 8},
		{DailyRecord: daily[0], Hour: 17},
	}
	require.NoError(t, repo.ReplaceDaily(ctx, daily))
	require.NoError(t, repo.ReplaceHourly(ctx, hourly))

	gotDaily, err := repo.ReadDaily(ctx)
	require.NoError(t, err)
	assert.Equal(t, daily, gotDaily)

	gotHourly, err := repo.ReadHourly(ctx)
	require.NoError(t, err)
	assert.Equal(t, hourly, gotHourly)

	d, h, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), d)
	assert.Equal(t, int64(2), h)
}

func TestRepositoryReplaceOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := []core.DailyRecord{{Date: core.NewDate(2011, 1, 1), Total: 1}, {Date: core.NewDate(2011, 1, 2), Total: 2}}
	require.NoError(t, repo.ReplaceDaily(ctx, first))
	second := []core.DailyRecord{{Date: core.NewDate(2012, 1, 1), Year: 1, Total: 3}}
	require.NoError(t, repo.ReplaceDaily(ctx, second))

	got, err := repo.ReadDaily(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestRepositoryRejectsInvalidHourKeepsPrevious(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	good := []core.HourlyRecord{{DailyRecord: core.DailyRecord{Date: core.NewDate(2011, 1, 1), Total: 4}, Hour: 3}}
	require.NoError(t, repo.ReplaceHourly(ctx, good))

	bad := []core.HourlyRecord{{DailyRecord: core.DailyRecord{Date: core.NewDate(2011, 1, 1)}, Hour: 24}}
	require.Error(t, repo.ReplaceHourly(ctx, bad))

	got, err := repo.ReadHourly(ctx)
	require.NoError(t, err)
	assert.Equal(t, good, got)
}

func TestRepositoryEmpty(t *testing.T) {
	repo := newTestRepo(t)
	got, err := repo.ReadDaily(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.db")

	version, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path), "second run is a no-op")

	version, dirty, err = SchemaVersion(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}
