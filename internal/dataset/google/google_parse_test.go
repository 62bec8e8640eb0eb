package google

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/core"
	"bikeshare/internal/dataset"
)

// Mirrors the first rows of the public day.csv as the Sheets API returns them.
func TestTableFromValues_DailySheet(t *testing.T) {
	values := [][]interface{}{
		{"instant", "dteday", "season", "yr", "mnth", "holiday", "weekday", "workingday", "weathersit", "casual", "registered", "cnt"},
		{1.0, "2011-01-01", 1.0, 0.0, 1.0, 0.0, 6.0, 0.0, 2.0, 331.0, 654.0, 985.0},
		{},
		{"", "", ""},
		{2.0, "2011-01-02", 1.0, 0.0, 1.0, 0.0, 0.0, 0.0, 2.0, 131.0, 670.0, 801.0},
	}

	tbl, err := tableFromValues("day", values)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)

	daily, err := dataset.DecodeDaily(tbl)
	require.NoError(t, err)
	assert.Equal(t, int64(985), daily[0].Total)
	assert.Equal(t, core.NewDate(2011, 1, 2), daily[1].Date)
	assert.Equal(t, 2, daily[1].Weather)
}

func TestTableFromValues_Empty(t *testing.T) {
	_, err := tableFromValues("hour", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDataUnavailable))
}

func TestClientWithoutService(t *testing.T) {
	c := New(nil, "id", "day", "hour")
	_, err := c.ReadDaily(context.Background())
	assert.Error(t, err)
}

func TestOpenRequiresSpreadsheetAndCredentials(t *testing.T) {
	_, err := Open(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SPREADSHEET_ID")

	_, err = Open(context.Background(), Options{SpreadsheetID: "sheet-id"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing service account credentials")
}
