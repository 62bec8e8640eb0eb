package google

import (
	"fmt"
	"strings"

	"bikeshare/internal/core"
	"bikeshare/internal/dataset"
)

// tableFromValues converts a values matrix (as returned by the Sheets API)
// into a raw table. The first row is the header; fully blank rows are skipped.
func tableFromValues(name string, values [][]interface{}) (dataset.Table, error) {
	if len(values) == 0 {
		return dataset.Table{}, fmt.Errorf("%w: sheet %s is empty", core.ErrDataUnavailable, name)
	}
	tbl := dataset.Table{Name: name, Header: toStrings(values[0])}
	for _, raw := range values[1:] {
		row := toStrings(raw)
		if blank(row) {
			continue
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func blank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
