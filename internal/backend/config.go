package backend

import (
	"errors"
	"fmt"

	"bikeshare/internal/config"
)

// FromAppConfig picks the backend settings out of the application config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	cfg := Config{
		Type:                     BackendType(appConfig.DataBackend),
		DailyDataPath:            appConfig.DailyDataPath,
		HourlyDataPath:           appConfig.HourlyDataPath,
		SQLiteDBPath:             appConfig.SQLiteDBPath,
		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleDailySheetName:     appConfig.GoogleDailySheetName,
		GoogleHourlySheetName:    appConfig.GoogleHourlySheetName,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
	}
	if !cfg.Type.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %q, want one of %v", appConfig.DataBackend, GetBackendTypeStrings())
	}
	return cfg, nil
}

// Validate checks that the settings the chosen backend needs are present.
func (c Config) Validate() error {
	var missing []string
	require := func(value, name string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	switch c.Type {
	case CSVBackend:
		require(c.DailyDataPath, "daily data path")
		require(c.HourlyDataPath, "hourly data path")
	case SQLiteBackend:
		require(c.SQLiteDBPath, "SQLite database path")
	case SheetsBackend:
		require(c.GoogleSpreadsheetID, "Google Spreadsheet ID")
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			missing = append(missing, "service account credentials (JSON or file)")
		}
	default:
		return fmt.Errorf("invalid backend type: %q", c.Type)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%s backend: missing %v", c.Type, missing)
	}
	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{CSVBackend, SQLiteBackend, SheetsBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
