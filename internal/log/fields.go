package log

import (
	"sort"

	"bikeshare/internal/core"
)

// Field names shared across components.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldRangeStart = "range_start"
	FieldRangeEnd   = "range_end"
	FieldDailyRows  = "daily_rows"
	FieldHourlyRows = "hourly_rows"
	FieldSurface    = "surface"
	FieldReportID   = "report_id"
)

const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentDashboard = "dashboard"
	ComponentBackend   = "backend"
	ComponentWorker    = "worker"
	ComponentImport    = "import"
	ComponentTemplate  = "template"
)

const (
	OpReport  = "report"
	OpExport  = "export"
	OpEnqueue = "enqueue"
	OpRender  = "render"
)

// LogFields collects attributes for one record.
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds the error text; a nil error adds nothing.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRange adds the requested date range.
func (f LogFields) WithRange(r core.DateRange) LogFields {
	f[FieldRangeStart] = r.Start.String()
	f[FieldRangeEnd] = r.End.String()
	return f
}

// ToSlice flattens the fields into slog key/value args, sorted by key.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(f)*2)
	for _, k := range keys {
		out = append(out, k, f[k])
	}
	return out
}
