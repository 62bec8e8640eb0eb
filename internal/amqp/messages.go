package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"bikeshare/internal/core"
)

// ReportRequest asks the worker to compute the report for a date range.
type ReportRequest struct {
	ID        uuid.UUID      `json:"id"`
	Range     core.DateRange `json:"range"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewReportRequest creates a request with a fresh random ID.
func NewReportRequest(r core.DateRange) *ReportRequest {
	return &ReportRequest{
		ID:        uuid.New(),
		Range:     r,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRequestFromJSON creates a message from JSON bytes
func ReportRequestFromJSON(data []byte) (*ReportRequest, error) {
	var msg ReportRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReportReady carries the computed report back for a request. Error is set
// instead of Report when the computation failed.
type ReportReady struct {
	RequestID   uuid.UUID    `json:"request_id"`
	Report      *core.Report `json:"report,omitempty"`
	Error       string       `json:"error,omitempty"`
	CompletedAt time.Time    `json:"completed_at"`
}

// NewReportReady wraps a computed report or its failure.
func NewReportReady(id uuid.UUID, rep *core.Report, err error) *ReportReady {
	msg := &ReportReady{RequestID: id, Report: rep, CompletedAt: time.Now()}
	if err != nil {
		msg.Report = nil
		msg.Error = err.Error()
	}
	return msg
}

func (m *ReportReady) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportReadyFromJSON(data []byte) (*ReportReady, error) {
	var msg ReportReady
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
