package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"bikeshare/internal/core"
	"bikeshare/internal/dataset"
)

var _ dataset.Reader = (*Client)(nil)

// Client reads the bike-sharing datasets from two tabs of a spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	dailySheet    string
	hourlySheet   string
}

// Options locates the spreadsheet and its credentials.
type Options struct {
	SpreadsheetID   string
	DailySheet      string
	HourlySheet     string
	CredentialsJSON string
	CredentialsFile string
}

// Open creates a read-only Sheets client for the given options.
func Open(ctx context.Context, opts Options) (*Client, error) {
	if opts.SpreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if opts.DailySheet == "" {
		opts.DailySheet = "day"
	}
	if opts.HourlySheet == "" {
		opts.HourlySheet = "hour"
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return New(svc, opts.SpreadsheetID, opts.DailySheet, opts.HourlySheet), nil
}

func New(svc *gsheet.Service, spreadsheetID, dailySheet, hourlySheet string) *Client {
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		dailySheet:    dailySheet,
		hourlySheet:   hourlySheet,
	}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Inline JSON wins over the credentials file.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case opts.CredentialsJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(opts.CredentialsJSON)
	case opts.CredentialsFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", opts.CredentialsFile)
		var err error
		credentialsJSON, err = os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope),
		goption.WithHTTPClient(newHTTPClientWithPooling()))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "scope", gsheet.SpreadsheetsReadonlyScope)
	return service, nil
}

// newHTTPClientWithPooling creates an HTTP client for the Sheets API with
// connection pooling and bounded timeouts.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

func (c *Client) ReadDaily(ctx context.Context) ([]core.DailyRecord, error) {
	tbl, err := c.readSheet(ctx, c.dailySheet)
	if err != nil {
		return nil, err
	}
	return dataset.DecodeDaily(tbl)
}

func (c *Client) ReadHourly(ctx context.Context) ([]core.HourlyRecord, error) {
	tbl, err := c.readSheet(ctx, c.hourlySheet)
	if err != nil {
		return nil, err
	}
	return dataset.DecodeHourly(tbl)
}

func (c *Client) readSheet(ctx context.Context, sheet string) (dataset.Table, error) {
	if c.svc == nil {
		return dataset.Table{}, errors.New("sheets service not initialized")
	}
	start := time.Now()
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return dataset.Table{}, fmt.Errorf("%w: read sheet %s: %v", core.ErrDataUnavailable, sheet, err)
	}
	slog.DebugContext(ctx, "Sheet read",
		"sheet", sheet,
		"rows", len(resp.Values),
		"duration", time.Since(start))
	return tableFromValues(sheet, resp.Values)
}
