// Package google backs up goal data to a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"pennypilot/internal/backup"
	"pennypilot/internal/core"
	"pennypilot/internal/schedule"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	goalsSheet    string
	eventsSheet   string
}

// Ensure interface conformance
var (
	_ backup.SnapshotWriter = (*Client)(nil)
	_ backup.EventLogger    = (*Client)(nil)
)

// NewFromEnv creates a Sheets backup client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional sheet names: GOOGLE_GOALS_SHEET_NAME (default "Goals"),
// GOOGLE_EVENTS_SHEET_NAME (default "Events").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	goalsSheet := strings.TrimSpace(os.Getenv("GOOGLE_GOALS_SHEET_NAME"))
	if goalsSheet == "" {
		goalsSheet = "Goals"
	}
	eventsSheet := strings.TrimSpace(os.Getenv("GOOGLE_EVENTS_SHEET_NAME"))
	if eventsSheet == "" {
		eventsSheet = "Events"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		goalsSheet:    goalsSheet,
		eventsSheet:   eventsSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets backup service created")
	return service, nil
}

// WriteSnapshot replaces the goals sheet with the current collection, one row
// per goal plus a header row.
func (c *Client) WriteSnapshot(ctx context.Context, goals []core.Goal) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rows := make([][]any, 0, len(goals)+1)
	rows = append(rows, []any{
		"ID", "Name", "Amount", "Frequency", "Start", "Due",
		"Milestones", "Completed Milestones", "Saved", "Completed",
	})
	for _, g := range goals {
		n := schedule.StepCount(g)
		rows = append(rows, []any{
			g.ID,
			g.Name,
			g.Amount.Dollars(),
			string(g.Frequency),
			g.StartDate.ISO(),
			g.DueDate.ISO(),
			n,
			schedule.SavedSteps(g, n),
			g.TotalSaved().Dollars(),
			g.Completed,
		})
	}

	clearRange := fmt.Sprintf("%s!A:J", c.goalsSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	writeRange := fmt.Sprintf("%s!A1", c.goalsSheet)
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write snapshot to %s: %w", c.goalsSheet, err)
	}

	slog.InfoContext(ctx, "Wrote goal snapshot to Google Sheets",
		"sheet", c.goalsSheet,
		"goals", len(goals))
	return nil
}

// AppendEvent appends one audit row to the events sheet.
func (c *Client) AppendEvent(ctx context.Context, kind string, goal core.Goal) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:F", c.eventsSheet)
	vr := &gsheet.ValueRange{Values: [][]any{{
		time.Now().UTC().Format(time.RFC3339),
		kind,
		goal.ID,
		goal.Name,
		goal.TotalSaved().Dollars(),
		goal.Completed,
	}}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append event to %s: %w", c.eventsSheet, err)
	}
	return nil
}
