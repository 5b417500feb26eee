package report

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Ciriously/BrowserStack-Automation-Demo/config"
	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// SheetsExporter appends one row per session outcome to a Google Sheet.
// Teams that live in spreadsheets get a running log of matrix health
// without standing up any infrastructure.
type SheetsExporter struct {
	svc           *sheets.Service
	spreadsheetID string
	writeRange    string
}

// NewSheetsExporterFromEnv returns an exporter when SHEETS_SPREADSHEET_ID
// is set, nil when the feature is off. Credentials resolve through the
// usual application-default chain (GOOGLE_APPLICATION_CREDENTIALS).
func NewSheetsExporterFromEnv(ctx context.Context) (*SheetsExporter, error) {
	spreadsheetID := os.Getenv("SHEETS_SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, nil
	}

	creds, err := google.FindDefaultCredentials(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to load google credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	log.Printf("[report] exporting run log to spreadsheet %s", spreadsheetID)
	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		writeRange:    config.GetEnvOrDefault("SHEETS_RANGE", "Runs!A1"),
	}, nil
}

// AppendRun adds the run's sessions to the sheet, one row each.
func (e *SheetsExporter) AppendRun(ctx context.Context, testName string, r *types.RunReport) error {
	values := make([][]interface{}, 0, r.Len())
	for _, outcome := range r.All() {
		values = append(values, []interface{}{
			r.FinishedAt.Format(time.RFC3339),
			testName,
			outcome.Descriptor.Label(),
			string(outcome.Status),
			outcome.FailureReason,
			outcome.Duration().Seconds(),
		})
	}

	_, err := e.svc.Spreadsheets.Values.
		Append(e.spreadsheetID, e.writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append run to sheet: %w", err)
	}
	return nil
}
