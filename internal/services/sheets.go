package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/kalagato/valuebot-backend/internal/models"
)

var sheetHeaders = []interface{}{
	"Timestamp", "User Phone", "App Store Link", "Play Store Link",
	"Annual Revenue", "Marketing Cost", "Server Cost", "Annual Profit",
	"Revenue Type", "Email", "Phone",
	"Estimated Valuation Min", "Estimated Valuation Max", "Estimated Valuation Mid",
}

// SheetsSink appends completed conversations to a Google Sheet. Init is
// lazy and failures are remembered but retried on the next save, so a
// misconfigured sheet never blocks conversations.
type SheetsSink struct {
	sheetID   string
	sheetName string

	mu      sync.Mutex
	service *sheets.Service
}

// NewSheetsSink reads SHEET_ID / SHEET_NAME / GOOGLE_SHEETS_CREDENTIALS
// from the environment. A missing SHEET_ID disables the sink (saves are
// skipped with a warning).
func NewSheetsSink() *SheetsSink {
	sheetName := os.Getenv("SHEET_NAME")
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	sink := &SheetsSink{
		sheetID:   os.Getenv("SHEET_ID"),
		sheetName: sheetName,
	}
	if sink.sheetID == "" {
		log.Println("⚠️  SHEET_ID not set - Google Sheets writes will be skipped")
	}
	return sink
}

// Configured reports whether the sink has a target spreadsheet.
func (s *SheetsSink) Configured() bool {
	return s.sheetID != ""
}

// SaveLead appends one row for the completed conversation.
func (s *SheetsSink) SaveLead(lead *models.ValuationLead) error {
	if s.sheetID == "" {
		log.Println("Skipping sheet save; SHEET_ID not configured")
		return nil
	}

	ctx := context.Background()
	svc, err := s.ensureService(ctx)
	if err != nil {
		return fmt.Errorf("sheets init: %w", err)
	}

	row := []interface{}{
		lead.CreatedAt.Format("2006-01-02 15:04:05"),
		lead.UserPhone,
		lead.AppStoreLink,
		lead.PlayStoreLink,
		lead.Revenue,
		lead.MarketingCost,
		lead.ServerCost,
		lead.Profit,
		lead.RevenueType,
		lead.Email,
		lead.Phone,
		lead.ValuationMin,
		lead.ValuationMax,
		lead.ValuationMid,
	}

	_, err = svc.Spreadsheets.Values.Append(s.sheetID, s.sheetName, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// ensureService lazily authorizes against the Sheets API using the
// service-account JSON from GOOGLE_SHEETS_CREDENTIALS, falling back to a
// service_account.json file next to the binary.
func (s *SheetsSink) ensureService(ctx context.Context) (*sheets.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.service != nil {
		return s.service, nil
	}

	data := []byte(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
	if len(data) == 0 {
		fileData, err := os.ReadFile("service_account.json")
		if err != nil {
			return nil, fmt.Errorf("no GOOGLE_SHEETS_CREDENTIALS and no service_account.json: %w", err)
		}
		data = fileData
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, err
	}

	if err := s.ensureWorksheet(ctx, svc); err != nil {
		return nil, err
	}

	s.service = svc
	log.Printf("✅ Google Sheets ready (worksheet: %s)", s.sheetName)
	return svc, nil
}

// ensureWorksheet creates the target worksheet with a header row when the
// spreadsheet doesn't have it yet.
func (s *SheetsSink) ensureWorksheet(ctx context.Context, svc *sheets.Service) error {
	spreadsheet, err := svc.Spreadsheets.Get(s.sheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("open spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == s.sheetName {
			return nil
		}
	}

	log.Printf("Worksheet %q not found - creating", s.sheetName)
	_, err = svc.Spreadsheets.BatchUpdate(s.sheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: s.sheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create worksheet: %w", err)
	}

	_, err = svc.Spreadsheets.Values.Append(s.sheetID, s.sheetName, &sheets.ValueRange{
		Values: [][]interface{}{sheetHeaders},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	return nil
}
