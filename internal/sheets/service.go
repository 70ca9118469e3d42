// Package sheets persists chat logs to a Google Sheets worksheet and uploads
// exports to Drive, authenticating as a service account.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ethanbaker/fanchat/pkg/export"
	"github.com/ethanbaker/fanchat/pkg/utils"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Worksheet layout. The header must match what history loading expects
const (
	WorksheetTitle = "chat_logs"
	logRange       = WorksheetTitle + "!A:F"
)

var logHeader = []string{"timestamp", "conversation_id", "bot_type", "role", "name", "content"}

// serviceAccountInfo is the subset of the credentials file surfaced to
// operators for sharing instructions
type serviceAccountInfo struct {
	ClientEmail string `json:"client_email"`
	ClientID    string `json:"client_id"`
	ProjectID   string `json:"project_id"`
}

// Service wraps the Google Sheets and Drive APIs for chat-log persistence
type Service struct {
	sheets        *sheets.Service
	drive         *drive.Service
	spreadsheetID string
	account       serviceAccountInfo
}

// NewService creates a Service from configuration. It needs
// GOOGLE_SERVICE_ACCOUNT_JSON (path to the credentials file) and GSHEET_ID
// (the spreadsheet to log into)
func NewService(ctx context.Context, cfg *utils.Config) (*Service, error) {
	credentialsPath := cfg.Get("GOOGLE_SERVICE_ACCOUNT_JSON")
	if credentialsPath == "" {
		return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON not set in environment")
	}

	spreadsheetID := cfg.Get("GSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("GSHEET_ID not set in environment")
	}

	credentialsJSON, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var account serviceAccountInfo
	if err := json.Unmarshal(credentialsJSON, &account); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	client := jwtConfig.Client(ctx)

	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Service{
		sheets:        sheetsService,
		drive:         driveService,
		spreadsheetID: spreadsheetID,
		account:       account,
	}, nil
}

// ServiceAccountEmail returns the identity the spreadsheet must be shared
// with as editor
func (s *Service) ServiceAccountEmail() string {
	return s.account.ClientEmail
}

// ProjectID returns the cloud project the service account belongs to
func (s *Service) ProjectID() string {
	return s.account.ProjectID
}

// EnsureWorksheet creates the chat_logs worksheet with its header row when
// the spreadsheet doesn't have one yet
func (s *Service) EnsureWorksheet(ctx context.Context) error {
	spreadsheet, err := s.sheets.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == WorksheetTitle {
			return nil
		}
	}

	_, err = s.sheets.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: WorksheetTitle},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	header := make([]interface{}, len(logHeader))
	for i, h := range logHeader {
		header[i] = h
	}

	_, err = s.sheets.Spreadsheets.Values.Append(s.spreadsheetID, logRange, &sheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write worksheet header: %w", err)
	}

	return nil
}

// AppendLog appends one chat turn to the log worksheet
func (s *Service) AppendLog(ctx context.Context, conversationID, botType string, turn export.Turn) error {
	if err := s.EnsureWorksheet(ctx); err != nil {
		return err
	}

	row := logRow(time.Now().UTC(), conversationID, botType, turn)
	_, err := s.sheets.Spreadsheets.Values.Append(s.spreadsheetID, logRange, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append log row: %w", err)
	}

	return nil
}

// logRow maps a turn onto the worksheet's column layout
func logRow(ts time.Time, conversationID, botType string, turn export.Turn) []interface{} {
	return []interface{}{
		ts.Format(time.RFC3339),
		conversationID,
		botType,
		string(turn.Role),
		turn.Name,
		turn.Content,
	}
}

// UploadCSV pushes an exported CSV into the configured Drive folder and
// returns the created file's id. folderID may be empty to upload into the
// service account's own drive
func (s *Service) UploadCSV(ctx context.Context, name string, data []byte, folderID string) (string, error) {
	file := &drive.File{
		Name:     name,
		MimeType: "text/csv",
	}
	if folderID != "" {
		file.Parents = []string{folderID}
	}

	created, err := s.drive.Files.Create(file).
		Media(bytes.NewReader(data)).
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload CSV to drive: %w", err)
	}

	return created.Id, nil
}
