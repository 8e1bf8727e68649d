package google

import (
	"context"
	"fmt"

	"github.com/khata-app/khata/pkg/user"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	expensesSheetTitle = "All Expenses"
	summarySheetTitle  = "Summary"
)

// Service is the Sheets adapter consumed by the exporter and importer. All
// operations act with the current user's stored credentials.
type Service interface {
	CreateSpreadsheet(ctx context.Context, title string) (string, error)
	WriteRange(ctx context.Context, spreadsheetId string, writeRange string, values [][]any) error
	ReadRange(ctx context.Context, spreadsheetId string, readRange string) ([][]any, error)
	ApplyFormatting(ctx context.Context, spreadsheetId string, requests []*sheets.Request) error
}

type ServiceImpl struct {
	auth *GoogleAuth
}

func NewService(auth *GoogleAuth) *ServiceImpl {
	return &ServiceImpl{auth: auth}
}

// CreateSpreadsheet creates a spreadsheet with the detail and summary sheets,
// freezing the detail header row.
func (s *ServiceImpl) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	service, err := s.prepareSheetsService(ctx)
	if err != nil {
		return "", err
	}

	spreadsheet, err := service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: expensesSheetTitle,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
			},
			{
				Properties: &sheets.SheetProperties{Title: summarySheetTitle},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to create spreadsheet: %v", err)
		log.Error(err)
		return "", err
	}
	return spreadsheet.SpreadsheetId, nil
}

func (s *ServiceImpl) WriteRange(ctx context.Context, spreadsheetId string, writeRange string, values [][]any) error {
	service, err := s.prepareSheetsService(ctx)
	if err != nil {
		return err
	}

	_, err = service.Spreadsheets.Values.Update(spreadsheetId, writeRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to write range %s: %v", writeRange, err)
		log.Error(err)
		return err
	}
	return nil
}

func (s *ServiceImpl) ReadRange(ctx context.Context, spreadsheetId string, readRange string) ([][]any, error) {
	service, err := s.prepareSheetsService(ctx)
	if err != nil {
		return nil, err
	}

	response, err := service.Spreadsheets.Values.Get(spreadsheetId, readRange).Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to read range %s: %v", readRange, err)
		log.Error(err)
		return nil, err
	}
	return response.Values, nil
}

func (s *ServiceImpl) ApplyFormatting(ctx context.Context, spreadsheetId string, requests []*sheets.Request) error {
	service, err := s.prepareSheetsService(ctx)
	if err != nil {
		return err
	}

	_, err = service.Spreadsheets.BatchUpdate(spreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to apply spreadsheet formatting: %v", err)
		log.Error(err)
		return err
	}
	return nil
}

func (s *ServiceImpl) prepareSheetsService(ctx context.Context) (*sheets.Service, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	client, err := s.auth.getClient(ctx, userId)
	if err != nil {
		err := fmt.Errorf("unable to retrieve Google auth client: %v", err)
		log.Error(err)
		return nil, err
	}
	if client == nil {
		log.Debug("user has no linked Google account, authentication is required")
		return nil, ErrNotConnected
	}
	service, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		err := fmt.Errorf("unable to create Sheets client: %v", err)
		log.Error(err)
		return nil, err
	}
	return service, nil
}
