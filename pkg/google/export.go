package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/khata-app/khata/internal/utils"
	"github.com/khata-app/khata/pkg/expense"
	"github.com/khata-app/khata/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/sheets/v4"
)

// ErrNoExpenses signals an export attempt with nothing to write.
var ErrNoExpenses = errors.New("no expenses to export")

// ExpenseLister supplies the owner's expenses. Satisfied by expense.Service.
type ExpenseLister interface {
	List(ctx context.Context, filter expense.Filter) ([]expense.Expense, error)
}

// ExpenseRows renders the detail table: a header row followed by one row per
// expense in the order given (callers sort newest-first upstream).
func ExpenseRows(expenses []expense.Expense) [][]any {
	rows := make([][]any, 0, len(expenses)+1)
	rows = append(rows, []any{"Date", "Description", "Category", "Amount"})
	for _, e := range expenses {
		rows = append(rows, []any{e.Date.Format(expense.DateFormat), e.Description, string(e.Category), e.Amount})
	}
	return rows
}

// SummaryRows renders the fixed-layout summary table: header, blank row,
// total, blank row, then per-category totals in first-seen order.
func SummaryRows(expenses []expense.Expense) [][]any {
	var categories []expense.Category
	totals := map[expense.Category]int{}
	totalAmount := 0
	for _, e := range expenses {
		if _, seen := totals[e.Category]; !seen {
			categories = append(categories, e.Category)
		}
		totals[e.Category] += e.Amount
		totalAmount += e.Amount
	}

	rows := [][]any{
		{"Category", "Amount"},
		{"", ""},
		{"TOTAL SPENT", totalAmount},
		{"", ""},
		{"BY CATEGORY", ""},
	}
	for _, c := range categories {
		rows = append(rows, []any{string(c), totals[c]})
	}
	return rows
}

type ExportResult struct {
	SpreadsheetId  string
	SpreadsheetUrl string
	ExportedCount  int
}

type Exporter struct {
	sheets   Service
	expenses ExpenseLister
	auth     *GoogleAuth
	clock    utils.Clock
}

func NewExporter(sheets Service, expenses ExpenseLister, auth *GoogleAuth, clock utils.Clock) *Exporter {
	return &Exporter{sheets: sheets, expenses: expenses, auth: auth, clock: clock}
}

// Export writes the owner's expenses (filtered by timeRange: all, week, or
// month) and a derived summary to the linked spreadsheet, creating and
// remembering the spreadsheet on first use. Header styling is applied
// best-effort after the data write.
func (e *Exporter) Export(ctx context.Context, timeRange string) (ExportResult, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to get current user: %w", err)
	}

	filter := expense.Filter{}
	switch timeRange {
	case "week":
		filter.From = e.clock.Now().AddDate(0, 0, -7)
	case "month":
		filter.From = e.clock.Now().AddDate(0, 0, -30)
	}
	expenses, err := e.expenses.List(ctx, filter)
	if err != nil {
		return ExportResult{}, err
	}
	if len(expenses) == 0 {
		return ExportResult{}, ErrNoExpenses
	}

	spreadsheetId, err := e.auth.getSpreadsheetId(ctx, currentUser.Id)
	if err != nil {
		return ExportResult{}, err
	}
	if spreadsheetId == "" {
		title := fmt.Sprintf("My Expenses - %s", currentUser.DisplayName)
		spreadsheetId, err = e.sheets.CreateSpreadsheet(ctx, title)
		if err != nil {
			return ExportResult{}, err
		}
		if err := e.auth.setSpreadsheetId(ctx, currentUser.Id, spreadsheetId); err != nil {
			return ExportResult{}, err
		}
		log.Infof("created spreadsheet %s for user %d", spreadsheetId, currentUser.Id)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return e.sheets.WriteRange(groupCtx, spreadsheetId, expensesSheetTitle+"!A1", ExpenseRows(expenses))
	})
	group.Go(func() error {
		return e.sheets.WriteRange(groupCtx, spreadsheetId, summarySheetTitle+"!A1", SummaryRows(expenses))
	})
	if err := group.Wait(); err != nil {
		return ExportResult{}, err
	}

	// Styling must not roll back the data write.
	if err := e.sheets.ApplyFormatting(ctx, spreadsheetId, headerFormatRequests()); err != nil {
		log.Warnf("failed to style spreadsheet %s: %v", spreadsheetId, err)
	}

	return ExportResult{
		SpreadsheetId:  spreadsheetId,
		SpreadsheetUrl: fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", spreadsheetId),
		ExportedCount:  len(expenses),
	}, nil
}

// headerFormatRequests styles the header row of both sheets (blue background,
// white bold text) and auto-sizes the detail columns.
func headerFormatRequests() []*sheets.Request {
	headerCell := &sheets.CellData{
		UserEnteredFormat: &sheets.CellFormat{
			BackgroundColor: &sheets.Color{Red: 0.26, Green: 0.52, Blue: 0.96},
			TextFormat: &sheets.TextFormat{
				ForegroundColor: &sheets.Color{Red: 1.0, Green: 1.0, Blue: 1.0},
				FontSize:        11,
				Bold:            true,
			},
		},
	}
	return []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range:  &sheets.GridRange{SheetId: 0, StartRowIndex: 0, EndRowIndex: 1},
				Cell:   headerCell,
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   4,
				},
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range:  &sheets.GridRange{SheetId: 1, StartRowIndex: 0, EndRowIndex: 1},
				Cell:   headerCell,
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		},
	}
}
