package google

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khata-app/khata/internal/utils"
	"github.com/khata-app/khata/pkg/expense"
	"github.com/khata-app/khata/pkg/user"
	log "github.com/sirupsen/logrus"
)

const (
	defaultImportRange      = "All Expenses!A:D"
	importedExpenseFallback = "Imported expense"
)

// ErrSchemaInference signals that the imported headers could not be mapped to
// the required columns. The wrapping error message carries the header list.
var ErrSchemaInference = fmt.Errorf("required columns not found")

// ErrNoValidRows signals an import where no row survived normalization.
var ErrNoValidRows = fmt.Errorf("no valid expenses found in the sheet")

// Synonyms accepted per required field, matched as substrings of the
// lower-cased headers. The first matching header position wins.
var (
	dateHeaders        = []string{"date", "day", "when", "time"}
	descriptionHeaders = []string{"description", "desc", "name", "item", "expense", "details", "what"}
	categoryHeaders    = []string{"category", "cat", "type", "tag"}
	amountHeaders      = []string{"amount", "amt", "cost", "price", "value", "₹", "inr", "rupee"}
)

var amountCleaner = regexp.MustCompile(`[^0-9.\-]`)

// Date layouts accepted on import: the export format first, then the
// day-first forms common in hand-made sheets.
var importDateLayouts = []string{expense.DateFormat, "02/01/2006", "2/1/2006", "02-01-2006"}

type columnIndexes struct {
	date        int
	description int
	category    int
	amount      int
}

// Reconcile turns raw tabular data (first row headers) into normalized
// expense candidates. Per-row problems skip the row without aborting the
// batch; header problems fail the whole import.
func Reconcile(data [][]any, now time.Time) ([]expense.Expense, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: expected headers and at least one row", ErrNoValidRows)
	}

	headers := make([]string, len(data[0]))
	for i, h := range data[0] {
		headers[i] = cellString(h)
	}
	columns, err := inferColumns(headers)
	if err != nil {
		return nil, err
	}

	var candidates []expense.Expense
	for _, row := range data[1:] {
		candidate, ok := normalizeRow(row, columns, now)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate)
	}
	if len(candidates) == 0 {
		return nil, ErrNoValidRows
	}
	return candidates, nil
}

func inferColumns(headers []string) (columnIndexes, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	findColumn := func(synonyms []string) int {
		for idx, header := range normalized {
			for _, synonym := range synonyms {
				if strings.Contains(header, synonym) {
					return idx
				}
			}
		}
		return -1
	}

	columns := columnIndexes{
		date:        findColumn(dateHeaders),
		description: findColumn(descriptionHeaders),
		category:    findColumn(categoryHeaders),
		amount:      findColumn(amountHeaders),
	}
	if columns.date == -1 || columns.description == -1 || columns.category == -1 || columns.amount == -1 {
		return columnIndexes{}, fmt.Errorf(
			"%w: expected Date, Description, Category, Amount; found: %s",
			ErrSchemaInference, strings.Join(headers, ", "),
		)
	}
	return columns, nil
}

func normalizeRow(row []any, columns columnIndexes, now time.Time) (expense.Expense, bool) {
	if len(row) == 0 || columns.amount >= len(row) || cellString(row[columns.amount]) == "" {
		return expense.Expense{}, false
	}

	amountStr := amountCleaner.ReplaceAllString(cellString(row[columns.amount]), "")
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return expense.Expense{}, false
	}
	rounded := int(math.Round(amount))
	if rounded <= 0 {
		return expense.Expense{}, false
	}

	description := ""
	if columns.description < len(row) {
		description = strings.TrimSpace(cellString(row[columns.description]))
	}
	if description == "" {
		description = importedExpenseFallback
	}

	category := expense.CategoryOther
	if columns.category < len(row) {
		if cell := cellString(row[columns.category]); strings.TrimSpace(cell) != "" {
			category = expense.ParseCategory(cell)
		}
	}

	// Only a blank date cell defaults to today; a date that fits none of the
	// accepted layouts fails the row instead of being rewritten.
	date := now
	if columns.date < len(row) {
		if cell := strings.TrimSpace(cellString(row[columns.date])); cell != "" {
			parsed, ok := parseImportDate(cell)
			if !ok {
				return expense.Expense{}, false
			}
			date = parsed
		}
	}

	return expense.Expense{
		Amount:      rounded,
		Category:    category,
		Description: description,
		Date:        date,
	}, true
}

func parseImportDate(cell string) (time.Time, bool) {
	for _, layout := range importDateLayouts {
		if parsed, err := time.Parse(layout, cell); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func cellString(cell any) string {
	if cell == nil {
		return ""
	}
	return fmt.Sprintf("%v", cell)
}

type ImportResult struct {
	ImportedCount int
	SkippedCount  int
	Errors        []string
}

type Importer struct {
	sheets Service
	repo   expense.Repo
	clock  utils.Clock
}

func NewImporter(sheets Service, repo expense.Repo, clock utils.Clock) *Importer {
	return &Importer{sheets: sheets, repo: repo, clock: clock}
}

// Import reads the given range, reconciles the rows against the owner's
// stored expenses, and inserts what is new. Duplicates (exact match on
// date+amount+description) and rows whose insert fails count as skipped.
func (i *Importer) Import(ctx context.Context, spreadsheetId string, readRange string) (ImportResult, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if readRange == "" {
		readRange = defaultImportRange
	}

	data, err := i.sheets.ReadRange(ctx, spreadsheetId, readRange)
	if err != nil {
		return ImportResult{}, err
	}

	candidates, err := Reconcile(data, i.clock.Now())
	if err != nil {
		return ImportResult{}, err
	}

	// One batched existence query instead of a round trip per row; the dedup
	// predicate only depends on pre-import data, so insertion order is
	// irrelevant.
	keys := make([]expense.Key, 0, len(candidates))
	for _, candidate := range candidates {
		keys = append(keys, candidate.Key())
	}
	existing, err := i.repo.FindExistingKeys(ctx, userId, keys)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{}
	for _, candidate := range candidates {
		if _, duplicate := existing[candidate.Key()]; duplicate {
			continue
		}
		candidate.ID = uuid.New()
		if _, err := i.repo.Store(ctx, userId, candidate); err != nil {
			log.Errorf("failed to import expense %q: %v", candidate.Description, err)
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to import: %s", candidate.Description))
			continue
		}
		result.ImportedCount++
	}
	result.SkippedCount = len(candidates) - result.ImportedCount
	return result, nil
}
