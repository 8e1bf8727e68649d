package expense

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateFormat is the calendar-date representation used across the API,
// the store, and spreadsheet import/export.
const DateFormat = "2006-01-02"

type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryBills         Category = "Bills"
	CategoryHealth        Category = "Health"
	CategoryOther         Category = "Other"
)

// Categories returns the fixed taxonomy in its canonical order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryEntertainment,
		CategoryShopping,
		CategoryBills,
		CategoryHealth,
		CategoryOther,
	}
}

// ParseCategory matches the input against the taxonomy case-insensitively.
// Anything unrecognized normalizes to Other.
func ParseCategory(s string) Category {
	trimmed := strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(trimmed, string(c)) {
			return c
		}
	}
	return CategoryOther
}

type Expense struct {
	ID          uuid.UUID
	Amount      int // minor currency units, always > 0
	Category    Category
	Description string
	Date        time.Time // calendar date, no time component
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Key is the exact-match tuple used for import deduplication.
type Key struct {
	Date        string
	Amount      int
	Description string
}

func (e Expense) Key() Key {
	return Key{
		Date:        e.Date.Format(DateFormat),
		Amount:      e.Amount,
		Description: e.Description,
	}
}
