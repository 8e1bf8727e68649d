package stats

import (
	"math"
	"time"

	"github.com/khata-app/khata/pkg/expense"
)

// WeeklyStats is derived on demand from the full expense set; it is never
// persisted.
type WeeklyStats struct {
	ThisWeekTotal     int
	LastWeekTotal     int
	PercentageChange  int
	CategoryBreakdown map[expense.Category]int
	ThisWeekCount     int
}

// Compute derives weekly statistics from the expense set at the given moment.
// "This week" is date >= now-7d, "last week" is [now-14d, now-7d). The
// category breakdown covers this week only; absent categories are omitted.
func Compute(expenses []expense.Expense, now time.Time) WeeklyStats {
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	stats := WeeklyStats{
		CategoryBreakdown: map[expense.Category]int{},
	}
	for _, e := range expenses {
		switch {
		case !e.Date.Before(weekAgo):
			stats.ThisWeekTotal += e.Amount
			stats.ThisWeekCount++
			stats.CategoryBreakdown[e.Category] += e.Amount
		case !e.Date.Before(twoWeeksAgo):
			stats.LastWeekTotal += e.Amount
		}
	}

	if stats.LastWeekTotal > 0 {
		change := float64(stats.ThisWeekTotal-stats.LastWeekTotal) / float64(stats.LastWeekTotal) * 100
		stats.PercentageChange = int(math.Round(change))
	}
	return stats
}
