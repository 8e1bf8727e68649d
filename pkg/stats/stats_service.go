package stats

import (
	"context"
	"fmt"

	"github.com/khata-app/khata/internal/utils"
	"github.com/khata-app/khata/pkg/expense"
)

// ExpensesProvider supplies the owner's expenses. Satisfied by expense.Service.
type ExpensesProvider interface {
	List(ctx context.Context, filter expense.Filter) ([]expense.Expense, error)
}

type Service interface {
	GetWeeklyStats(ctx context.Context) (WeeklyStats, error)
}

type ServiceImpl struct {
	expenses ExpensesProvider
	clock    utils.Clock
}

func NewService(expenses ExpensesProvider, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{expenses: expenses, clock: clock}
}

func (s *ServiceImpl) GetWeeklyStats(ctx context.Context) (WeeklyStats, error) {
	expenses, err := s.expenses.List(ctx, expense.Filter{})
	if err != nil {
		return WeeklyStats{}, fmt.Errorf("failed to list expenses: %w", err)
	}
	return Compute(expenses, s.clock.Now()), nil
}
