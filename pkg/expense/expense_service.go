package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/khata-app/khata/internal/utils"
	"github.com/khata-app/khata/pkg/user"
	log "github.com/sirupsen/logrus"
)

// ErrValidation signals a create request with missing required fields.
var ErrValidation = errors.New("amount, category, and description are required")

type Service interface {
	List(ctx context.Context, filter Filter) ([]Expense, error)
	ListWeekly(ctx context.Context) ([]Expense, error)
	Create(ctx context.Context, expense Expense) (Expense, error)
	Update(ctx context.Context, id uuid.UUID, update Update) (Expense, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type ServiceImpl struct {
	repo  Repo
	clock utils.Clock
}

func NewService(repo Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]Expense, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindAll(ctx, userId, filter)
}

func (s *ServiceImpl) ListWeekly(ctx context.Context) ([]Expense, error) {
	weekAgo := s.clock.Now().AddDate(0, 0, -7)
	return s.List(ctx, Filter{From: weekAgo})
}

func (s *ServiceImpl) Create(ctx context.Context, expense Expense) (Expense, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if expense.Amount <= 0 || expense.Category == "" || expense.Description == "" {
		return Expense{}, ErrValidation
	}
	expense.Category = ParseCategory(string(expense.Category))
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	if expense.Date.IsZero() {
		expense.Date = s.clock.Now()
	}
	return s.repo.Store(ctx, userId, expense)
}

func (s *ServiceImpl) Update(ctx context.Context, id uuid.UUID, update Update) (Expense, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if update.Category != nil {
		normalized := ParseCategory(string(*update.Category))
		update.Category = &normalized
	}
	return s.repo.Update(ctx, userId, id, update)
}

func (s *ServiceImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("expense not deleted, probably because it does not exist (%s) or the user (%d) is not the owner", id, userId)
	}
	return deleted, nil
}
