package expense

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// StubRepo is an in-memory Repo used by service and reconciler tests.
type StubRepo struct {
	data     map[uuid.UUID]Expense
	failOn   map[string]error // description -> error returned from Store
	storeSeq int
}

func NewStubRepo() *StubRepo {
	return &StubRepo{
		data:   map[uuid.UUID]Expense{},
		failOn: map[string]error{},
	}
}

func (s *StubRepo) FindAll(ctx context.Context, userId int, filter Filter) ([]Expense, error) {
	var expenses []Expense
	for _, e := range s.data {
		if !filter.From.IsZero() && e.Date.Before(filter.From) {
			continue
		}
		expenses = append(expenses, e)
	}
	sort.Slice(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.After(expenses[j].Date)
		}
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
	return expenses, nil
}

func (s *StubRepo) Store(ctx context.Context, userId int, expense Expense) (Expense, error) {
	if err, ok := s.failOn[expense.Description]; ok {
		return Expense{}, err
	}
	s.storeSeq++
	now := time.Now().Add(time.Duration(s.storeSeq) * time.Millisecond)
	expense.CreatedAt = now
	expense.UpdatedAt = now
	s.data[expense.ID] = expense
	return expense, nil
}

func (s *StubRepo) Update(ctx context.Context, userId int, id uuid.UUID, update Update) (Expense, error) {
	e, ok := s.data[id]
	if !ok {
		return Expense{}, ErrNotFound
	}
	if update.Amount != nil {
		e.Amount = *update.Amount
	}
	if update.Category != nil {
		e.Category = *update.Category
	}
	if update.Description != nil {
		e.Description = *update.Description
	}
	if update.Date != nil {
		e.Date = *update.Date
	}
	e.UpdatedAt = time.Now()
	s.data[id] = e
	return e, nil
}

func (s *StubRepo) Delete(ctx context.Context, userId int, id uuid.UUID) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepo) FindExistingKeys(ctx context.Context, userId int, keys []Key) (map[Key]struct{}, error) {
	existing := make(map[Key]struct{})
	stored := make(map[Key]struct{}, len(s.data))
	for _, e := range s.data {
		stored[e.Key()] = struct{}{}
	}
	for _, key := range keys {
		if _, ok := stored[key]; ok {
			existing[key] = struct{}{}
		}
	}
	return existing, nil
}

// FailStoreFor makes Store return an error for expenses with the given description.
func (s *StubRepo) FailStoreFor(description string) {
	s.failOn[description] = errors.New("store failure")
}

func (s *StubRepo) Count() int {
	return len(s.data)
}

func (s *StubRepo) Cleanup() {
	s.data = map[uuid.UUID]Expense{}
	s.failOn = map[string]error{}
	s.storeSeq = 0
}
