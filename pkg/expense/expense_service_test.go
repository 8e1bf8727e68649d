package expense

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/khata-app/khata/internal/utils"
	"github.com/khata-app/khata/pkg/user"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func serviceWithStub() (*ServiceImpl, *StubRepo) {
	repo := NewStubRepo()
	return NewService(repo, &utils.MockClock{FixedNow: testNow}), repo
}

func testContext() context.Context {
	return user.WithUser(context.Background(), user.User{Id: 1, DisplayName: "Default User"})
}

func TestServiceImpl_Create(t *testing.T) {
	// given
	service, repo := serviceWithStub()

	// when
	created, err := service.Create(testContext(), Expense{
		Amount:      250,
		Category:    CategoryFood,
		Description: "Lunch",
		Date:        time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
	})

	// then
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, 250, created.Amount)
	assert.Equal(t, 1, repo.Count())
}

func TestServiceImpl_Create_DefaultsDateToToday(t *testing.T) {
	// given
	service, _ := serviceWithStub()

	// when
	created, err := service.Create(testContext(), Expense{
		Amount:      40,
		Category:    CategoryFood,
		Description: "Chai",
	})

	// then
	assert.NoError(t, err)
	assert.Equal(t, testNow, created.Date)
}

func TestServiceImpl_Create_NormalizesCategory(t *testing.T) {
	// given
	service, _ := serviceWithStub()

	// when
	created, err := service.Create(testContext(), Expense{
		Amount:      180,
		Category:    "tRaNsPoRt",
		Description: "Ola ride",
	})

	// then
	assert.NoError(t, err)
	assert.Equal(t, CategoryTransport, created.Category)
}

func TestServiceImpl_Create_RejectsIncompleteExpense(t *testing.T) {
	service, repo := serviceWithStub()

	tests := []struct {
		name    string
		expense Expense
	}{
		{"zero amount", Expense{Amount: 0, Category: CategoryFood, Description: "Lunch"}},
		{"negative amount", Expense{Amount: -10, Category: CategoryFood, Description: "Lunch"}},
		{"missing category", Expense{Amount: 250, Description: "Lunch"}},
		{"missing description", Expense{Amount: 250, Category: CategoryFood}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(testContext(), tt.expense)

			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, 0, repo.Count())
		})
	}
}

func TestServiceImpl_Create_RequiresUser(t *testing.T) {
	service, _ := serviceWithStub()

	_, err := service.Create(context.Background(), Expense{
		Amount:      250,
		Category:    CategoryFood,
		Description: "Lunch",
	})

	assert.ErrorIs(t, err, user.ErrNoUser)
}

func TestServiceImpl_ListWeekly(t *testing.T) {
	// given
	service, repo := serviceWithStub()
	recent := Expense{
		ID:          uuid.New(),
		Amount:      250,
		Category:    CategoryFood,
		Description: "Lunch",
		Date:        testNow.AddDate(0, 0, -2),
	}
	old := Expense{
		ID:          uuid.New(),
		Amount:      800,
		Category:    CategoryBills,
		Description: "Electricity bill",
		Date:        testNow.AddDate(0, 0, -10),
	}
	for _, e := range []Expense{recent, old} {
		_, err := repo.Store(testContext(), 1, e)
		assert.NoError(t, err)
	}

	// when
	expenses, err := service.ListWeekly(testContext())

	// then
	assert.NoError(t, err)
	assert.Len(t, expenses, 1)
	assert.Equal(t, recent.ID, expenses[0].ID)
}

func TestServiceImpl_Update_NormalizesCategory(t *testing.T) {
	// given
	service, repo := serviceWithStub()
	stored, err := repo.Store(testContext(), 1, Expense{
		ID:          uuid.New(),
		Amount:      250,
		Category:    CategoryFood,
		Description: "Lunch",
		Date:        testNow,
	})
	assert.NoError(t, err)

	// when
	category := Category("groceries")
	updated, err := service.Update(testContext(), stored.ID, Update{Category: &category})

	// then
	assert.NoError(t, err)
	assert.Equal(t, CategoryOther, updated.Category)
}

func TestServiceImpl_Update_UnknownExpense(t *testing.T) {
	service, _ := serviceWithStub()

	amount := 300
	_, err := service.Update(testContext(), uuid.New(), Update{Amount: &amount})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceImpl_Delete(t *testing.T) {
	// given
	service, repo := serviceWithStub()
	stored, err := repo.Store(testContext(), 1, Expense{
		ID:          uuid.New(),
		Amount:      250,
		Category:    CategoryFood,
		Description: "Lunch",
		Date:        testNow,
	})
	assert.NoError(t, err)

	// when
	deleted, err := service.Delete(testContext(), stored.ID)

	// then
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, repo.Count())
}

func TestServiceImpl_Delete_UnknownExpense(t *testing.T) {
	service, _ := serviceWithStub()

	deleted, err := service.Delete(testContext(), uuid.New())

	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryFood, ParseCategory("food"))
	assert.Equal(t, CategoryFood, ParseCategory("  Food  "))
	assert.Equal(t, CategoryHealth, ParseCategory("HEALTH"))
	assert.Equal(t, CategoryOther, ParseCategory("groceries"))
	assert.Equal(t, CategoryOther, ParseCategory(""))
}
