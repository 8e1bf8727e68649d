package expense

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func setupHandlerTest() (*Handler, *StubRepo) {
	service, repo := serviceWithStub()
	return NewHandler(service), repo
}

func newJSONRequest(t *testing.T, method, target string, payload any) *http.Request {
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(testContext())
}

func TestHandler_Create(t *testing.T) {
	// given
	handler, repo := setupHandlerTest()
	req := newJSONRequest(t, http.MethodPost, "/api/expenses", createExpenseDTO{
		Amount:      250.4,
		Category:    "food",
		Description: "Lunch",
		Date:        "2024-03-14",
	})
	w := httptest.NewRecorder()

	// when
	handler.Create(w, req)

	// then
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]ExpenseDTO
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	created := response["expense"]
	assert.Equal(t, 250, created.Amount)
	assert.Equal(t, "Food", created.Category)
	assert.Equal(t, "2024-03-14", created.Date)
	assert.Equal(t, 1, repo.Count())
}

func TestHandler_Create_MissingFields(t *testing.T) {
	// given
	handler, repo := setupHandlerTest()
	req := newJSONRequest(t, http.MethodPost, "/api/expenses", createExpenseDTO{Amount: 250})
	w := httptest.NewRecorder()

	// when
	handler.Create(w, req)

	// then
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Error string `json:"error"`
	}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Amount, category, and description are required", response.Error)
	assert.Equal(t, 0, repo.Count())
}

func TestHandler_Create_InvalidDate(t *testing.T) {
	handler, _ := setupHandlerTest()
	req := newJSONRequest(t, http.MethodPost, "/api/expenses", createExpenseDTO{
		Amount:      250,
		Category:    "Food",
		Description: "Lunch",
		Date:        "14-03-2024",
	})
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetAll(t *testing.T) {
	// given
	handler, repo := setupHandlerTest()
	_, err := repo.Store(testContext(), 1, Expense{
		ID: uuid.New(), Amount: 250, Category: CategoryFood, Description: "Lunch", Date: testNow,
	})
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil).WithContext(testContext())
	w := httptest.NewRecorder()

	// when
	handler.GetAll(w, req)

	// then
	assert.Equal(t, http.StatusOK, w.Code)

	var response expenseListResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Expenses, 1)
	assert.Equal(t, "Lunch", response.Expenses[0].Description)
}

func TestHandler_Update_UnknownExpense(t *testing.T) {
	// given
	handler, _ := setupHandlerTest()
	amount := 300.0
	req := newJSONRequest(t, http.MethodPut, "/api/expenses/x", updateExpenseDTO{Amount: &amount})
	req = mux.SetURLVars(req, map[string]string{"expenseId": uuid.NewString()})
	w := httptest.NewRecorder()

	// when
	handler.Update(w, req)

	// then
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Delete(t *testing.T) {
	// given
	handler, repo := setupHandlerTest()
	stored, err := repo.Store(testContext(), 1, Expense{
		ID: uuid.New(), Amount: 250, Category: CategoryFood, Description: "Lunch", Date: testNow,
	})
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodDelete, "/api/expenses/x", nil).WithContext(testContext())
	req = mux.SetURLVars(req, map[string]string{"expenseId": stored.ID.String()})
	w := httptest.NewRecorder()

	// when
	handler.Delete(w, req)

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, repo.Count())
}

func TestHandler_Delete_InvalidId(t *testing.T) {
	handler, _ := setupHandlerTest()
	req := httptest.NewRequest(http.MethodDelete, "/api/expenses/x", nil).WithContext(testContext())
	req = mux.SetURLVars(req, map[string]string{"expenseId": "not-a-uuid"})
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
