package expense

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/khata-app/khata/internal/rest"
	log "github.com/sirupsen/logrus"
)

type ExpenseDTO struct {
	ID          string    `json:"id"`
	Amount      int       `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type createExpenseDTO struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date,omitempty"`
}

type updateExpenseDTO struct {
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
}

type expenseListResponse struct {
	Expenses []ExpenseDTO `json:"expenses"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.service.List(r.Context(), Filter{})
	if err != nil {
		rest.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.RespondJSON(w, http.StatusOK, toListResponse(expenses))
}

func (h *Handler) GetWeekly(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.service.ListWeekly(r.Context())
	if err != nil {
		rest.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.RespondJSON(w, http.StatusOK, toListResponse(expenses))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new expense")
	var dto createExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	exp := Expense{
		Amount:      int(math.Round(dto.Amount)),
		Category:    Category(dto.Category),
		Description: dto.Description,
	}
	if dto.Date != "" {
		date, err := time.Parse(DateFormat, dto.Date)
		if err != nil {
			rest.RespondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		exp.Date = date
	}

	created, err := h.service.Create(r.Context(), exp)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			rest.RespondError(w, http.StatusBadRequest, "Amount, category, and description are required")
			return
		}
		rest.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.RespondJSON(w, http.StatusCreated, map[string]ExpenseDTO{"expense": ToDTO(created)})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["expenseId"])
	if err != nil {
		rest.RespondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	var dto updateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var update Update
	if dto.Amount != nil {
		amount := int(math.Round(*dto.Amount))
		update.Amount = &amount
	}
	if dto.Category != nil {
		category := Category(*dto.Category)
		update.Category = &category
	}
	if dto.Description != nil {
		update.Description = dto.Description
	}
	if dto.Date != nil {
		date, err := time.Parse(DateFormat, *dto.Date)
		if err != nil {
			rest.RespondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		update.Date = &date
	}

	updated, err := h.service.Update(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			rest.RespondError(w, http.StatusNotFound, "Expense not found")
			return
		}
		rest.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.RespondJSON(w, http.StatusOK, map[string]ExpenseDTO{"expense": ToDTO(updated)})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["expenseId"])
	if err != nil {
		rest.RespondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		rest.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		rest.RespondError(w, http.StatusNotFound, "Expense not found")
		return
	}
	rest.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func ToDTO(e Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          e.ID.String(),
		Amount:      e.Amount,
		Category:    string(e.Category),
		Description: e.Description,
		Date:        e.Date.Format(DateFormat),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toListResponse(expenses []Expense) expenseListResponse {
	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		dtos = append(dtos, ToDTO(e))
	}
	return expenseListResponse{Expenses: dtos}
}
