package ai

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/khata-app/khata/internal/rest"
	log "github.com/sirupsen/logrus"
)

type parseRequestDTO struct {
	Text string `json:"text"`
}

type Handler struct {
	extractor *Extractor
}

func NewHandler(extractor *Extractor) *Handler {
	return &Handler{extractor: extractor}
}

func (h *Handler) ParseExpense(w http.ResponseWriter, r *http.Request) {
	var dto parseRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(dto.Text) == "" {
		rest.RespondError(w, http.StatusBadRequest, "Text input is required")
		return
	}

	parsed, err := h.extractor.Extract(r.Context(), dto.Text)
	if err != nil {
		if errors.Is(err, ErrExtraction) {
			rest.RespondError(w, http.StatusBadRequest, "Could not understand the expense format. Please try again.")
			return
		}
		log.Errorf("expense extraction failed: %v", err)
		rest.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.RespondJSON(w, http.StatusOK, parsed)
}
