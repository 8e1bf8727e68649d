package google

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/khata-app/khata/internal/rest"
	log "github.com/sirupsen/logrus"
)

type exportRequestDTO struct {
	TimeRange string `json:"timeRange"`
}

type exportResponseDTO struct {
	Success        bool   `json:"success"`
	SpreadsheetId  string `json:"spreadsheetId"`
	SpreadsheetUrl string `json:"spreadsheetUrl"`
	ExportedCount  int    `json:"exportedCount"`
}

type importRequestDTO struct {
	SpreadsheetId string `json:"spreadsheetId"`
	Range         string `json:"range"`
}

type importResponseDTO struct {
	Success       bool     `json:"success"`
	ImportedCount int      `json:"importedCount"`
	SkippedCount  int      `json:"skippedCount"`
	Errors        []string `json:"errors,omitempty"`
}

type Handler struct {
	exporter *Exporter
	importer *Importer
}

func NewHandler(exporter *Exporter, importer *Importer) *Handler {
	return &Handler{exporter: exporter, importer: importer}
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var dto exportRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil && !errors.Is(err, io.EOF) {
		rest.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if dto.TimeRange == "" {
		dto.TimeRange = "all"
	}

	result, err := h.exporter.Export(r.Context(), dto.TimeRange)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotConnected):
			rest.RespondError(w, http.StatusUnauthorized, "Google account not connected")
		case errors.Is(err, ErrNoExpenses):
			rest.RespondError(w, http.StatusBadRequest, "No expenses to export")
		default:
			log.Errorf("export failed: %v", err)
			rest.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	rest.RespondJSON(w, http.StatusOK, exportResponseDTO{
		Success:        true,
		SpreadsheetId:  result.SpreadsheetId,
		SpreadsheetUrl: result.SpreadsheetUrl,
		ExportedCount:  result.ExportedCount,
	})
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var dto importRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil && !errors.Is(err, io.EOF) {
		rest.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if dto.SpreadsheetId == "" {
		rest.RespondError(w, http.StatusBadRequest, "Spreadsheet ID is required")
		return
	}

	result, err := h.importer.Import(r.Context(), dto.SpreadsheetId, dto.Range)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotConnected):
			rest.RespondError(w, http.StatusUnauthorized, "Google account not connected")
		case errors.Is(err, ErrSchemaInference), errors.Is(err, ErrNoValidRows):
			rest.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			log.Errorf("import failed: %v", err)
			rest.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	rest.RespondJSON(w, http.StatusOK, importResponseDTO{
		Success:       true,
		ImportedCount: result.ImportedCount,
		SkippedCount:  result.SkippedCount,
		Errors:        result.Errors,
	})
}
