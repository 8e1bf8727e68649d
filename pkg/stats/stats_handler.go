package stats

import (
	"net/http"

	"github.com/khata-app/khata/internal/rest"
)

type WeeklyStatsDTO struct {
	ThisWeekTotal     int            `json:"thisWeekTotal"`
	LastWeekTotal     int            `json:"lastWeekTotal"`
	PercentageChange  int            `json:"percentageChange"`
	CategoryBreakdown map[string]int `json:"categoryBreakdown"`
	ThisWeekCount     int            `json:"thisWeekCount"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetWeeklyStats(r.Context())
	if err != nil {
		rest.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.RespondJSON(w, http.StatusOK, toDTO(stats))
}

func toDTO(stats WeeklyStats) WeeklyStatsDTO {
	breakdown := make(map[string]int, len(stats.CategoryBreakdown))
	for category, sum := range stats.CategoryBreakdown {
		breakdown[string(category)] = sum
	}
	return WeeklyStatsDTO{
		ThisWeekTotal:     stats.ThisWeekTotal,
		LastWeekTotal:     stats.LastWeekTotal,
		PercentageChange:  stats.PercentageChange,
		CategoryBreakdown: breakdown,
		ThisWeekCount:     stats.ThisWeekCount,
	}
}
