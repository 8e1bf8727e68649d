package user

import (
	"net/http"

	"github.com/khata-app/khata/internal/rest"
)

type UserDTO struct {
	Uid         string `json:"uid"`
	DisplayName string `json:"displayName"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetCurrentUser(r.Context())
	if err != nil {
		rest.RespondError(w, http.StatusInternalServerError, "unable to retrieve current user")
		return
	}
	rest.RespondJSON(w, http.StatusOK, UserDTO{Uid: u.Uid, DisplayName: u.DisplayName})
}
