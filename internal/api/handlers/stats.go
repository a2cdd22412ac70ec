package handlers

import (
	"context"
	"net/http"

	"github.com/macrolog-ai/macrolog/internal/api"
)

type StatsService interface {
	CountUsers(ctx context.Context) (int, error)
}

type StatsHandler struct {
	svc StatsService
}

func NewStatsHandler(svc StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

type UserStatsResponse struct {
	Users int `json:"users"`
}

// Users handles GET /stats/users
func (h *StatsHandler) Users(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.CountUsers(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, UserStatsResponse{Users: count})
}
