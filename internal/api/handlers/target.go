package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/macrolog-ai/macrolog/internal/api"
)

type TargetService interface {
	SetTarget(ctx context.Context, userID string, kcal float64) error
	GetTarget(ctx context.Context, userID string) (float64, error)
}

type TargetHandler struct {
	svc TargetService
}

func NewTargetHandler(svc TargetService) *TargetHandler {
	return &TargetHandler{svc: svc}
}

type SetTargetRequest struct {
	TargetKcal float64 `json:"target_kcal"`
}

type TargetResponse struct {
	UserID     string  `json:"user_id"`
	TargetKcal float64 `json:"target_kcal"`
}

// Set handles PUT /users/{userID}/target
func (h *TargetHandler) Set(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req SetTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.SetTarget(r.Context(), userID, req.TargetKcal); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, TargetResponse{UserID: userID, TargetKcal: req.TargetKcal})
}

// Get handles GET /users/{userID}/target
func (h *TargetHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	kcal, err := h.svc.GetTarget(r.Context(), userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, TargetResponse{UserID: userID, TargetKcal: kcal})
}
