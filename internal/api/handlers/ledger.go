package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/macrolog-ai/macrolog/internal/api"
	"github.com/macrolog-ai/macrolog/internal/domain"
	"github.com/macrolog-ai/macrolog/internal/service"
)

type LedgerQueryService interface {
	Summary(ctx context.Context, userID, date string) (*domain.DayAggregate, error)
	DeleteEntry(ctx context.Context, userID, date string, position int) error
	ClearDay(ctx context.Context, userID, date string) error
}

type LedgerHandler struct {
	svc LedgerQueryService
}

func NewLedgerHandler(svc LedgerQueryService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

type SummaryEntryResponse struct {
	Position int              `json:"position"`
	Item     MealItemResponse `json:"item"`
}

type SummaryResponse struct {
	Date    string                 `json:"date"`
	Totals  MacroTotals            `json:"totals"`
	Entries []SummaryEntryResponse `json:"entries"`
	Text    string                 `json:"text"`
}

// dateParam reads the optional date query parameter, defaulting to today.
func dateParam(r *http.Request) string {
	date := r.URL.Query().Get("date")
	if date == "" {
		return domain.Today()
	}
	return date
}

// Summary handles GET /users/{userID}/summary
func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	date := dateParam(r)

	agg, err := h.svc.Summary(r.Context(), userID, date)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	entries := make([]SummaryEntryResponse, 0, len(agg.Lines))
	for _, line := range agg.Lines {
		entries = append(entries, SummaryEntryResponse{
			Position: line.Position,
			Item:     itemToResponse(line.Item),
		})
	}

	api.Success(w, http.StatusOK, SummaryResponse{
		Date:    date,
		Totals:  *aggregateToTotals(agg),
		Entries: entries,
		Text:    service.ComposeDaySummary(agg),
	})
}

// DeleteEntry handles DELETE /users/{userID}/entries/{position}
func (h *LedgerHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	date := dateParam(r)

	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "position must be a number")
		return
	}

	if err := h.svc.DeleteEntry(r.Context(), userID, date, position); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]interface{}{
		"deleted":  true,
		"position": position,
		"date":     date,
	})
}

// ClearDay handles DELETE /users/{userID}/day
func (h *LedgerHandler) ClearDay(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	date := dateParam(r)

	if err := h.svc.ClearDay(r.Context(), userID, date); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]interface{}{
		"cleared": true,
		"date":    date,
	})
}
