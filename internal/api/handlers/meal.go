package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/macrolog-ai/macrolog/internal/api"
	"github.com/macrolog-ai/macrolog/internal/domain"
	"github.com/macrolog-ai/macrolog/internal/service"
)

type MealService interface {
	LogMeal(ctx context.Context, userID, date, text string) (*service.LogMealResult, error)
}

type MealHandler struct {
	svc MealService
}

func NewMealHandler(svc MealService) *MealHandler {
	return &MealHandler{svc: svc}
}

type LogMealRequest struct {
	Text string `json:"text"`
	Date string `json:"date,omitempty"`
}

type MealItemResponse struct {
	Item      string  `json:"item"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	TotalKcal float64 `json:"total_kcal"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
}

type MacroTotals struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

type LogMealResponse struct {
	NoFood     bool               `json:"no_food"`
	Items      []MealItemResponse `json:"items,omitempty"`
	Meal       *MacroTotals       `json:"meal,omitempty"`
	Day        *MacroTotals       `json:"day,omitempty"`
	TargetKcal *float64           `json:"target_kcal,omitempty"`
	Reply      string             `json:"reply"`
}

func itemToResponse(item domain.FoodItem) MealItemResponse {
	return MealItemResponse{
		Item:      item.Item,
		Quantity:  float64(item.Quantity),
		Unit:      item.Unit,
		TotalKcal: float64(item.TotalKcal),
		Protein:   float64(item.Protein),
		Carbs:     float64(item.Carbs),
		Fat:       float64(item.Fat),
	}
}

func aggregateToTotals(agg *domain.DayAggregate) *MacroTotals {
	if agg == nil {
		return nil
	}
	return &MacroTotals{
		Kcal:    agg.TotalKcal,
		Protein: agg.TotalProtein,
		Carbs:   agg.TotalCarbs,
		Fat:     agg.TotalFat,
	}
}

// Log handles POST /users/{userID}/meals
func (h *MealHandler) Log(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req LogMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}
	date := req.Date
	if date == "" {
		date = domain.Today()
	}

	result, err := h.svc.LogMeal(r.Context(), userID, date, req.Text)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := LogMealResponse{
		NoFood: result.NoFood,
		Reply:  service.ComposeMealReply(result),
	}
	if !result.NoFood {
		items := make([]MealItemResponse, 0, len(result.Items))
		for _, item := range result.Items {
			items = append(items, itemToResponse(item))
		}
		resp.Items = items
		meal := result.Meal
		resp.Meal = aggregateToTotals(&meal)
		resp.Day = aggregateToTotals(result.Day)
		if result.HasTarget {
			target := result.TargetKcal
			resp.TargetKcal = &target
		}
	}

	api.Success(w, http.StatusCreated, resp)
}
