package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/macrolog-ai/macrolog/internal/domain"
	"github.com/macrolog-ai/macrolog/internal/service"
)

type MockMealService struct {
	mock.Mock
}

func (m *MockMealService) LogMeal(ctx context.Context, userID, date, text string) (*service.LogMealResult, error) {
	args := m.Called(ctx, userID, date, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LogMealResult), args.Error(1)
}

type MockLedgerQueryService struct {
	mock.Mock
}

func (m *MockLedgerQueryService) Summary(ctx context.Context, userID, date string) (*domain.DayAggregate, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayAggregate), args.Error(1)
}

func (m *MockLedgerQueryService) DeleteEntry(ctx context.Context, userID, date string, position int) error {
	args := m.Called(ctx, userID, date, position)
	return args.Error(0)
}

func (m *MockLedgerQueryService) ClearDay(ctx context.Context, userID, date string) error {
	args := m.Called(ctx, userID, date)
	return args.Error(0)
}

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) ListNotes(ctx context.Context) ([]*domain.Note, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Note), args.Error(1)
}

func (m *MockNoteService) AddNote(ctx context.Context, text string) (*domain.Note, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteService) DeleteNote(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockContextService struct {
	mock.Mock
}

func (m *MockContextService) BuildContext(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

type MockTargetService struct {
	mock.Mock
}

func (m *MockTargetService) SetTarget(ctx context.Context, userID string, kcal float64) error {
	args := m.Called(ctx, userID, kcal)
	return args.Error(0)
}

func (m *MockTargetService) GetTarget(ctx context.Context, userID string) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newRequest(method, url string, body []byte, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestMealHandler_Log(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockMealService)
		svc.On("LogMeal", mock.Anything, "42", "2025-06-01", "2 eggs").Return(&service.LogMealResult{
			Items: []domain.FoodItem{{Item: "egg", Quantity: 2, TotalKcal: 160, Unit: "pcs"}},
			Meal:  domain.DayAggregate{TotalKcal: 160},
			Day:   &domain.DayAggregate{TotalKcal: 160},
		}, nil)

		handler := NewMealHandler(svc)
		body, _ := json.Marshal(LogMealRequest{Text: "2 eggs", Date: "2025-06-01"})
		req := newRequest(http.MethodPost, "/users/42/meals", body, map[string]string{"userID": "42"})
		rec := httptest.NewRecorder()

		handler.Log(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total_kcal":160`)
		assert.Contains(t, rec.Body.String(), "This meal")
	})

	t.Run("missing text", func(t *testing.T) {
		handler := NewMealHandler(new(MockMealService))
		req := newRequest(http.MethodPost, "/users/42/meals", []byte(`{}`), map[string]string{"userID": "42"})
		rec := httptest.NewRecorder()

		handler.Log(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no food detected", func(t *testing.T) {
		svc := new(MockMealService)
		svc.On("LogMeal", mock.Anything, "42", mock.Anything, "hello").
			Return(&service.LogMealResult{NoFood: true}, nil)

		handler := NewMealHandler(svc)
		body, _ := json.Marshal(LogMealRequest{Text: "hello"})
		req := newRequest(http.MethodPost, "/users/42/meals", body, map[string]string{"userID": "42"})
		rec := httptest.NewRecorder()

		handler.Log(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"no_food":true`)
	})

	t.Run("normalizer unavailable", func(t *testing.T) {
		svc := new(MockMealService)
		svc.On("LogMeal", mock.Anything, "42", mock.Anything, "eggs").
			Return(nil, domain.ErrNormalizerUnavailable)

		handler := NewMealHandler(svc)
		body, _ := json.Marshal(LogMealRequest{Text: "eggs"})
		req := newRequest(http.MethodPost, "/users/42/meals", body, map[string]string{"userID": "42"})
		rec := httptest.NewRecorder()

		handler.Log(rec, req)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestLedgerHandler_Summary(t *testing.T) {
	svc := new(MockLedgerQueryService)
	agg := &domain.DayAggregate{}
	agg.AddLine(domain.LedgerLine{Position: 1, Item: domain.FoodItem{Item: "egg", TotalKcal: 160}})
	svc.On("Summary", mock.Anything, "42", "2025-06-01").Return(agg, nil)

	handler := NewLedgerHandler(svc)
	req := newRequest(http.MethodGet, "/users/42/summary?date=2025-06-01", nil, map[string]string{"userID": "42"})
	rec := httptest.NewRecorder()

	handler.Summary(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"position":1`)
	assert.Contains(t, rec.Body.String(), `"kcal":160`)
}

func TestLedgerHandler_DeleteEntry(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockLedgerQueryService)
		svc.On("DeleteEntry", mock.Anything, "42", "2025-06-01", 2).Return(nil)

		handler := NewLedgerHandler(svc)
		req := newRequest(http.MethodDelete, "/users/42/entries/2?date=2025-06-01", nil,
			map[string]string{"userID": "42", "position": "2"})
		rec := httptest.NewRecorder()

		handler.DeleteEntry(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-numeric position", func(t *testing.T) {
		handler := NewLedgerHandler(new(MockLedgerQueryService))
		req := newRequest(http.MethodDelete, "/users/42/entries/abc", nil,
			map[string]string{"userID": "42", "position": "abc"})
		rec := httptest.NewRecorder()

		handler.DeleteEntry(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockLedgerQueryService)
		svc.On("DeleteEntry", mock.Anything, "42", mock.Anything, 9).Return(domain.ErrEntryNotFound)

		handler := NewLedgerHandler(svc)
		req := newRequest(http.MethodDelete, "/users/42/entries/9", nil,
			map[string]string{"userID": "42", "position": "9"})
		rec := httptest.NewRecorder()

		handler.DeleteEntry(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLedgerHandler_ClearDay(t *testing.T) {
	svc := new(MockLedgerQueryService)
	svc.On("ClearDay", mock.Anything, "42", "2025-06-01").Return(nil)

	handler := NewLedgerHandler(svc)
	req := newRequest(http.MethodDelete, "/users/42/day?date=2025-06-01", nil,
		map[string]string{"userID": "42"})
	rec := httptest.NewRecorder()

	handler.ClearDay(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cleared":true`)
}

func TestNoteHandler(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		svc := new(MockNoteService)
		note := &domain.Note{ID: 1, Text: "oatmeal, 50g", Name: "oatmeal"}
		svc.On("AddNote", mock.Anything, "oatmeal, 50g").Return(note, nil)

		handler := NewNoteHandler(svc, new(MockContextService))
		req := newRequest(http.MethodPost, "/notes", []byte(`{"text":"oatmeal, 50g"}`), nil)
		rec := httptest.NewRecorder()

		handler.Add(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":1`)
	})

	t.Run("add empty text", func(t *testing.T) {
		svc := new(MockNoteService)
		svc.On("AddNote", mock.Anything, "").Return(nil, domain.ErrEmptyNoteText)

		handler := NewNoteHandler(svc, new(MockContextService))
		req := newRequest(http.MethodPost, "/notes", []byte(`{"text":""}`), nil)
		rec := httptest.NewRecorder()

		handler.Add(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete not found", func(t *testing.T) {
		svc := new(MockNoteService)
		svc.On("DeleteNote", mock.Anything, 99).Return(domain.ErrNoteNotFound)

		handler := NewNoteHandler(svc, new(MockContextService))
		req := newRequest(http.MethodDelete, "/notes/99", nil, map[string]string{"id": "99"})
		rec := httptest.NewRecorder()

		handler.Delete(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("build context", func(t *testing.T) {
		contexts := new(MockContextService)
		contexts.On("BuildContext", mock.Anything, "eggs and rice").
			Return("- Note #1: eggs, 2 pcs", nil)

		handler := NewNoteHandler(new(MockNoteService), contexts)
		req := newRequest(http.MethodPost, "/context", []byte(`{"text":"eggs and rice"}`), nil)
		rec := httptest.NewRecorder()

		handler.BuildContext(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data BuildContextResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "- Note #1: eggs, 2 pcs", resp.Data.Context)
	})
}

func TestTargetHandler(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		svc := new(MockTargetService)
		svc.On("SetTarget", mock.Anything, "42", 2000.0).Return(nil)

		handler := NewTargetHandler(svc)
		req := newRequest(http.MethodPut, "/users/42/target", []byte(`{"target_kcal":2000}`),
			map[string]string{"userID": "42"})
		rec := httptest.NewRecorder()

		handler.Set(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("set invalid", func(t *testing.T) {
		svc := new(MockTargetService)
		svc.On("SetTarget", mock.Anything, "42", 0.0).Return(domain.ErrInvalidTarget)

		handler := NewTargetHandler(svc)
		req := newRequest(http.MethodPut, "/users/42/target", []byte(`{"target_kcal":0}`),
			map[string]string{"userID": "42"})
		rec := httptest.NewRecorder()

		handler.Set(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get not set", func(t *testing.T) {
		svc := new(MockTargetService)
		svc.On("GetTarget", mock.Anything, "42").Return(0.0, domain.ErrTargetNotSet)

		handler := NewTargetHandler(svc)
		req := newRequest(http.MethodGet, "/users/42/target", nil, map[string]string{"userID": "42"})
		rec := httptest.NewRecorder()

		handler.Get(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestStatsHandler_Users(t *testing.T) {
	svc := new(MockStatsService)
	svc.On("CountUsers", mock.Anything).Return(7, nil)

	handler := NewStatsHandler(svc)
	req := newRequest(http.MethodGet, "/stats/users", nil, nil)
	rec := httptest.NewRecorder()

	handler.Users(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"users":7`)
}
