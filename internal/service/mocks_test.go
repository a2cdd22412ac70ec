package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/macrolog-ai/macrolog/internal/domain"
)

// MockNoteRepository is a mock implementation of NoteRepositoryInterface
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) List(ctx context.Context) ([]*domain.Note, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Note), args.Error(1)
}

func (m *MockNoteRepository) Add(ctx context.Context, text string) (*domain.Note, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockLedgerRepository is a mock implementation of LedgerRepositoryInterface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, userID, date string, items []domain.FoodItem) error {
	args := m.Called(ctx, userID, date, items)
	return args.Error(0)
}

func (m *MockLedgerRepository) Read(ctx context.Context, userID, date string) ([]domain.LedgerLine, int, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.LedgerLine), args.Int(1), args.Error(2)
}

func (m *MockLedgerRepository) DeleteLine(ctx context.Context, userID, date string, position int) (bool, error) {
	args := m.Called(ctx, userID, date, position)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) ClearDay(ctx context.Context, userID, date string) (bool, error) {
	args := m.Called(ctx, userID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockTargetRepository is a mock implementation of TargetRepositoryInterface
type MockTargetRepository struct {
	mock.Mock
}

func (m *MockTargetRepository) Get(ctx context.Context, userID string) (float64, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *MockTargetRepository) Set(ctx context.Context, userID string, kcal float64) error {
	args := m.Called(ctx, userID, kcal)
	return args.Error(0)
}

// MockNormalizer is a mock implementation of NormalizerInterface
type MockNormalizer struct {
	mock.Mock
}

func (m *MockNormalizer) NormalizeFood(ctx context.Context, text, knowledgeContext string) ([]domain.FoodItem, error) {
	args := m.Called(ctx, text, knowledgeContext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FoodItem), args.Error(1)
}

// MockRetriever is a mock implementation of RetrieverInterface
type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Retrieve(ctx context.Context, query string) ([]*domain.Note, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Note), args.Error(1)
}

// MockContextBuilder is a mock implementation of ContextBuilderInterface
type MockContextBuilder struct {
	mock.Mock
}

func (m *MockContextBuilder) BuildContext(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}
