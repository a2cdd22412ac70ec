package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/macrolog-ai/macrolog/internal/domain"
	"github.com/macrolog-ai/macrolog/internal/telemetry"
)

// NormalizerInterface defines the LLM-backed food text normalizer.
type NormalizerInterface interface {
	NormalizeFood(ctx context.Context, text, knowledgeContext string) ([]domain.FoodItem, error)
}

// ContextBuilderInterface defines the knowledge context assembler.
type ContextBuilderInterface interface {
	BuildContext(ctx context.Context, text string) (string, error)
}

// LogMealResult is the outcome of logging one meal message.
type LogMealResult struct {
	// Items are the records accepted into the ledger.
	Items []domain.FoodItem
	// Meal aggregates just this message's accepted records.
	Meal domain.DayAggregate
	// Day aggregates the whole day after the append.
	Day *domain.DayAggregate
	// TargetKcal is the user's daily target; HasTarget reports whether
	// one is set.
	TargetKcal float64
	HasTarget  bool
	// NoFood reports that the normalizer found nothing loggable. The
	// ledger was not touched.
	NoFood bool
}

// MealService orchestrates meal logging: knowledge context assembly, LLM
// normalization, rejection filtering, ledger append, and day aggregation.
type MealService struct {
	normalizer NormalizerInterface
	contexts   ContextBuilderInterface
	ledger     *LedgerService
	targets    *TargetService
	llmTimeout time.Duration
	logger     *zap.Logger
}

// NewMealService creates a new MealService instance.
func NewMealService(
	normalizer NormalizerInterface,
	contexts ContextBuilderInterface,
	ledger *LedgerService,
	targets *TargetService,
	llmTimeout time.Duration,
	logger *zap.Logger,
) *MealService {
	if llmTimeout <= 0 {
		llmTimeout = 45 * time.Second
	}
	return &MealService{
		normalizer: normalizer,
		contexts:   contexts,
		ledger:     ledger,
		targets:    targets,
		llmTimeout: llmTimeout,
		logger:     logger,
	}
}

// LogMeal processes a free-text meal message for the user's day.
func (s *MealService) LogMeal(ctx context.Context, userID, date, text string) (*LogMealResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyMealText
	}
	if err := validateScope(userID, date); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "meal.log", telemetry.SpanAttributes{
		UserID:    userID,
		Date:      date,
		Operation: "log_meal",
	})
	defer span.End()

	knowledgeContext, err := s.contexts.BuildContext(ctx, text)
	if err != nil {
		return nil, err
	}
	if knowledgeContext != "" {
		s.logger.Info("knowledge context attached to normalizer call",
			zap.String("user_id", userID))
	} else {
		s.logger.Info("no knowledge context matched", zap.String("user_id", userID))
	}

	llmCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	items, err := s.normalizer.NormalizeFood(llmCtx, text, knowledgeContext)
	if err != nil {
		s.logger.Error("normalizer call failed", zap.String("user_id", userID), zap.Error(err))
		span.SetError(err)
		return nil, domain.ErrNormalizerUnavailable
	}
	s.logger.Info("normalizer returned items",
		zap.String("user_id", userID),
		zap.Int("count", len(items)))

	accepted := make([]domain.FoodItem, 0, len(items))
	for _, item := range items {
		if item.Rejected() {
			continue
		}
		accepted = append(accepted, item)
	}
	if len(accepted) == 0 {
		return &LogMealResult{NoFood: true}, nil
	}

	if err := s.ledger.Record(ctx, userID, date, accepted); err != nil {
		return nil, err
	}

	day, err := s.ledger.Summary(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	result := &LogMealResult{Items: accepted, Day: day}
	for _, item := range accepted {
		result.Meal.Add(item)
	}

	target, ok, err := s.targets.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	result.TargetKcal = target
	result.HasTarget = ok

	return result, nil
}
