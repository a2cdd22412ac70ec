package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/macrolog-ai/macrolog/internal/domain"
)

// TargetRepositoryInterface defines the repository interface for calorie targets.
type TargetRepositoryInterface interface {
	Get(ctx context.Context, userID string) (float64, bool, error)
	Set(ctx context.Context, userID string, kcal float64) error
}

// TargetService handles daily calorie targets.
type TargetService struct {
	repo   TargetRepositoryInterface
	logger *zap.Logger
}

// NewTargetService creates a new TargetService instance.
func NewTargetService(repo TargetRepositoryInterface, logger *zap.Logger) *TargetService {
	return &TargetService{repo: repo, logger: logger}
}

// SetTarget stores the user's daily calorie target.
func (s *TargetService) SetTarget(ctx context.Context, userID string, kcal float64) error {
	if userID == "" {
		return domain.ErrEmptyUserID
	}
	if err := domain.ValidateTarget(kcal); err != nil {
		return err
	}
	if err := s.repo.Set(ctx, userID, kcal); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to set target", err)
	}

	s.logger.Info("target set", zap.String("user_id", userID), zap.Float64("kcal", kcal))
	return nil
}

// GetTarget returns the user's target, or ErrTargetNotSet when none is stored.
func (s *TargetService) GetTarget(ctx context.Context, userID string) (float64, error) {
	if userID == "" {
		return 0, domain.ErrEmptyUserID
	}
	kcal, ok, err := s.repo.Get(ctx, userID)
	if err != nil {
		return 0, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to read target", err)
	}
	if !ok {
		return 0, domain.ErrTargetNotSet
	}
	return kcal, nil
}

// Lookup returns the user's target and whether one is set, without treating
// absence as an error. Used when composing replies.
func (s *TargetService) Lookup(ctx context.Context, userID string) (float64, bool, error) {
	if userID == "" {
		return 0, false, domain.ErrEmptyUserID
	}
	kcal, ok, err := s.repo.Get(ctx, userID)
	if err != nil {
		return 0, false, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to read target", err)
	}
	return kcal, ok, nil
}
