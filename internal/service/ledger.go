package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/macrolog-ai/macrolog/internal/domain"
)

// LedgerRepositoryInterface defines the repository interface for per-day
// food records.
type LedgerRepositoryInterface interface {
	Append(ctx context.Context, userID, date string, items []domain.FoodItem) error
	Read(ctx context.Context, userID, date string) ([]domain.LedgerLine, int, error)
	DeleteLine(ctx context.Context, userID, date string, position int) (bool, error)
	ClearDay(ctx context.Context, userID, date string) (bool, error)
	CountUsers(ctx context.Context) (int, error)
}

// LedgerService handles the per-user, per-day nutrition ledger.
type LedgerService struct {
	repo   LedgerRepositoryInterface
	logger *zap.Logger
}

// NewLedgerService creates a new LedgerService instance.
func NewLedgerService(repo LedgerRepositoryInterface, logger *zap.Logger) *LedgerService {
	return &LedgerService{repo: repo, logger: logger}
}

func validateScope(userID, date string) error {
	if userID == "" {
		return domain.ErrEmptyUserID
	}
	if !domain.ValidDate(date) {
		return domain.ErrInvalidDate
	}
	return nil
}

// Record appends the given items to the user's day. Items that would be
// rejected must already be filtered out by the caller.
func (s *LedgerService) Record(ctx context.Context, userID, date string, items []domain.FoodItem) error {
	if err := validateScope(userID, date); err != nil {
		return err
	}
	if err := s.repo.Append(ctx, userID, date, items); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to record meal", err)
	}
	s.logger.Info("meal recorded",
		zap.String("user_id", userID),
		zap.String("date", date),
		zap.Int("items", len(items)))
	return nil
}

// Summary returns the aggregated totals and entries for a user's day.
// A day with no file is an empty summary, not an error.
func (s *LedgerService) Summary(ctx context.Context, userID, date string) (*domain.DayAggregate, error) {
	if err := validateScope(userID, date); err != nil {
		return nil, err
	}
	lines, _, err := s.repo.Read(ctx, userID, date)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to read day", err)
	}

	agg := &domain.DayAggregate{}
	for _, line := range lines {
		agg.AddLine(line)
	}
	return agg, nil
}

// DeleteEntry removes the entry at the 1-based position from the user's day.
func (s *LedgerService) DeleteEntry(ctx context.Context, userID, date string, position int) error {
	if err := validateScope(userID, date); err != nil {
		return err
	}
	if position < 1 {
		return domain.ErrInvalidPosition
	}

	ok, err := s.repo.DeleteLine(ctx, userID, date, position)
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to delete entry", err)
	}
	if !ok {
		return domain.ErrEntryNotFound
	}

	s.logger.Info("ledger entry deleted",
		zap.String("user_id", userID),
		zap.String("date", date),
		zap.Int("position", position))
	return nil
}

// ClearDay removes every entry of the user's day.
func (s *LedgerService) ClearDay(ctx context.Context, userID, date string) error {
	if err := validateScope(userID, date); err != nil {
		return err
	}

	ok, err := s.repo.ClearDay(ctx, userID, date)
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to clear day", err)
	}
	if !ok {
		return domain.ErrDayNotFound
	}

	s.logger.Info("day cleared", zap.String("user_id", userID), zap.String("date", date))
	return nil
}

// CountUsers returns the number of users with any recorded data.
func (s *LedgerService) CountUsers(ctx context.Context) (int, error) {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return 0, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to count users", err)
	}
	return count, nil
}
