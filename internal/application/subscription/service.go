package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/order"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
	"github.com/markethub/backend/internal/domain/subscription"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service manages the recurring-fee subscription overlay
type Service struct {
	repo   subscription.Repository
	logger *zap.Logger
}

// NewService creates a new subscription Service
func NewService(repo subscription.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create creates an ACTIVE subscription for the user. The end date is
// derived from the type (1 day, 7 days, or 1 calendar month).
func (s *Service) Create(ctx context.Context, userID uuid.UUID, subType subscription.Type, amount decimal.Decimal) (*subscription.Subscription, error) {
	reference, err := order.GenerateReference()
	if err != nil {
		return nil, err
	}

	sub, err := subscription.NewSubscription(userID, subType, valueobject.NewMoneyNGN(amount), reference)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("subscription created",
		zap.String("user_id", userID.String()),
		zap.String("type", subType.String()),
		zap.Time("end_date", sub.EndDate),
	)

	return sub, nil
}

// ListByUser returns the user's subscriptions, most recent first
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]subscription.Subscription, error) {
	return s.repo.FindByUser(ctx, userID)
}

// ExpireOverdue deactivates every ACTIVE subscription whose end date has
// passed. Idempotent: a sweep with nothing newly expired is a no-op.
// Returns the number of subscriptions expired.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	now := time.Now()
	expired, err := s.repo.FindExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range expired {
		sub := &expired[i]
		sub.Expire()
		if err := s.repo.Save(ctx, sub); err != nil {
			s.logger.Error("failed to expire subscription",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err),
			)
			continue
		}
		count++
	}

	if count > 0 {
		s.logger.Info("expired overdue subscriptions", zap.Int("count", count))
	}

	return count, nil
}
