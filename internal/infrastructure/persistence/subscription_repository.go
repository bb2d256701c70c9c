package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/domain/subscription"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements subscription.Repository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByID finds a subscription by ID
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByUser finds all subscriptions belonging to a user, most recent first
func (r *GormSubscriptionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]subscription.Subscription, error) {
	var subs []subscription.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// FindByUserAndStatus finds the most recent subscription of a user in the
// given status, or nil when none exists
func (r *GormSubscriptionRepository) FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status subscription.Status) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at desc").
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// FindExpired finds ACTIVE subscriptions whose end date has passed
func (r *GormSubscriptionRepository) FindExpired(ctx context.Context, now time.Time) ([]subscription.Subscription, error) {
	var subs []subscription.Subscription
	if err := r.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", subscription.StatusActive, now).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// Save creates or updates a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, sub *subscription.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

// Ensure GormSubscriptionRepository implements Repository
var _ subscription.Repository = (*GormSubscriptionRepository)(nil)
