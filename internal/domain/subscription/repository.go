package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for subscription persistence
type Repository interface {
	// FindByID finds a subscription by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)

	// FindByUser finds all subscriptions belonging to a user,
	// most recent first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Subscription, error)

	// FindByUserAndStatus finds the most recent subscription of a user in
	// the given status, or nil when none exists
	FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status Status) (*Subscription, error)

	// FindExpired finds ACTIVE subscriptions whose end date is before the
	// given instant
	FindExpired(ctx context.Context, now time.Time) ([]Subscription, error)

	// Save creates or updates a subscription
	Save(ctx context.Context, sub *Subscription) error
}
