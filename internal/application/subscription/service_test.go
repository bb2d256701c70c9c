package subscription

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/domain/subscription"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSubscriptionRepo struct {
	mu      sync.Mutex
	subs    map[uuid.UUID]*subscription.Subscription
	saveErr map[uuid.UUID]error
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{
		subs:    make(map[uuid.UUID]*subscription.Subscription),
		saveErr: make(map[uuid.UUID]error),
	}
}

func (r *memSubscriptionRepo) FindByID(_ context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return sub, nil
}

func (r *memSubscriptionRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []subscription.Subscription
	for _, sub := range r.subs {
		if sub.UserID == userID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (r *memSubscriptionRepo) FindByUserAndStatus(_ context.Context, userID uuid.UUID, status subscription.Status) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if sub.UserID == userID && sub.Status == status {
			return sub, nil
		}
	}
	return nil, nil
}

func (r *memSubscriptionRepo) FindExpired(_ context.Context, now time.Time) ([]subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []subscription.Subscription
	for _, sub := range r.subs {
		if sub.Status == subscription.StatusActive && sub.IsExpired(now) {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (r *memSubscriptionRepo) Save(_ context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.saveErr[sub.ID]; err != nil {
		return err
	}
	r.subs[sub.ID] = sub
	return nil
}

func TestCreate(t *testing.T) {
	repo := newMemSubscriptionRepo()
	service := NewService(repo, nil)
	userID := uuid.New()

	tests := []struct {
		name     string
		subType  subscription.Type
		wantDays int
	}{
		{name: "daily", subType: subscription.TypeDaily, wantDays: 1},
		{name: "weekly", subType: subscription.TypeWeekly, wantDays: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := service.Create(context.Background(), userID, tt.subType, decimal.NewFromInt(1000))
			require.NoError(t, err)

			assert.Equal(t, subscription.StatusActive, sub.Status)
			assert.Len(t, sub.Reference, 16)
			wantEnd := sub.StartDate.AddDate(0, 0, tt.wantDays)
			assert.True(t, sub.EndDate.Equal(wantEnd))

			stored, err := repo.FindByID(context.Background(), sub.ID)
			require.NoError(t, err)
			assert.Equal(t, sub.Reference, stored.Reference)
		})
	}
}

func TestCreate_MonthlyAddsCalendarMonth(t *testing.T) {
	repo := newMemSubscriptionRepo()
	service := NewService(repo, nil)

	sub, err := service.Create(context.Background(), uuid.New(), subscription.TypeMonthly, decimal.NewFromInt(5000))
	require.NoError(t, err)
	assert.True(t, sub.EndDate.Equal(sub.StartDate.AddDate(0, 1, 0)))
}

func TestCreate_Validation(t *testing.T) {
	repo := newMemSubscriptionRepo()
	service := NewService(repo, nil)

	tests := []struct {
		name     string
		userID   uuid.UUID
		subType  subscription.Type
		amount   decimal.Decimal
		wantCode string
	}{
		{
			name:     "unknown type",
			userID:   uuid.New(),
			subType:  subscription.Type("YEARLY"),
			amount:   decimal.NewFromInt(1000),
			wantCode: "INVALID_SUBSCRIPTION_TYPE",
		},
		{
			name:     "nil user",
			userID:   uuid.Nil,
			subType:  subscription.TypeDaily,
			amount:   decimal.NewFromInt(1000),
			wantCode: "INVALID_USER",
		},
		{
			name:     "negative amount",
			userID:   uuid.New(),
			subType:  subscription.TypeDaily,
			amount:   decimal.NewFromInt(-1),
			wantCode: "INVALID_AMOUNT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tt.userID, tt.subType, tt.amount)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
			assert.Empty(t, repo.subs)
		})
	}
}

func TestListByUser(t *testing.T) {
	repo := newMemSubscriptionRepo()
	service := NewService(repo, nil)
	userID := uuid.New()

	_, err := service.Create(context.Background(), userID, subscription.TypeDaily, decimal.NewFromInt(1000))
	require.NoError(t, err)
	_, err = service.Create(context.Background(), uuid.New(), subscription.TypeDaily, decimal.NewFromInt(1000))
	require.NoError(t, err)

	subs, err := service.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, userID, subs[0].UserID)
}

func TestExpireOverdue(t *testing.T) {
	repo := newMemSubscriptionRepo()
	service := NewService(repo, nil)
	ctx := context.Background()

	overdue, err := service.Create(ctx, uuid.New(), subscription.TypeDaily, decimal.NewFromInt(1000))
	require.NoError(t, err)
	overdue.EndDate = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, overdue))

	current, err := service.Create(ctx, uuid.New(), subscription.TypeMonthly, decimal.NewFromInt(5000))
	require.NoError(t, err)

	count, err := service.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := repo.FindByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusInactive, stored.Status)

	stored, err = repo.FindByID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, stored.Status)

	// Second sweep finds nothing newly expired
	count, err = service.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExpireOverdue_SaveFailureSkipsCount(t *testing.T) {
	repo := newMemSubscriptionRepo()
	service := NewService(repo, nil)
	ctx := context.Background()

	broken, err := service.Create(ctx, uuid.New(), subscription.TypeDaily, decimal.NewFromInt(1000))
	require.NoError(t, err)
	broken.EndDate = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, broken))

	fine, err := service.Create(ctx, uuid.New(), subscription.TypeDaily, decimal.NewFromInt(1000))
	require.NoError(t, err)
	fine.EndDate = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, fine))

	repo.saveErr[broken.ID] = errors.New("connection reset")

	count, err := service.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
