package subscription

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Type is the recurrence interval of a subscription
type Type string

const (
	TypeDaily   Type = "DAILY"
	TypeWeekly  Type = "WEEKLY"
	TypeMonthly Type = "MONTHLY"
)

// IsValid checks if the type is a valid subscription Type
func (t Type) IsValid() bool {
	switch t {
	case TypeDaily, TypeWeekly, TypeMonthly:
		return true
	}
	return false
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// EndDateFrom returns the end date for a subscription of this type starting
// at the given time. Monthly subscriptions add one calendar month.
func (t Type) EndDateFrom(start time.Time) (time.Time, error) {
	switch t {
	case TypeDaily:
		return start.AddDate(0, 0, 1), nil
	case TypeWeekly:
		return start.AddDate(0, 0, 7), nil
	case TypeMonthly:
		return start.AddDate(0, 1, 0), nil
	}
	return time.Time{}, shared.NewDomainError("INVALID_SUBSCRIPTION_TYPE", fmt.Sprintf("Unknown subscription type %q", t))
}

// Status is the lifecycle state of a subscription
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Subscription is the optional recurring-fee overlay attached to an order
type Subscription struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type      Type            `gorm:"size:20;not null"`
	StartDate time.Time       `gorm:"not null"`
	EndDate   time.Time       `gorm:"not null;index"`
	Status    Status          `gorm:"size:20;not null;default:'ACTIVE';index"`
	Reference string          `gorm:"size:32;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// NewSubscription creates an ACTIVE subscription starting now
func NewSubscription(userID uuid.UUID, subType Type, amount valueobject.Money, reference string) (*Subscription, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !subType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SUBSCRIPTION_TYPE", fmt.Sprintf("Unknown subscription type %q", subType))
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Subscription amount cannot be negative")
	}

	start := time.Now()
	end, err := subType.EndDateFrom(start)
	if err != nil {
		return nil, err
	}

	return &Subscription{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Type:              subType,
		StartDate:         start,
		EndDate:           end,
		Status:            StatusActive,
		Reference:         reference,
		Amount:            amount.Amount(),
	}, nil
}

// IsExpired returns true when the subscription's end date has passed
func (s *Subscription) IsExpired(now time.Time) bool {
	return s.EndDate.Before(now)
}

// Expire deactivates the subscription. Idempotent.
func (s *Subscription) Expire() {
	if s.Status == StatusInactive {
		return
	}
	s.Status = StatusInactive
	s.UpdatedAt = time.Now()
}

// AmountMoney returns the recurring fee as Money
func (s *Subscription) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(s.Amount)
}
