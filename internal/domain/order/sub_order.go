package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SubOrder is the per-vendor decomposition of an aggregate order: the unit
// vendors act on. The item subset is fixed at creation and never changes.
type SubOrder struct {
	shared.BaseAggregateRoot
	ParentOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendorID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Reference      string          `gorm:"size:32;not null;index"`
	Status         PaymentStatus   `gorm:"size:20;not null;default:'PENDING'"`
	DeliveryStatus DeliveryStatus  `gorm:"size:20;not null;default:'PROCESSING'"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Items          []OrderItem     `gorm:"foreignKey:SubOrderID"`
	WaybillNumber  string          `gorm:"size:64"`
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
}

// NewSubOrder creates the per-vendor slice of an aggregate order.
// Amount is the vendor's proportional share of the order total.
func NewSubOrder(parent *Order, vendorID uuid.UUID, items []OrderItem, amount valueobject.Money) (*SubOrder, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Parent order cannot be nil")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Sub-order requires at least one item")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Sub-order amount cannot be negative")
	}
	for _, item := range items {
		if item.VendorID != vendorID {
			return nil, shared.NewDomainError("INVALID_ITEM", "Sub-order items must belong to the sub-order's vendor")
		}
	}

	so := &SubOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ParentOrderID:     parent.ID,
		VendorID:          vendorID,
		UserID:            parent.UserID,
		Reference:         parent.Reference,
		Status:            PaymentStatusPending,
		DeliveryStatus:    DeliveryStatusProcessing,
		Amount:            amount.Amount(),
		Items:             items,
	}
	for i := range so.Items {
		id := so.ID
		so.Items[i].SubOrderID = &id
	}

	return so, nil
}

// MarkPaid mirrors the parent order's payment confirmation.
// Idempotent: a sub-order that is already PAID is left untouched.
func (s *SubOrder) MarkPaid() error {
	if s.Status == PaymentStatusPaid {
		return nil
	}
	if !s.Status.CanTransitionTo(PaymentStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark sub-order in %s status as paid", s.Status))
	}
	s.Status = PaymentStatusPaid
	s.UpdatedAt = time.Now()
	return nil
}

// MarkFailed records a checkout-pipeline failure on the vendor slice
func (s *SubOrder) MarkFailed() error {
	if s.Status == PaymentStatusFailed {
		return nil
	}
	if !s.Status.CanTransitionTo(PaymentStatusFailed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail sub-order in %s status", s.Status))
	}
	s.Status = PaymentStatusFailed
	s.UpdatedAt = time.Now()
	return nil
}

// UpdateDeliveryStatus advances the fulfillment state. Requires a confirmed
// payment and a forward transition.
func (s *SubOrder) UpdateDeliveryStatus(status DeliveryStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_DELIVERY_STATUS", fmt.Sprintf("Unknown delivery status %q", status))
	}
	if s.Status != PaymentStatusPaid && s.Status != PaymentStatusConfirmed {
		return shared.NewDomainError("PRECONDITION_FAILED", "Payment has not been confirmed for this sub-order")
	}
	if !s.DeliveryStatus.CanTransitionTo(status) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move sub-order delivery status from %s to %s", s.DeliveryStatus, status))
	}

	now := time.Now()
	s.DeliveryStatus = status
	switch status {
	case DeliveryStatusShipped:
		s.ShippedAt = &now
		s.AddDomainEvent(NewSubOrderShippedEvent(s))
	case DeliveryStatusDelivered:
		s.DeliveredAt = &now
	}
	s.UpdatedAt = now

	return nil
}

// SetWaybillNumber records the carrier waybill issued at pickup
func (s *SubOrder) SetWaybillNumber(waybill string) {
	s.WaybillNumber = waybill
	s.UpdatedAt = time.Now()
}

// AmountMoney returns the sub-order amount as Money
func (s *SubOrder) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(s.Amount)
}

// ConsensusDeliveryStatus reports the uniform delivery status across the
// given sub-orders. The second return is false when the set is empty or the
// sub-orders disagree.
func ConsensusDeliveryStatus(subOrders []SubOrder) (DeliveryStatus, bool) {
	if len(subOrders) == 0 {
		return "", false
	}
	status := subOrders[0].DeliveryStatus
	for _, so := range subOrders[1:] {
		if so.DeliveryStatus != status {
			return "", false
		}
	}
	return status, true
}
