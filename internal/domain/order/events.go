package order

import (
	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeOrder    = "Order"
	AggregateTypeSubOrder = "SubOrder"
)

// Event type constants
const (
	EventTypeOrderCreated    = "OrderCreated"
	EventTypeOrderPaid       = "OrderPaid"
	EventTypeOrderDelivered  = "OrderDelivered"
	EventTypeSubOrderShipped = "SubOrderShipped"
)

// OrderCreatedEvent is raised when a checkout persists a new aggregate order
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	Reference      string          `json:"reference"`
	UserID         uuid.UUID       `json:"user_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentGateway string          `json:"payment_gateway"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Reference:       o.Reference,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		PaymentGateway:  o.PaymentGateway,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderPaidEvent is raised the first time payment is confirmed for an order.
// Downstream notification fires on this event at most once per order.
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	Reference      string          `json:"reference"`
	UserID         uuid.UUID       `json:"user_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	RecipientName  string          `json:"recipient_name"`
	RecipientEmail string          `json:"recipient_email"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Reference:       o.Reference,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		RecipientName:   o.PersonalInfo.Name,
		RecipientEmail:  o.PersonalInfo.Email,
	}
}

// EventType returns the event type name
func (e *OrderPaidEvent) EventType() string {
	return EventTypeOrderPaid
}

// OrderDeliveredEvent is raised when every sub-order reports delivery and
// the aggregate order reaches DELIVERED
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	Reference string    `json:"reference"`
	UserID    uuid.UUID `json:"user_id"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Reference:       o.Reference,
		UserID:          o.UserID,
	}
}

// EventType returns the event type name
func (e *OrderDeliveredEvent) EventType() string {
	return EventTypeOrderDelivered
}

// SubOrderShippedEvent is raised when a vendor marks a sub-order shipped
type SubOrderShippedEvent struct {
	shared.BaseDomainEvent
	SubOrderID    uuid.UUID `json:"sub_order_id"`
	ParentOrderID uuid.UUID `json:"parent_order_id"`
	VendorID      uuid.UUID `json:"vendor_id"`
	Reference     string    `json:"reference"`
	WaybillNumber string    `json:"waybill_number"`
}

// NewSubOrderShippedEvent creates a new SubOrderShippedEvent
func NewSubOrderShippedEvent(s *SubOrder) *SubOrderShippedEvent {
	return &SubOrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubOrderShipped, AggregateTypeSubOrder, s.ID),
		SubOrderID:      s.ID,
		ParentOrderID:   s.ParentOrderID,
		VendorID:        s.VendorID,
		Reference:       s.Reference,
		WaybillNumber:   s.WaybillNumber,
	}
}

// EventType returns the event type name
func (e *SubOrderShippedEvent) EventType() string {
	return EventTypeSubOrderShipped
}
