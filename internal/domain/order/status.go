package order

// PaymentStatus represents the payment lifecycle of an order
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusDeclined  PaymentStatus = "DECLINED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusConfirmed, PaymentStatusDeclined, PaymentStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can advance to the target status.
// Transitions are forward-only; terminal states never move again.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusPaid || target == PaymentStatusDeclined || target == PaymentStatusFailed
	case PaymentStatusPaid:
		return target == PaymentStatusConfirmed || target == PaymentStatusDeclined
	case PaymentStatusConfirmed, PaymentStatusDeclined, PaymentStatusFailed:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true when no further payment transition is possible
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusConfirmed || s == PaymentStatusDeclined || s == PaymentStatusFailed
}

// DeliveryStatus represents the fulfillment lifecycle of an order or sub-order
type DeliveryStatus string

const (
	DeliveryStatusProcessing  DeliveryStatus = "PROCESSING"
	DeliveryStatusReadyToShip DeliveryStatus = "READY_TO_SHIP"
	DeliveryStatusShipped     DeliveryStatus = "SHIPPED"
	DeliveryStatusDelivered   DeliveryStatus = "DELIVERED"
	DeliveryStatusReturned    DeliveryStatus = "RETURNED"
)

// IsValid checks if the status is a valid DeliveryStatus
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusProcessing, DeliveryStatusReadyToShip, DeliveryStatusShipped, DeliveryStatusDelivered, DeliveryStatusReturned:
		return true
	}
	return false
}

// String returns the string representation of DeliveryStatus
func (s DeliveryStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can advance to the target status.
// Fulfillment moves forward only; RETURNED is terminal.
func (s DeliveryStatus) CanTransitionTo(target DeliveryStatus) bool {
	switch s {
	case DeliveryStatusProcessing:
		return target == DeliveryStatusReadyToShip
	case DeliveryStatusReadyToShip:
		return target == DeliveryStatusShipped
	case DeliveryStatusShipped:
		return target == DeliveryStatusDelivered
	case DeliveryStatusDelivered:
		return target == DeliveryStatusReturned
	case DeliveryStatusReturned:
		return false // Terminal state
	}
	return false
}

// rank orders delivery statuses along the fulfillment timeline
func (s DeliveryStatus) rank() int {
	switch s {
	case DeliveryStatusProcessing:
		return 0
	case DeliveryStatusReadyToShip:
		return 1
	case DeliveryStatusShipped:
		return 2
	case DeliveryStatusDelivered:
		return 3
	case DeliveryStatusReturned:
		return 4
	}
	return -1
}

// CanAdvanceTo returns true when the target lies strictly ahead of this
// status on the fulfillment timeline. Unlike CanTransitionTo this permits
// multi-step jumps: an aggregate following its sub-orders by consensus may
// skip intermediate states the sub-orders never agreed on simultaneously.
func (s DeliveryStatus) CanAdvanceTo(target DeliveryStatus) bool {
	return target.IsValid() && target.rank() > s.rank()
}
