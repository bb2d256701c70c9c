package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Address represents a shipping or billing address
type Address struct {
	Street  string `gorm:"size:255" json:"street"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	Country string `gorm:"size:100" json:"country"`
	ZipCode string `gorm:"size:20" json:"zip_code"`
}

// PersonalInfo carries the recipient contact details captured at checkout
type PersonalInfo struct {
	Name  string `gorm:"size:200" json:"name"`
	Email string `gorm:"size:255" json:"email"`
	Phone string `gorm:"size:30" json:"phone"`
}

// OrderItem represents a priced line item of an aggregate order
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SubOrderID *uuid.UUID      `gorm:"type:uuid;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	VendorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Discount   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"` // percent
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewOrderItem creates a priced line item. Discount is a percentage of the
// line total and must be within [0, 100].
func NewOrderItem(orderID, productID, vendorID uuid.UUID, quantity int, unitPrice valueobject.Money, discount decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100 percent")
	}

	now := time.Now()
	gross := unitPrice.Amount().Mul(decimal.NewFromInt(int64(quantity)))
	amount := gross.Sub(gross.Mul(discount).Div(decimal.NewFromInt(100)))

	return &OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		VendorID:  vendorID,
		Quantity:  quantity,
		UnitPrice: unitPrice.Amount(),
		Discount:  discount,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AmountMoney returns the discounted line total as Money
func (i *OrderItem) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(i.Amount)
}

// Order represents the aggregate (whole-cart) order spanning potentially
// multiple vendors. It is created once per checkout and afterwards only
// status-mutated by reconciliation.
type Order struct {
	shared.BaseAggregateRoot
	Reference       string          `gorm:"size:32;not null;uniqueIndex"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          PaymentStatus   `gorm:"size:20;not null;default:'PENDING';index"`
	DeliveryStatus  DeliveryStatus  `gorm:"size:20;not null;default:'PROCESSING'"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VAT             decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SubscriptionFee decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ShippingMethod  string          `gorm:"size:50"`
	PaymentGateway  string          `gorm:"size:30;not null"`
	ShippingAddress Address         `gorm:"embedded;embeddedPrefix:shipping_"`
	BillingAddress  *Address        `gorm:"embedded;embeddedPrefix:billing_"`
	PersonalInfo    PersonalInfo    `gorm:"embedded;embeddedPrefix:personal_"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"`
	TransactionID   uuid.UUID       `gorm:"type:uuid;not null"`
	PaidAt          *time.Time
	DeliveredAt     *time.Time
}

// NewOrder creates a new aggregate order in PENDING/PROCESSING state
func NewOrder(reference string, userID uuid.UUID, paymentGateway, shippingMethod string, shippingAddress Address, personalInfo PersonalInfo) (*Order, error) {
	if len(reference) < 15 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference must be at least 15 characters")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if paymentGateway == "" {
		return nil, shared.NewDomainError("INVALID_GATEWAY", "Payment gateway cannot be empty")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Reference:         reference,
		UserID:            userID,
		Status:            PaymentStatusPending,
		DeliveryStatus:    DeliveryStatusProcessing,
		TotalAmount:       decimal.Zero,
		VAT:               decimal.Zero,
		ShippingFee:       decimal.Zero,
		SubscriptionFee:   decimal.Zero,
		ShippingMethod:    shippingMethod,
		PaymentGateway:    paymentGateway,
		ShippingAddress:   shippingAddress,
		PersonalInfo:      personalInfo,
		Items:             make([]OrderItem, 0),
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// AddItem appends a priced line item. Only allowed while still PENDING;
// the item set is frozen once the order leaves checkout.
func (o *Order) AddItem(productID, vendorID uuid.UUID, quantity int, unitPrice valueobject.Money, discount decimal.Decimal) (*OrderItem, error) {
	if o.Status != PaymentStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to an order past checkout")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already present in order")
		}
	}

	item, err := NewOrderItem(o.ID, productID, vendorID, quantity, unitPrice, discount)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now()

	return item, nil
}

// SetBillingAddress records an optional billing address
func (o *Order) SetBillingAddress(addr Address) {
	o.BillingAddress = &addr
	o.UpdatedAt = time.Now()
}

// SetAmounts records the priced totals computed at checkout
func (o *Order) SetAmounts(totalAmount, vat, shippingFee, subscriptionFee valueobject.Money) error {
	if totalAmount.IsNegative() || vat.IsNegative() || shippingFee.IsNegative() || subscriptionFee.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot be negative")
	}

	o.TotalAmount = totalAmount.Amount()
	o.VAT = vat.Amount()
	o.ShippingFee = shippingFee.Amount()
	o.SubscriptionFee = subscriptionFee.Amount()
	o.UpdatedAt = time.Now()

	return nil
}

// AttachTransaction links the transaction created alongside the order
func (o *Order) AttachTransaction(transactionID uuid.UUID) error {
	if transactionID == uuid.Nil {
		return shared.NewDomainError("INVALID_TRANSACTION", "Transaction ID cannot be empty")
	}
	o.TransactionID = transactionID
	o.UpdatedAt = time.Now()
	return nil
}

// MarkPaid advances payment status to PAID. Returns nil without side
// effects when the order is already PAID, so webhook re-delivery is a no-op.
func (o *Order) MarkPaid() error {
	if o.Status == PaymentStatusPaid {
		return nil
	}
	if !o.Status.CanTransitionTo(PaymentStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order in %s status as paid", o.Status))
	}

	now := time.Now()
	o.Status = PaymentStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// Confirm advances payment status from PAID to CONFIRMED
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(PaymentStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	o.Status = PaymentStatusConfirmed
	o.UpdatedAt = time.Now()
	return nil
}

// Decline marks the payment as declined
func (o *Order) Decline() error {
	if !o.Status.CanTransitionTo(PaymentStatusDeclined) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot decline order in %s status", o.Status))
	}
	o.Status = PaymentStatusDeclined
	o.UpdatedAt = time.Now()
	return nil
}

// MarkFailed records a checkout-pipeline failure (compensation path)
func (o *Order) MarkFailed() error {
	if o.Status == PaymentStatusFailed {
		return nil
	}
	if !o.Status.CanTransitionTo(PaymentStatusFailed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail order in %s status", o.Status))
	}
	o.Status = PaymentStatusFailed
	o.UpdatedAt = time.Now()
	return nil
}

// ApplyConsensusDeliveryStatus moves the aggregate delivery status to the
// uniform value reported by every sub-order. The caller establishes
// consensus; this guard only enforces forward movement.
func (o *Order) ApplyConsensusDeliveryStatus(status DeliveryStatus) error {
	if o.DeliveryStatus == status {
		return nil
	}
	if !o.DeliveryStatus.CanAdvanceTo(status) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order delivery status from %s to %s", o.DeliveryStatus, status))
	}

	now := time.Now()
	o.DeliveryStatus = status
	if status == DeliveryStatusDelivered {
		o.DeliveredAt = &now
		o.AddDomainEvent(NewOrderDeliveredEvent(o))
	}
	o.UpdatedAt = now

	return nil
}

// VendorIDs returns the distinct vendor IDs present in the item set,
// in first-seen order
func (o *Order) VendorIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.VendorID]; ok {
			continue
		}
		seen[item.VendorID] = struct{}{}
		ids = append(ids, item.VendorID)
	}
	return ids
}

// ItemsForVendor returns the line items belonging to one vendor
func (o *Order) ItemsForVendor(vendorID uuid.UUID) []OrderItem {
	items := make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			items = append(items, item)
		}
	}
	return items
}

// TotalAmountMoney returns the total amount as Money
func (o *Order) TotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(o.TotalAmount)
}
