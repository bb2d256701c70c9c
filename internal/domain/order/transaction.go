package order

import (
	"fmt"
	"time"

	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the settlement state of a payment attempt
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusSuccessful TransactionStatus = "SUCCESSFUL"
	TransactionStatusFailed     TransactionStatus = "FAILED"
)

// IsValid checks if the status is a valid TransactionStatus
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSuccessful, TransactionStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// Transaction records a single payment attempt against an order.
// It shares the order's correlation reference.
type Transaction struct {
	shared.BaseAggregateRoot
	Reference          string            `gorm:"size:32;not null;uniqueIndex"`
	Amount             decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	TotalProductAmount decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	ShippingFee        decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	VAT                decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Status             TransactionStatus `gorm:"size:20;not null;default:'PENDING';index"`
	PaymentGateway     string            `gorm:"size:30;not null"`
	PaymentReference   string            `gorm:"size:100"`
	SettledAt          *time.Time
}

// NewTransaction creates a PENDING payment record for a checkout
func NewTransaction(reference, paymentGateway string, amount, totalProductAmount, shippingFee, vat valueobject.Money) (*Transaction, error) {
	if len(reference) < 15 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference must be at least 15 characters")
	}
	if paymentGateway == "" {
		return nil, shared.NewDomainError("INVALID_GATEWAY", "Payment gateway cannot be empty")
	}
	if amount.IsNegative() || totalProductAmount.IsNegative() || shippingFee.IsNegative() || vat.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot be negative")
	}

	return &Transaction{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Reference:          reference,
		Amount:             amount.Amount(),
		TotalProductAmount: totalProductAmount.Amount(),
		ShippingFee:        shippingFee.Amount(),
		VAT:                vat.Amount(),
		Status:             TransactionStatusPending,
		PaymentGateway:     paymentGateway,
	}, nil
}

// MarkSuccessful records a confirmed settlement. Idempotent when already
// SUCCESSFUL; a FAILED transaction never becomes SUCCESSFUL.
func (t *Transaction) MarkSuccessful(paymentReference string) error {
	if t.Status == TransactionStatusSuccessful {
		return nil
	}
	if t.Status == TransactionStatusFailed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot settle transaction in %s status", t.Status))
	}

	now := time.Now()
	t.Status = TransactionStatusSuccessful
	t.PaymentReference = paymentReference
	t.SettledAt = &now
	t.UpdatedAt = now

	return nil
}

// MarkFailed records a failed or abandoned payment attempt
func (t *Transaction) MarkFailed() error {
	if t.Status == TransactionStatusFailed {
		return nil
	}
	if t.Status == TransactionStatusSuccessful {
		return shared.NewDomainError("INVALID_STATE", "Cannot fail a settled transaction")
	}
	t.Status = TransactionStatusFailed
	t.UpdatedAt = time.Now()
	return nil
}

// AmountMoney returns the charge amount as Money
func (t *Transaction) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(t.Amount)
}
