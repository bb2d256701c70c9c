package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the moderation status of a product listing
type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "PENDING"
	ProductStatusApproved ProductStatus = "APPROVED"
	ProductStatusDeclined ProductStatus = "DECLINED"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusPending, ProductStatusApproved, ProductStatusDeclined:
		return true
	}
	return false
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// Product represents a vendor's product listing
// Sellable quantity = Quantity - SoldQuantity
type Product struct {
	shared.BaseAggregateRoot
	VendorID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"size:255;not null"`
	Description  string          `gorm:"type:text"`
	ImageURL     string          `gorm:"size:512"`
	Price        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity     int             `gorm:"not null"`
	SoldQuantity int             `gorm:"not null;default:0"`
	Status       ProductStatus   `gorm:"size:20;not null;default:'PENDING';index"`
	InStock      bool            `gorm:"not null;default:true"`
}

// NewProduct creates a new product listing in PENDING status
func NewProduct(vendorID uuid.UUID, name string, price valueobject.Money, quantity int) (*Product, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VendorID:          vendorID,
		Name:              name,
		Price:             price.Amount(),
		Quantity:          quantity,
		SoldQuantity:      0,
		Status:            ProductStatusPending,
		InStock:           quantity > 0,
	}, nil
}

// SellableQuantity returns the quantity still available for sale
func (p *Product) SellableQuantity() int {
	return p.Quantity - p.SoldQuantity
}

// IsSellable returns true when the product may be sold at all
func (p *Product) IsSellable() bool {
	return p.Status == ProductStatusApproved
}

// Approve marks the product as approved for sale
func (p *Product) Approve() error {
	if p.Status == ProductStatusApproved {
		return nil
	}
	p.Status = ProductStatusApproved
	p.UpdatedAt = time.Now()
	return nil
}

// Decline marks the product as declined
func (p *Product) Decline() error {
	p.Status = ProductStatusDeclined
	p.UpdatedAt = time.Now()
	return nil
}

// PriceMoney returns the price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(p.Price)
}

// SetImageURL stores the uploaded image location
func (p *Product) SetImageURL(url string) {
	p.ImageURL = url
	p.UpdatedAt = time.Now()
}
