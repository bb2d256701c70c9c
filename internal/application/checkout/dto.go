package checkout

import (
	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// AddressRequest is an address as submitted at checkout
type AddressRequest struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Country string `json:"country" binding:"required"`
	ZipCode string `json:"zip_code"`
}

// ToAddress converts the request into the domain value
func (r AddressRequest) ToAddress() order.Address {
	return order.Address{
		Street:  r.Street,
		City:    r.City,
		State:   r.State,
		Country: r.Country,
		ZipCode: r.ZipCode,
	}
}

// PersonalInfoRequest is the recipient contact block of a checkout
type PersonalInfoRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

// ItemRequest is one cart line of a checkout
type ItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,gt=0"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

// SubscriptionDetailsRequest attaches a recurring fee to the checkout.
// When Type is present a new subscription overlay row is created alongside
// the order.
type SubscriptionDetailsRequest struct {
	Fee  decimal.Decimal `json:"fee" binding:"required"`
	Type string          `json:"type,omitempty"`
}

// CheckoutRequest is the inbound checkout payload
type CheckoutRequest struct {
	ShippingAddress     AddressRequest              `json:"shipping_address" binding:"required"`
	BillingAddress      *AddressRequest             `json:"billing_address,omitempty"`
	PersonalInfo        PersonalInfoRequest         `json:"personal_info" binding:"required"`
	ShippingMethod      string                      `json:"shipping_method" binding:"required"`
	PaymentGateway      string                      `json:"payment_gateway" binding:"required"`
	ShippingFee         decimal.Decimal             `json:"shipping_fee"`
	CallbackURL         string                      `json:"callback_url"`
	Products            []ItemRequest               `json:"products" binding:"required,min=1,dive"`
	SubscriptionDetails *SubscriptionDetailsRequest `json:"subscription_details,omitempty"`
}

// PaymentResponse is the provider initialization result returned to the client
type PaymentResponse struct {
	RedirectURL       string `json:"redirect_url,omitempty"`
	AccessCode        string `json:"access_code,omitempty"`
	ProviderReference string `json:"provider_reference,omitempty"`
}

// CheckoutResponse pairs the persisted order with the payment redirect info
type CheckoutResponse struct {
	Order           *order.Order    `json:"order"`
	PaymentResponse PaymentResponse `json:"payment_response"`
}
