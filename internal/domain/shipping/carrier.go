package shipping

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Carrier errors
var (
	ErrCarrierAuthFailed      = errors.New("shipping: carrier authentication failed")
	ErrCarrierRequestFailed   = errors.New("shipping: carrier request failed")
	ErrCarrierInvalidResponse = errors.New("shipping: invalid carrier response")
	ErrCarrierPickupRejected  = errors.New("shipping: carrier rejected pickup request")
)

// Party identifies one side of a shipment (sender or recipient)
type Party struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// ShipmentItem describes one parcel line in a pickup request
type ShipmentItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	WeightKG    decimal.Decimal `json:"weight_kg"`
	Value       decimal.Decimal `json:"value"`
}

// RateRequest asks the carrier for a shipping quote
type RateRequest struct {
	Sender    Party
	Recipient Party
	Items     []ShipmentItem
}

// RateResponse is the carrier's quoted price for a shipment
type RateResponse struct {
	Amount   decimal.Decimal
	Currency string
	// RawResponse is the original carrier response body (JSON)
	RawResponse string
}

// PickupRequest asks the carrier to collect a shipment
type PickupRequest struct {
	// OrderNo is the merchant-side reference for the shipment
	OrderNo   string
	Sender    Party
	Recipient Party
	Items     []ShipmentItem
}

// PickupResponse is the carrier's acknowledgement of a pickup submission
type PickupResponse struct {
	// TransStatus is the carrier's status word for the submission
	TransStatus string
	// WaybillNumber is the tracking number issued by the carrier
	WaybillNumber string
	// RawResponse is the original carrier response body (JSON)
	RawResponse string
}

// Carrier is the port interface for the external logistics provider
type Carrier interface {
	// Authenticate obtains (or reuses) an API token for subsequent calls
	Authenticate(ctx context.Context) (string, error)

	// QuoteRate asks the carrier to price a shipment. Safe to retry.
	QuoteRate(ctx context.Context, req *RateRequest) (*RateResponse, error)

	// SubmitPickup submits a shipment for collection and returns the
	// issued waybill
	SubmitPickup(ctx context.Context, req *PickupRequest) (*PickupResponse, error)
}

// TokenCache stores carrier API tokens with expiry in a store shared across
// process instances, replacing any in-process singleton token.
type TokenCache interface {
	// Get returns the cached token, or "" when absent/expired
	Get(ctx context.Context) (string, error)

	// Set stores a token with the given time-to-live
	Set(ctx context.Context, token string, ttl time.Duration) error

	// Invalidate drops the cached token (e.g. after a 401)
	Invalidate(ctx context.Context) error
}
