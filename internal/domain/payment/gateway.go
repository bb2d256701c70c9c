package payment

import (
	"context"
	"errors"

	"github.com/markethub/backend/internal/domain/shared/valueobject"
)

// Gateway errors
var (
	ErrGatewayNotSupported    = errors.New("payment: gateway not supported")
	ErrGatewayNotConfigured   = errors.New("payment: gateway not configured")
	ErrGatewayRequestFailed   = errors.New("payment: gateway request failed")
	ErrGatewayInvalidResponse = errors.New("payment: invalid gateway response")
)

// GatewayType identifies a payment provider
type GatewayType string

const (
	// GatewayTypeHydrogenPay represents the HydrogenPay gateway
	GatewayTypeHydrogenPay GatewayType = "HYDROGENPAY"
	// GatewayTypePaystack represents the Paystack gateway
	GatewayTypePaystack GatewayType = "PAYSTACK"
)

// IsValid returns true if the gateway type is valid
func (t GatewayType) IsValid() bool {
	switch t {
	case GatewayTypeHydrogenPay, GatewayTypePaystack:
		return true
	default:
		return false
	}
}

// String returns the string representation of GatewayType
func (t GatewayType) String() string {
	return string(t)
}

// VerificationStatus is the normalized terminal status of a charge as
// reported by a provider
type VerificationStatus string

const (
	VerificationStatusSuccessful VerificationStatus = "SUCCESSFUL"
	VerificationStatusPending    VerificationStatus = "PENDING"
	VerificationStatusFailed     VerificationStatus = "FAILED"
)

// InitializeRequest carries the provider-agnostic fields of a charge
// initialization
type InitializeRequest struct {
	// Amount is the full charge amount (major units)
	Amount valueobject.Money
	// Email is the payer's email address
	Email string
	// CustomerName is the payer's display name
	CustomerName string
	// Reference is the correlation reference shared with the order and transaction
	Reference string
	// CallbackURL is where the provider redirects after payment
	CallbackURL string
}

// Validate validates the request
func (r *InitializeRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return errors.New("payment: amount must be positive")
	}
	if r.Email == "" {
		return errors.New("payment: email is required")
	}
	if r.Reference == "" {
		return errors.New("payment: reference is required")
	}
	return nil
}

// InitializeResponse is the normalized provider response to a charge
// initialization
type InitializeResponse struct {
	// RedirectURL is the hosted payment page the customer is sent to
	RedirectURL string
	// AccessCode is the provider's session handle, when it issues one
	AccessCode string
	// ProviderReference is the provider's own identifier for the charge
	ProviderReference string
	// RawResponse is the original provider response body (JSON)
	RawResponse string
}

// VerifyResponse is the normalized provider answer to a status query
type VerifyResponse struct {
	// Status is the provider status mapped into the system vocabulary
	Status VerificationStatus
	// Amount is the amount the provider reports as charged
	Amount valueobject.Money
	// ProviderReference is the provider's own identifier for the charge
	ProviderReference string
	// RawResponse is the original provider response body (JSON)
	RawResponse string
}

// Gateway is the port interface for external payment providers. Concrete
// implementations (HydrogenPay, Paystack) live in the infrastructure layer
// and hold no persistent state.
type Gateway interface {
	// Name returns the provider identity of this gateway
	Name() GatewayType

	// Initialize creates a charge with the provider and returns redirect
	// details. Never retried automatically: re-submission without a fresh
	// reference could double-charge.
	Initialize(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error)

	// Verify queries the provider for the charge status by reference.
	// Safe to retry.
	Verify(ctx context.Context, reference string) (*VerifyResponse, error)
}

// Registry provides access to configured gateways, selected once at
// construction rather than branched per call
type Registry interface {
	// Get returns the gateway for the specified type
	Get(gatewayType GatewayType) (Gateway, error)

	// List returns all registered gateways
	List() []Gateway
}
