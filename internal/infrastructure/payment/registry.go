package payment

import (
	"github.com/markethub/backend/internal/domain/payment"
	"github.com/markethub/backend/internal/infrastructure/config"
)

// GatewayRegistry holds the gateways enabled in configuration, built once at
// startup so request handling never branches on provider wiring
type GatewayRegistry struct {
	gateways map[payment.GatewayType]payment.Gateway
}

// NewGatewayRegistry builds adapters for every enabled gateway
func NewGatewayRegistry(cfg config.PaymentConfig) (*GatewayRegistry, error) {
	registry := &GatewayRegistry{
		gateways: make(map[payment.GatewayType]payment.Gateway),
	}

	if cfg.HydrogenPay.Enabled {
		adapter, err := NewHydrogenPayAdapter(&HydrogenPayConfig{
			BaseURL:   cfg.HydrogenPay.BaseURL,
			SecretKey: cfg.HydrogenPay.SecretKey,
			Timeout:   cfg.HydrogenPay.Timeout,
		})
		if err != nil {
			return nil, err
		}
		registry.gateways[adapter.Name()] = adapter
	}

	if cfg.Paystack.Enabled {
		adapter, err := NewPaystackAdapter(&PaystackConfig{
			BaseURL:   cfg.Paystack.BaseURL,
			SecretKey: cfg.Paystack.SecretKey,
			Timeout:   cfg.Paystack.Timeout,
		})
		if err != nil {
			return nil, err
		}
		registry.gateways[adapter.Name()] = adapter
	}

	return registry, nil
}

// Register adds (or replaces) a gateway. Used by tests to install fakes.
func (r *GatewayRegistry) Register(gateway payment.Gateway) {
	r.gateways[gateway.Name()] = gateway
}

// Get returns the gateway for the specified type
func (r *GatewayRegistry) Get(gatewayType payment.GatewayType) (payment.Gateway, error) {
	if !gatewayType.IsValid() {
		return nil, payment.ErrGatewayNotSupported
	}
	gateway, exists := r.gateways[gatewayType]
	if !exists {
		return nil, payment.ErrGatewayNotConfigured
	}
	return gateway, nil
}

// List returns all registered gateways
func (r *GatewayRegistry) List() []payment.Gateway {
	gateways := make([]payment.Gateway, 0, len(r.gateways))
	for _, g := range r.gateways {
		gateways = append(gateways, g)
	}
	return gateways
}

// Ensure GatewayRegistry implements Registry interface
var _ payment.Registry = (*GatewayRegistry)(nil)
