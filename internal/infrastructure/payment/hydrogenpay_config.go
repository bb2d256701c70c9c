package payment

import (
	"errors"
	"time"
)

// HydrogenPayConfig contains configuration for the HydrogenPay API
type HydrogenPayConfig struct {
	// BaseURL is the API base URL
	BaseURL string
	// SecretKey is the merchant secret key used as a Bearer token
	SecretKey string
	// Timeout bounds each HTTP call to the provider
	Timeout time.Duration
}

// Errors for configuration validation
var (
	ErrHydrogenPayMissingBaseURL   = errors.New("hydrogenpay: missing base URL")
	ErrHydrogenPayMissingSecretKey = errors.New("hydrogenpay: missing secret key")
)

// Validate validates the configuration
func (c *HydrogenPayConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrHydrogenPayMissingBaseURL
	}
	if c.SecretKey == "" {
		return ErrHydrogenPayMissingSecretKey
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
