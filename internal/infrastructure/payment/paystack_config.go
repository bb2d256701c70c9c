package payment

import (
	"errors"
	"time"
)

// PaystackConfig contains configuration for the Paystack API
type PaystackConfig struct {
	// BaseURL is the API base URL
	BaseURL string
	// SecretKey is the merchant secret key used as a Bearer token
	SecretKey string
	// Timeout bounds each HTTP call to the provider
	Timeout time.Duration
}

// Errors for configuration validation
var (
	ErrPaystackMissingBaseURL   = errors.New("paystack: missing base URL")
	ErrPaystackMissingSecretKey = errors.New("paystack: missing secret key")
)

// Validate validates the configuration
func (c *PaystackConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrPaystackMissingBaseURL
	}
	if c.SecretKey == "" {
		return ErrPaystackMissingSecretKey
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
