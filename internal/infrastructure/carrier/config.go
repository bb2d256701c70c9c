package carrier

import (
	"errors"
	"time"
)

// Config contains configuration for the logistics provider API
type Config struct {
	// BaseURL is the API base URL
	BaseURL string
	// Username is the merchant account username
	Username string
	// Password is the merchant account password
	Password string
	// Timeout bounds each HTTP call to the provider
	Timeout time.Duration
	// TokenTTL is how long an issued token is cached. Kept shorter than the
	// provider-side token lifetime so a cached token is never stale.
	TokenTTL time.Duration
}

// Errors for configuration validation
var (
	ErrCarrierMissingBaseURL     = errors.New("carrier: missing base URL")
	ErrCarrierMissingCredentials = errors.New("carrier: missing credentials")
)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrCarrierMissingBaseURL
	}
	if c.Username == "" || c.Password == "" {
		return ErrCarrierMissingCredentials
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 50 * time.Minute
	}
	return nil
}
