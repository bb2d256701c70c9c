package carrier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/markethub/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokenCache struct {
	mu    sync.Mutex
	token string

	gets        int
	sets        int
	invalidates int
}

func (c *memTokenCache) Get(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.token, nil
}

func (c *memTokenCache) Set(_ context.Context, token string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.token = token
	return nil
}

func (c *memTokenCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidates++
	c.token = ""
	return nil
}

// carrierServer is a scripted stub of the logistics provider API
type carrierServer struct {
	*httptest.Server

	mu           sync.Mutex
	logins       int
	pickups      int
	validTokens  map[string]bool
	nextToken    string
	pickupStatus string
	waybill      string
}

func newCarrierServer(t *testing.T) *carrierServer {
	cs := &carrierServer{
		validTokens:  make(map[string]bool),
		nextToken:    "token-1",
		pickupStatus: "Successful",
		waybill:      "WB-0001",
	}

	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		defer cs.mu.Unlock()

		switch r.URL.Path {
		case loginPath:
			var body loginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body.Username != "merchant" || body.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"status": "failed", "message": "bad credentials"})
				return
			}
			cs.logins++
			token := cs.nextToken
			cs.validTokens[token] = true
			json.NewEncoder(w).Encode(map[string]string{"status": "success", "token": token})

		case pickupPath:
			token := r.Header.Get("Authorization")
			if len(token) < 8 || !cs.validTokens[token[len("Bearer "):]] {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			cs.pickups++
			json.NewEncoder(w).Encode(map[string]string{
				"status":         cs.pickupStatus,
				"trans_status":   cs.pickupStatus,
				"waybill_number": cs.waybill,
			})

		case ratePath:
			token := r.Header.Get("Authorization")
			if len(token) < 8 || !cs.validTokens[token[len("Bearer "):]] {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":   "success",
				"amount":   1500.50,
				"currency": "NGN",
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	t.Cleanup(cs.Close)
	return cs
}

func newTestCarrier(t *testing.T, baseURL string, tokens shipping.TokenCache) *HTTPCarrier {
	c, err := NewHTTPCarrier(&Config{
		BaseURL:  baseURL,
		Username: "merchant",
		Password: "secret",
		Timeout:  5 * time.Second,
		TokenTTL: time.Minute,
	}, tokens, nil)
	require.NoError(t, err)
	return c
}

func pickupRequest() *shipping.PickupRequest {
	return &shipping.PickupRequest{
		OrderNo: "REFERENCE12345678",
		Sender:  shipping.Party{Name: "Vendor One", Phone: "+2348111111111", Email: "vendor@example.com"},
		Recipient: shipping.Party{
			Name: "Ada Obi", Phone: "+2348000000000", Email: "ada@example.com",
			Address: "12 Broad Street", City: "Lagos", State: "Lagos", Country: "NG",
		},
		Items: []shipping.ShipmentItem{
			{Description: "Widget", Quantity: 1, Value: decimal.NewFromInt(5000)},
		},
	}
}

func TestNewHTTPCarrier_ConfigValidation(t *testing.T) {
	_, err := NewHTTPCarrier(&Config{Username: "u", Password: "p"}, &memTokenCache{}, nil)
	assert.ErrorIs(t, err, ErrCarrierMissingBaseURL)

	_, err = NewHTTPCarrier(&Config{BaseURL: "https://api.example.com"}, &memTokenCache{}, nil)
	assert.ErrorIs(t, err, ErrCarrierMissingCredentials)
}

func TestAuthenticate_CachesToken(t *testing.T) {
	server := newCarrierServer(t)
	cache := &memTokenCache{}
	carrier := newTestCarrier(t, server.URL, cache)
	ctx := context.Background()

	token, err := carrier.Authenticate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, 1, server.logins)
	assert.Equal(t, 1, cache.sets)

	// Second call hits the cache, no new login
	token, err = carrier.Authenticate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, 1, server.logins)
}

func TestSubmitPickup(t *testing.T) {
	server := newCarrierServer(t)
	carrier := newTestCarrier(t, server.URL, &memTokenCache{})

	resp, err := carrier.SubmitPickup(context.Background(), pickupRequest())
	require.NoError(t, err)
	assert.Equal(t, "WB-0001", resp.WaybillNumber)
	assert.Equal(t, "Successful", resp.TransStatus)
	assert.NotEmpty(t, resp.RawResponse)
}

func TestSubmitPickup_ExpiredTokenRetriesOnce(t *testing.T) {
	server := newCarrierServer(t)
	cache := &memTokenCache{token: "stale-token"}
	carrier := newTestCarrier(t, server.URL, cache)

	// The provider no longer recognizes stale-token; the adapter must
	// invalidate the cache, log in fresh and replay the pickup once.
	server.nextToken = "token-2"

	resp, err := carrier.SubmitPickup(context.Background(), pickupRequest())
	require.NoError(t, err)
	assert.Equal(t, "WB-0001", resp.WaybillNumber)
	assert.Equal(t, 1, cache.invalidates)
	assert.Equal(t, 1, server.logins)
	assert.Equal(t, 1, server.pickups)
	assert.Equal(t, "token-2", cache.token)
}

func TestSubmitPickup_Rejected(t *testing.T) {
	server := newCarrierServer(t)
	server.pickupStatus = "Rejected"
	carrier := newTestCarrier(t, server.URL, &memTokenCache{})

	_, err := carrier.SubmitPickup(context.Background(), pickupRequest())
	assert.ErrorIs(t, err, shipping.ErrCarrierPickupRejected)
}

func TestSubmitPickup_MissingWaybill(t *testing.T) {
	server := newCarrierServer(t)
	server.waybill = ""
	carrier := newTestCarrier(t, server.URL, &memTokenCache{})

	_, err := carrier.SubmitPickup(context.Background(), pickupRequest())
	assert.ErrorIs(t, err, shipping.ErrCarrierInvalidResponse)
}

func TestQuoteRate(t *testing.T) {
	server := newCarrierServer(t)
	carrier := newTestCarrier(t, server.URL, &memTokenCache{})

	req := pickupRequest()
	resp, err := carrier.QuoteRate(context.Background(), &shipping.RateRequest{
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Items:     req.Items,
	})
	require.NoError(t, err)
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("1500.5")))
	assert.Equal(t, "NGN", resp.Currency)
}

func TestLogin_BadCredentials(t *testing.T) {
	server := newCarrierServer(t)
	c, err := NewHTTPCarrier(&Config{
		BaseURL:  server.URL,
		Username: "merchant",
		Password: "wrong",
		Timeout:  5 * time.Second,
	}, &memTokenCache{}, nil)
	require.NoError(t, err)

	_, err = c.Authenticate(context.Background())
	assert.ErrorIs(t, err, shipping.ErrCarrierAuthFailed)
}
