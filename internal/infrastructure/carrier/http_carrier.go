package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/markethub/backend/internal/domain/shipping"
	"go.uber.org/zap"
)

const (
	loginPath  = "/api/v1/auth/login"
	ratePath   = "/api/v1/shipments/rate"
	pickupPath = "/api/v1/shipments/pickup"
)

// HTTPCarrier implements the shipping.Carrier port against the logistics
// provider's HTTP API. API tokens live in a TokenCache shared across process
// instances, so concurrent instances reuse one token instead of each keeping
// its own.
type HTTPCarrier struct {
	config     *Config
	tokens     shipping.TokenCache
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPCarrier creates a new carrier adapter
func NewHTTPCarrier(config *Config, tokens shipping.TokenCache, logger *zap.Logger) (*HTTPCarrier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPCarrier{
		config: config,
		tokens: tokens,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// Authenticate returns a cached token when one exists, otherwise logs in and
// caches the fresh token
func (c *HTTPCarrier) Authenticate(ctx context.Context) (string, error) {
	token, err := c.tokens.Get(ctx)
	if err != nil {
		// Cache unavailable: fall through to a direct login
		c.logger.Warn("carrier token cache read failed", zap.Error(err))
	}
	if token != "" {
		return token, nil
	}

	return c.login(ctx)
}

// QuoteRate asks the carrier to price a shipment
func (c *HTTPCarrier) QuoteRate(ctx context.Context, req *shipping.RateRequest) (*shipping.RateResponse, error) {
	payload := ratePayload{
		Sender:    toPartyPayload(req.Sender),
		Recipient: toPartyPayload(req.Recipient),
		Items:     toItemPayloads(req.Items),
	}

	respBody, err := c.doAuthenticated(ctx, ratePath, payload)
	if err != nil {
		return nil, err
	}

	var respData rateResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("%w: %v", shipping.ErrCarrierInvalidResponse, err)
	}
	if !isCarrierSuccess(respData.Status) {
		return nil, fmt.Errorf("%w: %s", shipping.ErrCarrierRequestFailed, respData.Message)
	}

	return &shipping.RateResponse{
		Amount:      respData.Amount,
		Currency:    respData.Currency,
		RawResponse: string(respBody),
	}, nil
}

// SubmitPickup submits a shipment for collection and returns the issued
// waybill
func (c *HTTPCarrier) SubmitPickup(ctx context.Context, req *shipping.PickupRequest) (*shipping.PickupResponse, error) {
	payload := pickupPayload{
		OrderNo:   req.OrderNo,
		Sender:    toPartyPayload(req.Sender),
		Recipient: toPartyPayload(req.Recipient),
		Items:     toItemPayloads(req.Items),
	}

	respBody, err := c.doAuthenticated(ctx, pickupPath, payload)
	if err != nil {
		return nil, err
	}

	var respData pickupResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("%w: %v", shipping.ErrCarrierInvalidResponse, err)
	}
	if !isCarrierSuccess(respData.Status) {
		return nil, fmt.Errorf("%w: %s", shipping.ErrCarrierPickupRejected, respData.Message)
	}
	if respData.WaybillNumber == "" {
		return nil, fmt.Errorf("%w: missing waybill number", shipping.ErrCarrierInvalidResponse)
	}

	return &shipping.PickupResponse{
		TransStatus:   respData.TransStatus,
		WaybillNumber: respData.WaybillNumber,
		RawResponse:   string(respBody),
	}, nil
}

// login exchanges credentials for a token and stores it in the shared cache
func (c *HTTPCarrier) login(ctx context.Context) (string, error) {
	bodyBytes, err := json.Marshal(loginRequest{
		Username: c.config.Username,
		Password: c.config.Password,
	})
	if err != nil {
		return "", fmt.Errorf("carrier: failed to marshal login request: %w", err)
	}

	respBody, status, err := c.post(ctx, loginPath, "", bodyBytes)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", fmt.Errorf("%w: HTTP %d", shipping.ErrCarrierAuthFailed, status)
	}

	var respData loginResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return "", fmt.Errorf("%w: %v", shipping.ErrCarrierInvalidResponse, err)
	}
	if respData.Token == "" {
		return "", fmt.Errorf("%w: %s", shipping.ErrCarrierAuthFailed, respData.Message)
	}

	if err := c.tokens.Set(ctx, respData.Token, c.config.TokenTTL); err != nil {
		c.logger.Warn("carrier token cache write failed", zap.Error(err))
	}

	return respData.Token, nil
}

// doAuthenticated posts with a token, invalidating the cache and logging in
// again once if the provider rejects the token
func (c *HTTPCarrier) doAuthenticated(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("carrier: failed to marshal request: %w", err)
	}

	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	respBody, status, err := c.post(ctx, path, token, bodyBytes)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		// The cached token expired provider-side ahead of our TTL
		if err := c.tokens.Invalidate(ctx); err != nil {
			c.logger.Warn("carrier token cache invalidate failed", zap.Error(err))
		}
		token, err = c.login(ctx)
		if err != nil {
			return nil, err
		}
		respBody, status, err = c.post(ctx, path, token, bodyBytes)
		if err != nil {
			return nil, err
		}
	}

	if status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", shipping.ErrCarrierRequestFailed, status)
	}

	return respBody, nil
}

// post performs one HTTP POST and returns the body and status code
func (c *HTTPCarrier) post(ctx context.Context, path, token string, body []byte) ([]byte, int, error) {
	url := strings.TrimRight(c.config.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("carrier: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", shipping.ErrCarrierRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("carrier: failed to read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

func isCarrierSuccess(status string) bool {
	switch strings.ToLower(status) {
	case "success", "successful", "ok":
		return true
	default:
		return false
	}
}

func toPartyPayload(p shipping.Party) partyPayload {
	return partyPayload{
		Name:    p.Name,
		Phone:   p.Phone,
		Email:   p.Email,
		Address: p.Address,
		City:    p.City,
		State:   p.State,
		Country: p.Country,
	}
}

func toItemPayloads(items []shipping.ShipmentItem) []shipmentItemPayload {
	payloads := make([]shipmentItemPayload, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, shipmentItemPayload{
			Description: item.Description,
			Quantity:    item.Quantity,
			Weight:      item.WeightKG,
			Value:       item.Value,
		})
	}
	return payloads
}

// Ensure HTTPCarrier implements Carrier interface
var _ shipping.Carrier = (*HTTPCarrier)(nil)
