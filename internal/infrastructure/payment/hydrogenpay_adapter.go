package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/markethub/backend/internal/domain/payment"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
)

const (
	hydrogenInitiatePath = "/bepay/api/v1/merchant/initiate-payment"
	hydrogenConfirmPath  = "/bepay/api/v1/merchant/confirm-payment"

	// hydrogenStatusOK is the provider's status code for an accepted request
	hydrogenStatusOK = "90000"
)

// HydrogenPayAdapter implements the Gateway interface for HydrogenPay
type HydrogenPayAdapter struct {
	config     *HydrogenPayConfig
	httpClient *http.Client
}

// NewHydrogenPayAdapter creates a new HydrogenPay adapter
func NewHydrogenPayAdapter(config *HydrogenPayConfig) (*HydrogenPayAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &HydrogenPayAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Name returns the gateway type
func (a *HydrogenPayAdapter) Name() payment.GatewayType {
	return payment.GatewayTypeHydrogenPay
}

// Initialize creates a charge with HydrogenPay and returns the hosted
// payment page URL
func (a *HydrogenPayAdapter) Initialize(ctx context.Context, req *payment.InitializeRequest) (*payment.InitializeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := hydrogenInitiateRequest{
		Amount:         req.Amount.Amount(),
		Currency:       string(req.Amount.Currency()),
		Email:          req.Email,
		CustomerName:   req.CustomerName,
		TransactionRef: req.Reference,
		CallbackURL:    req.CallbackURL,
	}

	respBody, err := a.doRequest(ctx, hydrogenInitiatePath, body)
	if err != nil {
		return nil, err
	}

	var respData hydrogenInitiateResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("hydrogenpay: failed to parse response: %w", err)
	}

	if respData.StatusCode != hydrogenStatusOK || respData.Data == nil {
		return nil, fmt.Errorf("%w: %s - %s", payment.ErrGatewayRequestFailed, respData.StatusCode, respData.Message)
	}

	return &payment.InitializeResponse{
		RedirectURL:       respData.Data.URL,
		ProviderReference: respData.Data.TransactionRef,
		RawResponse:       string(respBody),
	}, nil
}

// Verify queries HydrogenPay for the charge status by reference
func (a *HydrogenPayAdapter) Verify(ctx context.Context, reference string) (*payment.VerifyResponse, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: empty reference", payment.ErrGatewayRequestFailed)
	}

	respBody, err := a.doRequest(ctx, hydrogenConfirmPath, hydrogenConfirmRequest{TransactionRef: reference})
	if err != nil {
		return nil, err
	}

	var respData hydrogenConfirmResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("hydrogenpay: failed to parse response: %w", err)
	}

	if respData.StatusCode != hydrogenStatusOK || respData.Data == nil {
		return nil, fmt.Errorf("%w: %s - %s", payment.ErrGatewayRequestFailed, respData.StatusCode, respData.Message)
	}

	return &payment.VerifyResponse{
		Status:            mapHydrogenStatus(respData.Data.Status),
		Amount:            valueobject.NewMoneyNGN(respData.Data.Amount),
		ProviderReference: respData.Data.TransactionRef,
		RawResponse:       string(respBody),
	}, nil
}

// doRequest performs an authenticated POST to the HydrogenPay API
func (a *HydrogenPayAdapter) doRequest(ctx context.Context, path string, body interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("hydrogenpay: failed to marshal request: %w", err)
	}

	url := strings.TrimRight(a.config.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("hydrogenpay: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.SecretKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hydrogenpay: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp hydrogenEnvelope
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return nil, fmt.Errorf("%w: %s - %s", payment.ErrGatewayRequestFailed, errResp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", payment.ErrGatewayRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// mapHydrogenStatus maps HydrogenPay transaction status to our status
func mapHydrogenStatus(status string) payment.VerificationStatus {
	switch strings.ToLower(status) {
	case "paid", "success", "successful":
		return payment.VerificationStatusSuccessful
	case "failed", "declined", "cancelled":
		return payment.VerificationStatusFailed
	default:
		return payment.VerificationStatusPending
	}
}

// Ensure HydrogenPayAdapter implements Gateway interface
var _ payment.Gateway = (*HydrogenPayAdapter)(nil)
