package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/markethub/backend/internal/domain/payment"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
)

const (
	paystackInitializePath = "/transaction/initialize"
	paystackVerifyPath     = "/transaction/verify/%s"
)

// PaystackAdapter implements the Gateway interface for Paystack
type PaystackAdapter struct {
	config     *PaystackConfig
	httpClient *http.Client
}

// NewPaystackAdapter creates a new Paystack adapter
func NewPaystackAdapter(config *PaystackConfig) (*PaystackAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &PaystackAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Name returns the gateway type
func (a *PaystackAdapter) Name() payment.GatewayType {
	return payment.GatewayTypePaystack
}

// Initialize creates a charge with Paystack and returns the authorization URL
func (a *PaystackAdapter) Initialize(ctx context.Context, req *payment.InitializeRequest) (*payment.InitializeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := paystackInitializeRequest{
		Email:       req.Email,
		Amount:      req.Amount.Kobo(),
		Currency:    string(req.Amount.Currency()),
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, paystackInitializePath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var respData paystackInitializeResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse response: %w", err)
	}

	if !respData.Status || respData.Data == nil {
		return nil, fmt.Errorf("%w: %s", payment.ErrGatewayRequestFailed, respData.Message)
	}

	return &payment.InitializeResponse{
		RedirectURL:       respData.Data.AuthorizationURL,
		AccessCode:        respData.Data.AccessCode,
		ProviderReference: respData.Data.Reference,
		RawResponse:       string(respBody),
	}, nil
}

// Verify queries Paystack for the charge status by reference
func (a *PaystackAdapter) Verify(ctx context.Context, reference string) (*payment.VerifyResponse, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: empty reference", payment.ErrGatewayRequestFailed)
	}

	path := fmt.Sprintf(paystackVerifyPath, url.PathEscape(reference))

	respBody, err := a.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var respData paystackVerifyResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse response: %w", err)
	}

	if !respData.Status || respData.Data == nil {
		return nil, fmt.Errorf("%w: %s", payment.ErrGatewayRequestFailed, respData.Message)
	}

	return &payment.VerifyResponse{
		Status:            mapPaystackStatus(respData.Data.Status),
		Amount:            valueobject.NewMoneyNGNFromKobo(respData.Data.Amount),
		ProviderReference: respData.Data.Reference,
		RawResponse:       string(respBody),
	}, nil
}

// doRequest performs an authenticated HTTP request to the Paystack API
func (a *PaystackAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	fullURL := strings.TrimRight(a.config.BaseURL, "/") + path

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to create request: %w", err)
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
		return nil, fmt.Errorf("paystack: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp paystackEnvelope
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return nil, fmt.Errorf("%w: %s", payment.ErrGatewayRequestFailed, errResp.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", payment.ErrGatewayRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// mapPaystackStatus maps Paystack transaction status to our status
func mapPaystackStatus(status string) payment.VerificationStatus {
	switch strings.ToLower(status) {
	case "success":
		return payment.VerificationStatusSuccessful
	case "failed", "abandoned", "reversed":
		return payment.VerificationStatusFailed
	default:
		return payment.VerificationStatusPending
	}
}

// Ensure PaystackAdapter implements Gateway interface
var _ payment.Gateway = (*PaystackAdapter)(nil)
