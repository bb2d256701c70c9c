package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/markethub/backend/internal/domain/payment"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaystackAdapter(t *testing.T, baseURL string) *PaystackAdapter {
	adapter, err := NewPaystackAdapter(&PaystackConfig{
		BaseURL:   baseURL,
		SecretKey: "sk_test_paystack",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	return adapter
}

func TestPaystackAdapter_Initialize_AmountInKobo(t *testing.T) {
	var gotBody paystackInitializeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, paystackInitializePath, r.URL.Path)
		assert.Equal(t, "Bearer sk_test_paystack", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]string{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         "REFERENCE12345678",
			},
		})
	}))
	defer server.Close()

	adapter := newPaystackAdapter(t, server.URL)
	resp, err := adapter.Initialize(context.Background(), &payment.InitializeRequest{
		Amount:      valueobject.NewMoneyNGN(decimal.RequireFromString("219.50")),
		Email:       "ada@example.com",
		Reference:   "REFERENCE12345678",
		CallbackURL: "https://shop.example.com/payment/callback",
	})
	require.NoError(t, err)

	// 219.50 NGN => 21950 kobo
	assert.Equal(t, int64(21950), gotBody.Amount)
	assert.Equal(t, "NGN", gotBody.Currency)
	assert.Equal(t, "https://shop.example.com/payment/callback", gotBody.CallbackURL)

	assert.Equal(t, "https://checkout.paystack.com/abc123", resp.RedirectURL)
	assert.Equal(t, "abc123", resp.AccessCode)
	assert.Equal(t, "REFERENCE12345678", resp.ProviderReference)
}

func TestPaystackAdapter_Initialize_ProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Invalid key",
		})
	}))
	defer server.Close()

	adapter := newPaystackAdapter(t, server.URL)
	_, err := adapter.Initialize(context.Background(), &payment.InitializeRequest{
		Amount:    valueobject.NewMoneyNGN(decimal.NewFromInt(100)),
		Email:     "ada@example.com",
		Reference: "REFERENCE12345678",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrGatewayRequestFailed)
	assert.Contains(t, err.Error(), "Invalid key")
}

func TestPaystackAdapter_Verify(t *testing.T) {
	tests := []struct {
		name           string
		providerStatus string
		want           payment.VerificationStatus
	}{
		{name: "success", providerStatus: "success", want: payment.VerificationStatusSuccessful},
		{name: "failed", providerStatus: "failed", want: payment.VerificationStatusFailed},
		{name: "abandoned", providerStatus: "abandoned", want: payment.VerificationStatusFailed},
		{name: "reversed", providerStatus: "reversed", want: payment.VerificationStatusFailed},
		{name: "ongoing maps to pending", providerStatus: "ongoing", want: payment.VerificationStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/transaction/verify/REFERENCE12345678", r.URL.Path)

				json.NewEncoder(w).Encode(map[string]interface{}{
					"status":  true,
					"message": "Verification successful",
					"data": map[string]interface{}{
						"id":        101,
						"status":    tt.providerStatus,
						"amount":    2190000,
						"currency":  "NGN",
						"reference": "REFERENCE12345678",
					},
				})
			}))
			defer server.Close()

			adapter := newPaystackAdapter(t, server.URL)
			resp, err := adapter.Verify(context.Background(), "REFERENCE12345678")
			require.NoError(t, err)

			assert.Equal(t, tt.want, resp.Status)
			// 2190000 kobo => 21900.00 NGN
			assert.True(t, resp.Amount.Amount().Equal(decimal.NewFromInt(21900)))
			assert.Equal(t, "REFERENCE12345678", resp.ProviderReference)
		})
	}
}

func TestPaystackAdapter_Verify_EscapesReference(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "ok",
			"data": map[string]interface{}{
				"status":    "success",
				"amount":    100,
				"reference": "a/b",
			},
		})
	}))
	defer server.Close()

	adapter := newPaystackAdapter(t, server.URL)
	_, err := adapter.Verify(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/transaction/verify/a%2Fb", gotPath)
}

func TestPaystackAdapter_HTTPErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Transaction reference not found",
		})
	}))
	defer server.Close()

	adapter := newPaystackAdapter(t, server.URL)
	_, err := adapter.Verify(context.Background(), "REFERENCE12345678")
	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrGatewayRequestFailed)
	assert.Contains(t, err.Error(), "Transaction reference not found")
}
