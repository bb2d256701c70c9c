package payment

// paystackInitializeRequest is the body for transaction/initialize.
// Amount is in kobo.
type paystackInitializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// paystackEnvelope wraps every Paystack API response
type paystackEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

type paystackInitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type paystackInitializeResponse struct {
	paystackEnvelope
	Data *paystackInitializeData `json:"data"`
}

type paystackVerifyData struct {
	ID int64 `json:"id"`
	// Status is one of success, failed, abandoned, ongoing, pending, reversed
	Status string `json:"status"`
	// Amount is in kobo
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
	PaidAt    string `json:"paid_at"`
}

type paystackVerifyResponse struct {
	paystackEnvelope
	Data *paystackVerifyData `json:"data"`
}
