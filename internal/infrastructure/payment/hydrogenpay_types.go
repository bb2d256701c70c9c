package payment

import "github.com/shopspring/decimal"

// hydrogenInitiateRequest is the body for initiate-payment
type hydrogenInitiateRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Email          string          `json:"email"`
	CustomerName   string          `json:"customerName"`
	TransactionRef string          `json:"transactionRef"`
	CallbackURL    string          `json:"callback"`
}

// hydrogenConfirmRequest is the body for confirm-payment
type hydrogenConfirmRequest struct {
	TransactionRef string `json:"transactionRef"`
}

// hydrogenEnvelope wraps every HydrogenPay API response
type hydrogenEnvelope struct {
	StatusCode string `json:"statusCode"`
	Message    string `json:"message"`
}

type hydrogenInitiateData struct {
	TransactionRef string `json:"transactionRef"`
	URL            string `json:"url"`
}

type hydrogenInitiateResponse struct {
	hydrogenEnvelope
	Data *hydrogenInitiateData `json:"data"`
}

type hydrogenConfirmData struct {
	ID             string          `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	TransactionRef string          `json:"transactionRef"`
}

type hydrogenConfirmResponse struct {
	hydrogenEnvelope
	Data *hydrogenConfirmData `json:"data"`
}
