package carrier

import "github.com/shopspring/decimal"

// loginRequest is the body for the token endpoint
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type partyPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type shipmentItemPayload struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Weight      decimal.Decimal `json:"weight"`
	Value       decimal.Decimal `json:"value"`
}

type ratePayload struct {
	Sender    partyPayload          `json:"sender"`
	Recipient partyPayload          `json:"recipient"`
	Items     []shipmentItemPayload `json:"items"`
}

type rateResponse struct {
	Status   string          `json:"status"`
	Message  string          `json:"message"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type pickupPayload struct {
	OrderNo   string                `json:"order_no"`
	Sender    partyPayload          `json:"sender"`
	Recipient partyPayload          `json:"recipient"`
	Items     []shipmentItemPayload `json:"items"`
}

type pickupResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	TransStatus   string `json:"trans_status"`
	WaybillNumber string `json:"waybill_number"`
}
