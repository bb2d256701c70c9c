package reconcile

import (
	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/order"
)

// PaymentWebhookRequest is the provider-initiated payment callback payload.
// Providers disagree on the field casing, so both spellings bind.
type PaymentWebhookRequest struct {
	TransactionRef  string `json:"TransactionRef" binding:"omitempty,txnref"`
	TransactionRef2 string `json:"transactionRef" binding:"omitempty,txnref"`
	Status          string `json:"status"`
}

// Reference returns whichever reference spelling the provider sent
func (r PaymentWebhookRequest) Reference() string {
	if r.TransactionRef != "" {
		return r.TransactionRef
	}
	return r.TransactionRef2
}

// DeliveryUpdateRequest is one vendor-initiated delivery-status change
type DeliveryUpdateRequest struct {
	SubOrderID     uuid.UUID            `json:"sub_order_id" binding:"required"`
	VendorID       uuid.UUID            `json:"vendor_id"`
	DeliveryStatus order.DeliveryStatus `json:"delivery_status" binding:"required"`
}

// WebhookBatchRequest bundles the independent verification payloads of one
// batched webhook delivery
type WebhookBatchRequest struct {
	Reference       string                  `json:"reference"`
	DeliveryUpdates []DeliveryUpdateRequest `json:"delivery_updates,omitempty"`
}

// HandlerResult is the tagged outcome of one batch handler
type HandlerResult struct {
	Handler string `json:"handler"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BatchResult aggregates every handler outcome of a batch delivery.
// A failed handler never suppresses the others.
type BatchResult struct {
	Results []HandlerResult `json:"results"`
}

// AllSucceeded returns true when every handler in the batch succeeded
func (b BatchResult) AllSucceeded() bool {
	for _, r := range b.Results {
		if !r.Success {
			return false
		}
	}
	return true
}
