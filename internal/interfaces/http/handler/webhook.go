package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	reconcileapp "github.com/markethub/backend/internal/application/reconcile"
	"go.uber.org/zap"
)

// WebhookHandler handles provider-called webhook endpoints. Responses are a
// generic acknowledgement: providers retry on failure and must never see
// internal detail.
type WebhookHandler struct {
	BaseHandler
	reconcileService *reconcileapp.Service
	logger           *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(reconcileService *reconcileapp.Service, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		reconcileService: reconcileService,
		logger:           logger,
	}
}

// PaymentCallback handles POST /api/v1/webhooks/payment
func (h *WebhookHandler) PaymentCallback(c *gin.Context) {
	var req reconcileapp.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "rejected"})
		return
	}

	reference := req.Reference()
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "rejected"})
		return
	}

	if err := h.reconcileService.HandlePaymentCallback(c.Request.Context(), reference); err != nil {
		h.logger.Warn("payment callback processing failed",
			zap.String("reference", reference),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Batch handles POST /api/v1/webhooks/batch. Every handler runs regardless
// of earlier failures; the response aggregates per-handler outcomes.
func (h *WebhookHandler) Batch(c *gin.Context) {
	var req reconcileapp.WebhookBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "rejected"})
		return
	}

	result := h.reconcileService.HandleWebhookBatch(c.Request.Context(), req)

	status := http.StatusOK
	if !result.AllSucceeded() {
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}
