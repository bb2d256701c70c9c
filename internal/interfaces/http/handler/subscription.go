package handler

import (
	"github.com/gin-gonic/gin"
	subscriptionapp "github.com/markethub/backend/internal/application/subscription"
	"github.com/markethub/backend/internal/domain/subscription"
	"github.com/markethub/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// SubscriptionHandler handles subscription endpoints
type SubscriptionHandler struct {
	BaseHandler
	subscriptionService *subscriptionapp.Service
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService *subscriptionapp.Service) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// createSubscriptionRequest is the body for creating a subscription
type createSubscriptionRequest struct {
	Type   string          `json:"type" binding:"required,oneof=DAILY WEEKLY MONTHLY"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// Create handles POST /api/v1/subscriptions
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatValidationError(err))
		return
	}

	sub, err := h.subscriptionService.Create(c.Request.Context(), userID, subscription.Type(req.Type), req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sub)
}

// ListMine handles GET /api/v1/subscriptions/me
func (h *SubscriptionHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	subs, err := h.subscriptionService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subs)
}
