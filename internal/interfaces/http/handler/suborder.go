package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reconcileapp "github.com/markethub/backend/internal/application/reconcile"
	"github.com/markethub/backend/internal/domain/identity"
	"github.com/markethub/backend/internal/domain/order"
	"github.com/markethub/backend/internal/interfaces/http/dto"
	"github.com/markethub/backend/internal/interfaces/http/middleware"
)

// SubOrderHandler handles vendor-facing sub-order endpoints
type SubOrderHandler struct {
	BaseHandler
	reconcileService *reconcileapp.Service
}

// NewSubOrderHandler creates a new SubOrderHandler
func NewSubOrderHandler(reconcileService *reconcileapp.Service) *SubOrderHandler {
	return &SubOrderHandler{reconcileService: reconcileService}
}

// deliveryStatusRequest is the body for a delivery-status update
type deliveryStatusRequest struct {
	DeliveryStatus string `json:"delivery_status" binding:"required"`
}

// ListMine handles GET /api/v1/vendors/me/sub-orders
func (h *SubOrderHandler) ListMine(c *gin.Context) {
	vendorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, middleware.FormatValidationError(err))
		return
	}

	subOrders, err := h.reconcileService.ListVendorSubOrders(c.Request.Context(), vendorID, toFilter(listReq))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subOrders)
}

// UpdateDeliveryStatus handles PATCH /api/v1/sub-orders/:id/delivery-status.
// Vendors may only move their own sub-orders; admins may move any.
func (h *SubOrderHandler) UpdateDeliveryStatus(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	subOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sub-order ID")
		return
	}

	var req deliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatValidationError(err))
		return
	}

	// Admin updates bypass the ownership check
	vendorID := actorID
	if middleware.GetJWTRole(c) == string(identity.RoleAdmin) {
		vendorID = uuid.Nil
	}

	so, err := h.reconcileService.HandleDeliveryStatusUpdate(
		c.Request.Context(), subOrderID, vendorID, order.DeliveryStatus(req.DeliveryStatus))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, so)
}
