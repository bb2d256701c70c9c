// Package notification wires domain events to outbound customer messages.
package notification

import (
	"context"
	"fmt"

	"github.com/markethub/backend/internal/domain/identity"
	"github.com/markethub/backend/internal/domain/notification"
	"github.com/markethub/backend/internal/domain/order"
	"github.com/markethub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderDeliveredHandler emails the customer when the aggregate order reaches
// DELIVERED. Send failures are logged, never propagated.
type OrderDeliveredHandler struct {
	users    identity.UserRepository
	notifier notification.Notifier
	logger   *zap.Logger
}

// NewOrderDeliveredHandler creates the handler
func NewOrderDeliveredHandler(users identity.UserRepository, notifier notification.Notifier, logger *zap.Logger) *OrderDeliveredHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderDeliveredHandler{
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderDeliveredHandler) EventTypes() []string {
	return []string{order.EventTypeOrderDelivered}
}

// Handle sends the delivery notification
func (h *OrderDeliveredHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	delivered, ok := event.(*order.OrderDeliveredEvent)
	if !ok {
		return nil
	}

	user, err := h.users.FindByID(ctx, delivered.UserID)
	if err != nil {
		h.logger.Warn("delivery notification skipped, user lookup failed",
			zap.String("order_reference", delivered.Reference),
			zap.Error(err))
		return nil
	}

	subject := "Your order has been delivered"
	body := fmt.Sprintf("Hello %s, your order %s has been delivered. Thank you for shopping with us.",
		user.FullName(), delivered.Reference)

	if err := h.notifier.Send(ctx, subject, user.Email, body); err != nil {
		h.logger.Warn("delivery notification failed",
			zap.String("order_reference", delivered.Reference),
			zap.Error(err))
	}
	return nil
}

// Ensure OrderDeliveredHandler implements EventHandler
var _ shared.EventHandler = (*OrderDeliveredHandler)(nil)
