package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/catalog"
	"github.com/markethub/backend/internal/domain/identity"
	"github.com/markethub/backend/internal/domain/notification"
	"github.com/markethub/backend/internal/domain/order"
	"github.com/markethub/backend/internal/domain/payment"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// verifyMaxRetries bounds the backoff retries of provider verify calls
	verifyMaxRetries = 3
)

// Service consumes asynchronous payment and delivery callbacks and advances
// the order state machines. Webhook delivery is at-least-once: every handler
// is idempotent on reference/status no-op checks, and duplicate side effects
// are fenced by the idempotency store.
type Service struct {
	orderRepo       order.OrderRepository
	subOrderRepo    order.SubOrderRepository
	transactionRepo order.TransactionRepository
	productRepo     catalog.ProductRepository
	userRepo        identity.UserRepository
	gateways        payment.Registry
	carrier         shipping.Carrier
	notifier        notification.Notifier
	idempotency     shared.IdempotencyStore
	idempotencyTTL  time.Duration
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// ServiceConfig holds the collaborators of the reconciliation Service
type ServiceConfig struct {
	OrderRepo       order.OrderRepository
	SubOrderRepo    order.SubOrderRepository
	TransactionRepo order.TransactionRepository
	ProductRepo     catalog.ProductRepository
	UserRepo        identity.UserRepository
	Gateways        payment.Registry
	Carrier         shipping.Carrier
	Notifier        notification.Notifier
	Idempotency     shared.IdempotencyStore
	IdempotencyTTL  time.Duration
	EventPublisher  shared.EventPublisher
	Logger          *zap.Logger
}

// NewService creates a new reconciliation Service
func NewService(config ServiceConfig) *Service {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := config.IdempotencyTTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	return &Service{
		orderRepo:       config.OrderRepo,
		subOrderRepo:    config.SubOrderRepo,
		transactionRepo: config.TransactionRepo,
		productRepo:     config.ProductRepo,
		userRepo:        config.UserRepo,
		gateways:        config.Gateways,
		carrier:         config.Carrier,
		notifier:        config.Notifier,
		idempotency:     config.Idempotency,
		idempotencyTTL:  ttl,
		eventPublisher:  config.EventPublisher,
		logger:          logger,
	}
}

// HandlePaymentCallback verifies a provider payment callback by reference
// and, on success, settles the transaction and marks the order (and its
// sub-orders) PAID. Re-delivery of the same callback is a no-op and the
// payment-confirmed notification fires at most once.
func (s *Service) HandlePaymentCallback(ctx context.Context, reference string) error {
	if reference == "" {
		return shared.NewDomainError("INVALID_REFERENCE", "Webhook payload carries no transaction reference")
	}

	txn, err := s.transactionRepo.FindByReference(ctx, reference)
	if err != nil {
		return err
	}

	gateway, err := s.gateways.Get(payment.GatewayType(txn.PaymentGateway))
	if err != nil {
		return shared.NewDomainError("GATEWAY_NOT_SUPPORTED", fmt.Sprintf("Payment gateway %q is not supported", txn.PaymentGateway))
	}

	verifyResp, err := s.verifyWithRetry(ctx, gateway, reference)
	if err != nil {
		s.logger.Warn("payment verification failed",
			zap.String("reference", reference),
			zap.Error(err),
		)
		return shared.NewDomainError("UPSTREAM_FAILURE", "Payment provider verification failed")
	}

	switch verifyResp.Status {
	case payment.VerificationStatusPending:
		// Provider has not settled yet; the next redelivery will retry.
		return nil

	case payment.VerificationStatusFailed:
		return s.applyPaymentFailure(ctx, txn, reference)

	case payment.VerificationStatusSuccessful:
		return s.applyPaymentSuccess(ctx, txn, reference, verifyResp)
	}

	return shared.NewDomainError("UPSTREAM_FAILURE", fmt.Sprintf("Provider returned unknown verification status %q", verifyResp.Status))
}

func (s *Service) applyPaymentFailure(ctx context.Context, txn *order.Transaction, reference string) error {
	if txn.Status == order.TransactionStatusFailed {
		return nil
	}
	if err := txn.MarkFailed(); err != nil {
		return err
	}
	if err := s.transactionRepo.SaveWithLock(ctx, txn); err != nil {
		return err
	}

	o, err := s.orderRepo.FindByReference(ctx, reference)
	if err != nil {
		return err
	}
	if o.Status == order.PaymentStatusPending {
		if err := o.Decline(); err != nil {
			return err
		}
		return s.orderRepo.SaveWithLock(ctx, o)
	}
	return nil
}

func (s *Service) applyPaymentSuccess(ctx context.Context, txn *order.Transaction, reference string, verifyResp *payment.VerifyResponse) error {
	o, err := s.orderRepo.FindByReference(ctx, reference)
	if err != nil {
		return err
	}

	// Idempotency: a second delivery of the same successful callback finds
	// the order already PAID and stops here.
	if o.Status != order.PaymentStatusPending {
		return nil
	}

	if err := txn.MarkSuccessful(verifyResp.ProviderReference); err != nil {
		return err
	}
	if err := s.transactionRepo.SaveWithLock(ctx, txn); err != nil {
		return err
	}

	if err := o.MarkPaid(); err != nil {
		return err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return err
	}

	subOrders, err := s.subOrderRepo.FindByReference(ctx, reference)
	if err != nil {
		return err
	}
	for i := range subOrders {
		so := &subOrders[i]
		if err := so.MarkPaid(); err != nil {
			return err
		}
		if err := s.subOrderRepo.SaveWithLock(ctx, so); err != nil {
			return err
		}
	}

	s.publishEvents(ctx, o.GetDomainEvents())
	o.ClearDomainEvents()

	// The confirmation notification must fire at most once across redeliveries
	// and process instances, so it is fenced by the shared idempotency store.
	if s.firstDelivery(ctx, "payment-confirmed:"+reference) {
		s.notify(ctx, "Payment confirmed",
			o.PersonalInfo.Email,
			fmt.Sprintf("Your payment for order %s was confirmed.", reference))
	}

	s.logger.Info("payment reconciled",
		zap.String("reference", reference),
		zap.String("amount", txn.Amount.String()),
	)

	return nil
}

// HandleDeliveryStatusUpdate applies a vendor's delivery-status change to a
// sub-order. Requires vendor ownership and a confirmed payment. A SHIPPED
// transition submits a carrier pickup first; carrier failure fails the whole
// update and nothing is persisted.
func (s *Service) HandleDeliveryStatusUpdate(ctx context.Context, subOrderID, vendorID uuid.UUID, newStatus order.DeliveryStatus) (*order.SubOrder, error) {
	so, err := s.subOrderRepo.FindByID(ctx, subOrderID)
	if err != nil {
		return nil, err
	}
	if vendorID != uuid.Nil && so.VendorID != vendorID {
		return nil, shared.NewDomainError("FORBIDDEN", "Sub-order belongs to a different vendor")
	}

	if err := so.UpdateDeliveryStatus(newStatus); err != nil {
		return nil, err
	}

	if newStatus == order.DeliveryStatusShipped {
		pickup, err := s.submitPickup(ctx, so)
		if err != nil {
			return nil, err
		}
		so.SetWaybillNumber(pickup.WaybillNumber)
	}

	if err := s.subOrderRepo.SaveWithLock(ctx, so); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, so.GetDomainEvents())
	so.ClearDomainEvents()

	if err := s.reconcileConsensus(ctx, so.ParentOrderID); err != nil {
		// The sub-order update itself succeeded; a lost consensus race will
		// be retried by the next sibling update.
		s.logger.Warn("consensus reconciliation failed",
			zap.String("parent_order_id", so.ParentOrderID.String()),
			zap.Error(err),
		)
	}

	if newStatus == order.DeliveryStatusShipped {
		s.notifyShipment(ctx, so)
	}

	return so, nil
}

// submitPickup synthesizes a carrier pickup request from the sub-order, its
// parent order's address data and the catalog
func (s *Service) submitPickup(ctx context.Context, so *order.SubOrder) (*shipping.PickupResponse, error) {
	parent, err := s.orderRepo.FindByID(ctx, so.ParentOrderID)
	if err != nil {
		return nil, err
	}

	vendor, err := s.userRepo.FindByID(ctx, so.VendorID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, len(so.Items))
	for i, item := range so.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		nameByID[p.ID] = p.Name
	}

	items := make([]shipping.ShipmentItem, len(so.Items))
	for i, item := range so.Items {
		items[i] = shipping.ShipmentItem{
			Description: nameByID[item.ProductID],
			Quantity:    item.Quantity,
			Value:       item.Amount,
			WeightKG:    decimal.Zero,
		}
	}

	req := &shipping.PickupRequest{
		OrderNo: so.Reference,
		Sender: shipping.Party{
			Name:  vendor.FullName(),
			Phone: vendor.Phone,
			Email: vendor.Email,
		},
		Recipient: shipping.Party{
			Name:    parent.PersonalInfo.Name,
			Phone:   parent.PersonalInfo.Phone,
			Email:   parent.PersonalInfo.Email,
			Address: parent.ShippingAddress.Street,
			City:    parent.ShippingAddress.City,
			State:   parent.ShippingAddress.State,
			Country: parent.ShippingAddress.Country,
		},
		Items: items,
	}

	resp, err := s.carrier.SubmitPickup(ctx, req)
	if err != nil {
		s.logger.Warn("carrier pickup submission failed",
			zap.String("sub_order_id", so.ID.String()),
			zap.Error(err),
		)
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", "Carrier failed to accept the pickup request")
	}

	return resp, nil
}

// reconcileConsensus re-evaluates the fan-in gate: the parent order's
// delivery status moves to V only when every sub-order reports V.
func (s *Service) reconcileConsensus(ctx context.Context, parentOrderID uuid.UUID) error {
	siblings, err := s.subOrderRepo.FindByParentOrder(ctx, parentOrderID)
	if err != nil {
		return err
	}

	status, ok := order.ConsensusDeliveryStatus(siblings)
	if !ok {
		return nil
	}

	parent, err := s.orderRepo.FindByID(ctx, parentOrderID)
	if err != nil {
		return err
	}
	if parent.DeliveryStatus == status {
		return nil
	}
	if !parent.DeliveryStatus.CanAdvanceTo(status) {
		return nil
	}

	if err := parent.ApplyConsensusDeliveryStatus(status); err != nil {
		return err
	}
	if err := s.orderRepo.SaveWithLock(ctx, parent); err != nil {
		return err
	}

	s.publishEvents(ctx, parent.GetDomainEvents())
	parent.ClearDomainEvents()

	s.logger.Info("order delivery status advanced by consensus",
		zap.String("order_id", parentOrderID.String()),
		zap.String("delivery_status", status.String()),
	)

	return nil
}

// HandleWebhookBatch runs the payment, shipping and dropshipping
// verification handlers of one batched delivery independently and reports a
// tagged result per handler. One handler's failure never suppresses the rest.
func (s *Service) HandleWebhookBatch(ctx context.Context, req WebhookBatchRequest) BatchResult {
	result := BatchResult{Results: make([]HandlerResult, 0, 3)}

	result.Results = append(result.Results, s.runHandler("payment", func() error {
		if req.Reference == "" {
			return nil
		}
		return s.HandlePaymentCallback(ctx, req.Reference)
	}))

	result.Results = append(result.Results, s.runHandler("shipping", func() error {
		for _, update := range req.DeliveryUpdates {
			if _, err := s.HandleDeliveryStatusUpdate(ctx, update.SubOrderID, update.VendorID, update.DeliveryStatus); err != nil {
				return err
			}
		}
		return nil
	}))

	result.Results = append(result.Results, s.runHandler("dropshipping", func() error {
		if req.Reference == "" {
			return nil
		}
		o, err := s.orderRepo.FindByReference(ctx, req.Reference)
		if err != nil {
			return err
		}
		return s.reconcileConsensus(ctx, o.ID)
	}))

	return result
}

// runHandler executes one batch handler, converting its panic or error into
// a tagged result
func (s *Service) runHandler(name string, fn func() error) (result HandlerResult) {
	result = HandlerResult{Handler: name, Success: true}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("webhook handler panicked",
				zap.String("handler", name),
				zap.Any("panic", r),
			)
			result.Success = false
			result.Error = "internal error"
		}
	}()

	if err := fn(); err != nil {
		s.logger.Warn("webhook handler failed",
			zap.String("handler", name),
			zap.Error(err),
		)
		result.Success = false
		result.Error = safeHandlerError(err)
	}
	return result
}

// safeHandlerError reduces a handler failure to a message safe to echo back
// to the provider. Domain errors carry curated messages; anything else
// (driver, network, provider internals) is replaced with a generic one.
func safeHandlerError(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "internal error"
}

// verifyWithRetry wraps the provider's verify call with bounded exponential
// backoff. Verify is idempotent, so retrying is safe; Initialize never is.
func (s *Service) verifyWithRetry(ctx context.Context, gateway payment.Gateway, reference string) (*payment.VerifyResponse, error) {
	var resp *payment.VerifyResponse
	operation := func() error {
		r, err := gateway.Verify(ctx, reference)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), verifyMaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return resp, nil
}

// firstDelivery marks a side-effect key in the shared idempotency store.
// Store errors fail open: a duplicate notification is preferable to none.
func (s *Service) firstDelivery(ctx context.Context, key string) bool {
	if s.idempotency == nil {
		return true
	}
	newlyMarked, err := s.idempotency.MarkProcessed(ctx, key, s.idempotencyTTL)
	if err != nil {
		s.logger.Warn("idempotency store unavailable", zap.String("key", key), zap.Error(err))
		return true
	}
	return newlyMarked
}

// notifyShipment best-effort notifies the recipient with the waybill number
func (s *Service) notifyShipment(ctx context.Context, so *order.SubOrder) {
	parent, err := s.orderRepo.FindByID(ctx, so.ParentOrderID)
	if err != nil {
		return
	}
	s.notify(ctx, "Your order has shipped",
		parent.PersonalInfo.Email,
		fmt.Sprintf("Part of your order %s has shipped. Waybill number: %s", so.Reference, so.WaybillNumber))
}

// notify sends a fire-and-forget notification; failures are logged and
// swallowed
func (s *Service) notify(ctx context.Context, subject, recipient, body string) {
	if s.notifier == nil || recipient == "" {
		return
	}
	if err := s.notifier.Send(ctx, subject, recipient, body); err != nil {
		s.logger.Warn("notification delivery failed",
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}

func (s *Service) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish reconciliation events", zap.Error(err))
	}
}

// ListVendorSubOrders returns a page of sub-orders assigned to a vendor
func (s *Service) ListVendorSubOrders(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]order.SubOrder, error) {
	return s.subOrderRepo.FindByVendor(ctx, vendorID, filter)
}
