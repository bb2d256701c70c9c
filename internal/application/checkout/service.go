package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/application/inventory"
	"github.com/markethub/backend/internal/domain/identity"
	"github.com/markethub/backend/internal/domain/order"
	"github.com/markethub/backend/internal/domain/payment"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
	"github.com/markethub/backend/internal/domain/subscription"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// vatRate is the statutory VAT applied to the product subtotal
var vatRate = decimal.NewFromFloat(0.07)

// Service turns a cart into a priced, persisted multi-vendor order plus a
// payment attempt. The write set (transaction, order, sub-orders) lands in
// one database transaction; inventory reservation and the provider call
// each have a compensation path.
type Service struct {
	ledger           *inventory.Ledger
	userRepo         identity.UserRepository
	subscriptionRepo subscription.Repository
	orderRepo        order.OrderRepository
	transactionRepo  order.TransactionRepository
	checkoutUoW      order.CheckoutUnitOfWork
	gateways         payment.Registry
	eventPublisher   shared.EventPublisher
	callbackURL      string
	logger           *zap.Logger
}

// ServiceConfig holds the collaborators of the checkout Service
type ServiceConfig struct {
	Ledger           *inventory.Ledger
	UserRepo         identity.UserRepository
	SubscriptionRepo subscription.Repository
	OrderRepo        order.OrderRepository
	TransactionRepo  order.TransactionRepository
	CheckoutUoW      order.CheckoutUnitOfWork
	Gateways         payment.Registry
	EventPublisher   shared.EventPublisher
	CallbackURL      string
	Logger           *zap.Logger
}

// NewService creates a new checkout Service
func NewService(config ServiceConfig) *Service {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ledger:           config.Ledger,
		userRepo:         config.UserRepo,
		subscriptionRepo: config.SubscriptionRepo,
		orderRepo:        config.OrderRepo,
		transactionRepo:  config.TransactionRepo,
		checkoutUoW:      config.CheckoutUoW,
		gateways:         config.Gateways,
		eventPublisher:   config.EventPublisher,
		callbackURL:      config.CallbackURL,
		logger:           logger,
	}
}

// Checkout processes a checkout request end to end:
// validate items, resolve the buyer, price the cart, persist the write set
// atomically, reserve inventory, then initialize the payment. Any failure
// after persistence is compensated before the error surfaces.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error) {
	gatewayType := payment.GatewayType(req.PaymentGateway)
	gateway, err := s.gateways.Get(gatewayType)
	if err != nil {
		return nil, shared.NewDomainError("GATEWAY_NOT_SUPPORTED", fmt.Sprintf("Payment gateway %q is not supported", req.PaymentGateway))
	}
	if req.ShippingFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_FEE", "Shipping fee cannot be negative")
	}

	items := make([]inventory.ItemRequest, len(req.Products))
	for i, p := range req.Products {
		discount := decimal.Zero
		if p.Discount != nil {
			discount = *p.Discount
		}
		items[i] = inventory.ItemRequest{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Discount:  discount,
		}
	}

	validated, err := s.ledger.Validate(ctx, items)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalProduct := decimal.Zero
	for _, v := range validated {
		totalProduct = totalProduct.Add(v.DiscountedAmount())
	}

	subscriptionFee := decimal.Zero
	var subType subscription.Type
	if req.SubscriptionDetails != nil {
		subType = subscription.Type(req.SubscriptionDetails.Type)
		if !subType.IsValid() {
			return nil, shared.NewDomainError("INVALID_SUBSCRIPTION_TYPE", fmt.Sprintf("Unknown subscription type %q", req.SubscriptionDetails.Type))
		}
		// The fee requires an existing INACTIVE subscription record for the
		// user. Preserved from the established business rule as-is.
		existing, err := s.subscriptionRepo.FindByUserAndStatus(ctx, userID, subscription.StatusInactive)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, shared.NewDomainError("SUBSCRIPTION_NOT_FOUND", "No subscription record exists for this user")
		}
		if req.SubscriptionDetails.Fee.IsNegative() {
			return nil, shared.NewDomainError("INVALID_SUBSCRIPTION_FEE", "Subscription fee cannot be negative")
		}
		subscriptionFee = req.SubscriptionDetails.Fee
		totalProduct = totalProduct.Add(subscriptionFee)
	}

	vat := totalProduct.Mul(vatRate).Round(2)
	amount := totalProduct.Add(vat).Add(req.ShippingFee).Round(2)

	reference, err := order.GenerateReference()
	if err != nil {
		return nil, err
	}

	txn, err := order.NewTransaction(
		reference,
		gatewayType.String(),
		valueobject.NewMoneyNGN(amount),
		valueobject.NewMoneyNGN(totalProduct),
		valueobject.NewMoneyNGN(req.ShippingFee),
		valueobject.NewMoneyNGN(vat),
	)
	if err != nil {
		return nil, err
	}

	o, err := s.buildOrder(reference, userID, req, validated, txn.ID, amount, vat, subscriptionFee)
	if err != nil {
		return nil, err
	}

	subOrders, err := s.buildSubOrders(o, amount.Sub(subscriptionFee))
	if err != nil {
		return nil, err
	}

	if err := s.checkoutUoW.SaveCheckout(ctx, txn, o, subOrders); err != nil {
		return nil, fmt.Errorf("failed to persist checkout: %w", err)
	}

	if req.SubscriptionDetails != nil {
		sub, err := subscription.NewSubscription(userID, subType, valueobject.NewMoneyNGN(subscriptionFee), reference)
		if err != nil {
			s.compensate(ctx, o, txn, nil)
			return nil, err
		}
		if err := s.subscriptionRepo.Save(ctx, sub); err != nil {
			s.compensate(ctx, o, txn, nil)
			return nil, err
		}
	}

	if err := s.ledger.Reserve(ctx, validated); err != nil {
		s.compensate(ctx, o, txn, nil)
		return nil, err
	}

	callbackURL := req.CallbackURL
	if callbackURL == "" {
		callbackURL = s.callbackURL
	}

	initResp, err := gateway.Initialize(ctx, &payment.InitializeRequest{
		Amount:       valueobject.NewMoneyNGN(amount),
		Email:        user.Email,
		CustomerName: user.FullName(),
		Reference:    reference,
		CallbackURL:  callbackURL,
	})
	if err != nil {
		s.compensate(ctx, o, txn, validated)
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", "Payment provider failed to initialize the charge")
	}

	s.publishEvents(ctx, o)

	s.logger.Info("checkout completed",
		zap.String("reference", reference),
		zap.String("user_id", userID.String()),
		zap.String("gateway", gatewayType.String()),
		zap.Int("sub_orders", len(subOrders)),
	)

	return &CheckoutResponse{
		Order: o,
		PaymentResponse: PaymentResponse{
			RedirectURL:       initResp.RedirectURL,
			AccessCode:        initResp.AccessCode,
			ProviderReference: initResp.ProviderReference,
		},
	}, nil
}

// buildOrder assembles the aggregate order with priced line items
func (s *Service) buildOrder(reference string, userID uuid.UUID, req CheckoutRequest, validated []inventory.ValidatedItem, transactionID uuid.UUID, amount, vat, subscriptionFee decimal.Decimal) (*order.Order, error) {
	o, err := order.NewOrder(
		reference,
		userID,
		req.PaymentGateway,
		req.ShippingMethod,
		req.ShippingAddress.ToAddress(),
		order.PersonalInfo{
			Name:  req.PersonalInfo.Name,
			Email: req.PersonalInfo.Email,
			Phone: req.PersonalInfo.Phone,
		},
	)
	if err != nil {
		return nil, err
	}
	if req.BillingAddress != nil {
		o.SetBillingAddress(req.BillingAddress.ToAddress())
	}

	for _, v := range validated {
		if _, err := o.AddItem(v.Product.ID, v.Product.VendorID, v.Quantity, v.Product.PriceMoney(), v.Discount); err != nil {
			return nil, err
		}
	}

	if err := o.SetAmounts(
		valueobject.NewMoneyNGN(amount),
		valueobject.NewMoneyNGN(vat),
		valueobject.NewMoneyNGN(req.ShippingFee),
		valueobject.NewMoneyNGN(subscriptionFee),
	); err != nil {
		return nil, err
	}
	if err := o.AttachTransaction(transactionID); err != nil {
		return nil, err
	}

	return o, nil
}

// buildSubOrders splits the order into one sub-order per distinct vendor.
// Each sub-order's amount is the vendor's proportional share of the
// allocatable total (charge amount minus subscription fee), weighted by the
// vendor's discounted item subtotal; the shares sum exactly.
func (s *Service) buildSubOrders(o *order.Order, allocatable decimal.Decimal) ([]*order.SubOrder, error) {
	vendorIDs := o.VendorIDs()

	weights := make([]decimal.Decimal, len(vendorIDs))
	itemsByVendor := make([][]order.OrderItem, len(vendorIDs))
	for i, vendorID := range vendorIDs {
		items := o.ItemsForVendor(vendorID)
		subtotal := decimal.Zero
		for _, item := range items {
			subtotal = subtotal.Add(item.Amount)
		}
		weights[i] = subtotal
		itemsByVendor[i] = items
	}

	shares, err := valueobject.NewMoneyNGN(allocatable).AllocateByWeights(weights)
	if err != nil {
		return nil, err
	}

	subOrders := make([]*order.SubOrder, len(vendorIDs))
	for i, vendorID := range vendorIDs {
		so, err := order.NewSubOrder(o, vendorID, itemsByVendor[i], shares[i])
		if err != nil {
			return nil, err
		}
		subOrders[i] = so
	}

	return subOrders, nil
}

// compensate unwinds a checkout that failed after persistence: the order and
// transaction are marked FAILED and any reservation is released. Compensation
// errors are logged, not propagated; the original failure wins.
func (s *Service) compensate(ctx context.Context, o *order.Order, txn *order.Transaction, reserved []inventory.ValidatedItem) {
	if len(reserved) > 0 {
		if err := s.ledger.Release(ctx, reserved); err != nil {
			s.logger.Error("compensation: failed to release reservation",
				zap.String("reference", o.Reference),
				zap.Error(err),
			)
		}
	}
	if err := o.MarkFailed(); err == nil {
		if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
			s.logger.Error("compensation: failed to mark order failed",
				zap.String("reference", o.Reference),
				zap.Error(err),
			)
		}
	}
	if err := txn.MarkFailed(); err == nil {
		if err := s.transactionRepo.SaveWithLock(ctx, txn); err != nil {
			s.logger.Error("compensation: failed to mark transaction failed",
				zap.String("reference", txn.Reference),
				zap.Error(err),
			)
		}
	}
}

// publishEvents drains and publishes the order's pending domain events
func (s *Service) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish checkout events", zap.Error(err))
	}
	o.ClearDomainEvents()
}

// GetOrder returns an order by ID
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// GetOrderByReference returns an order by its correlation reference
func (s *Service) GetOrderByReference(ctx context.Context, reference string) (*order.Order, error) {
	return s.orderRepo.FindByReference(ctx, reference)
}

// ListOrders returns a page of orders placed by a user
func (s *Service) ListOrders(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	return s.orderRepo.FindByUser(ctx, userID, filter)
}
