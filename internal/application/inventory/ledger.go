package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/catalog"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemRequest is one requested cart line
type ItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
	Discount  decimal.Decimal // percent, optional
}

// ValidatedItem is a cart line that passed validation, carrying the product
// it was validated against
type ValidatedItem struct {
	Product  catalog.Product
	Quantity int
	Discount decimal.Decimal
}

// DiscountedAmount returns the line total after the percentage discount
func (v ValidatedItem) DiscountedAmount() decimal.Decimal {
	gross := v.Product.Price.Mul(decimal.NewFromInt(int64(v.Quantity)))
	return gross.Sub(gross.Mul(v.Discount).Div(decimal.NewFromInt(100)))
}

// Ledger validates and mutates per-product sellable quantity. Validation
// never mutates; reservation is a single atomic all-or-nothing commit.
type Ledger struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewLedger creates a new inventory Ledger
func NewLedger(productRepo catalog.ProductRepository, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Validate checks every requested line against the catalog. All lines must
// pass before anything is reserved; no state changes here.
func (l *Ledger) Validate(ctx context.Context, items []ItemRequest) ([]ValidatedItem, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Checkout requires at least one item")
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
		}
		if item.Discount.IsNegative() || item.Discount.GreaterThan(decimal.NewFromInt(100)) {
			return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100 percent")
		}
		ids = append(ids, item.ProductID)
	}

	products, err := l.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	validated := make([]ValidatedItem, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s does not exist", item.ProductID))
		}
		if !product.IsSellable() {
			return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Product %s is not approved for sale", item.ProductID))
		}
		if item.Quantity > product.SellableQuantity() {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Product %s has %d units available, %d requested", item.ProductID, product.SellableQuantity(), item.Quantity))
		}
		validated = append(validated, ValidatedItem{
			Product:  product,
			Quantity: item.Quantity,
			Discount: item.Discount,
		})
	}

	return validated, nil
}

// Reserve commits the reservation for every validated line in one atomic
// transaction. The conditional update in the repository re-checks sellable
// quantity at commit time, so concurrent checkouts cannot oversell.
func (l *Ledger) Reserve(ctx context.Context, items []ValidatedItem) error {
	reservations := toReservations(items)
	if err := l.productRepo.ReserveStock(ctx, reservations); err != nil {
		l.logger.Warn("inventory reservation failed",
			zap.Int("items", len(reservations)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Release compensates a prior reservation, returning the reserved units to
// sellable stock
func (l *Ledger) Release(ctx context.Context, items []ValidatedItem) error {
	reservations := toReservations(items)
	if err := l.productRepo.ReleaseStock(ctx, reservations); err != nil {
		l.logger.Error("inventory release failed",
			zap.Int("items", len(reservations)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func toReservations(items []ValidatedItem) []catalog.StockReservation {
	reservations := make([]catalog.StockReservation, len(items))
	for i, item := range items {
		reservations[i] = catalog.StockReservation{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
		}
	}
	return reservations
}
