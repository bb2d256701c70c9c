package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
)

// StockReservation is one product-level line of an inventory reservation
type StockReservation struct {
	ProductID uuid.UUID
	Quantity  int
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds all products matching the given IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindByVendor finds products belonging to a vendor
	FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// ReserveStock atomically increments sold_quantity for every reservation
	// inside a single transaction. Each increment is conditional on sufficient
	// sellable quantity; if any line cannot be satisfied the whole transaction
	// rolls back and ErrInsufficientStock is returned.
	ReserveStock(ctx context.Context, reservations []StockReservation) error

	// ReleaseStock decrements sold_quantity for every reservation (floored at
	// zero), compensating a prior ReserveStock.
	ReleaseStock(ctx context.Context, reservations []StockReservation) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
