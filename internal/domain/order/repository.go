package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
)

// OrderRepository defines the interface for aggregate order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByReference finds an order by its correlation reference
	FindByReference(ctx context.Context, reference string) (*Order, error)

	// FindByUser finds orders placed by a user
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check).
	// Returns ErrConcurrencyConflict when a concurrent writer won the race.
	SaveWithLock(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// SubOrderRepository defines the interface for sub-order persistence
type SubOrderRepository interface {
	// FindByID finds a sub-order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SubOrder, error)

	// FindByParentOrder finds every sub-order of an aggregate order
	FindByParentOrder(ctx context.Context, parentOrderID uuid.UUID) ([]SubOrder, error)

	// FindByReference finds every sub-order sharing a correlation reference
	FindByReference(ctx context.Context, reference string) ([]SubOrder, error)

	// FindByVendor finds sub-orders assigned to a vendor
	FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]SubOrder, error)

	// Save creates or updates a sub-order
	Save(ctx context.Context, subOrder *SubOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, subOrder *SubOrder) error
}

// TransactionRepository defines the interface for payment-transaction persistence
type TransactionRepository interface {
	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindByReference finds the transaction for a correlation reference
	FindByReference(ctx context.Context, reference string) (*Transaction, error)

	// Save creates or updates a transaction
	Save(ctx context.Context, transaction *Transaction) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, transaction *Transaction) error
}

// CheckoutUnitOfWork persists the full checkout write set (transaction,
// order, sub-orders) atomically: either everything lands or nothing does.
type CheckoutUnitOfWork interface {
	SaveCheckout(ctx context.Context, txn *Transaction, o *Order, subOrders []*SubOrder) error
}
