package persistence

import (
	"context"

	"github.com/markethub/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormCheckoutUnitOfWork persists the checkout write set in one database
// transaction: the transaction record, the aggregate order with its items,
// and one sub-order per vendor. A failure anywhere rolls everything back, so
// an order can never exist without its transaction or sub-orders.
type GormCheckoutUnitOfWork struct {
	db *gorm.DB
}

// NewGormCheckoutUnitOfWork creates a new GormCheckoutUnitOfWork
func NewGormCheckoutUnitOfWork(db *gorm.DB) *GormCheckoutUnitOfWork {
	return &GormCheckoutUnitOfWork{db: db}
}

// SaveCheckout writes the full checkout unit atomically
func (u *GormCheckoutUnitOfWork) SaveCheckout(ctx context.Context, txn *order.Transaction, o *order.Order, subOrders []*order.SubOrder) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		for _, so := range subOrders {
			// Items are already persisted through the order; only link them.
			items := so.Items
			so.Items = nil
			if err := tx.Create(so).Error; err != nil {
				so.Items = items
				return err
			}
			so.Items = items
			for _, item := range items {
				if err := tx.Model(&order.OrderItem{}).
					Where("id = ?", item.ID).
					Update("sub_order_id", so.ID).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Ensure GormCheckoutUnitOfWork implements CheckoutUnitOfWork
var _ order.CheckoutUnitOfWork = (*GormCheckoutUnitOfWork)(nil)
