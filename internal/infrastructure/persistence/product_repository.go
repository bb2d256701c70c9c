package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/catalog"
	"github.com/markethub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds all products matching the given IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	var products []catalog.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByVendor finds products belonging to a vendor
func (r *GormProductRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}).Where("vendor_id = ?", vendorID),
		filter,
	)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// ReserveStock atomically increments sold_quantity per reservation inside a
// single transaction. The sellable-quantity condition is re-checked by the
// database at commit time, so two concurrent reservations can never both
// take the last unit. Any unsatisfiable line rolls back the whole batch.
func (r *GormProductRepository) ReserveStock(ctx context.Context, reservations []catalog.StockReservation) error {
	if len(reservations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, res := range reservations {
			result := tx.Model(&catalog.Product{}).
				Where("id = ? AND quantity - sold_quantity >= ?", res.ProductID, res.Quantity).
				Updates(map[string]interface{}{
					"sold_quantity": gorm.Expr("sold_quantity + ?", res.Quantity),
					"in_stock":      gorm.Expr("quantity - sold_quantity - ? > 0", res.Quantity),
					"updated_at":    time.Now(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrInsufficientStock
			}
		}
		return nil
	})
}

// ReleaseStock decrements sold_quantity per reservation, floored at zero,
// compensating a prior ReserveStock
func (r *GormProductRepository) ReleaseStock(ctx context.Context, reservations []catalog.StockReservation) error {
	if len(reservations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, res := range reservations {
			result := tx.Model(&catalog.Product{}).
				Where("id = ?", res.ProductID).
				Updates(map[string]interface{}{
					"sold_quantity": gorm.Expr("GREATEST(sold_quantity - ?, 0)", res.Quantity),
					"in_stock":      gorm.Expr("quantity - GREATEST(sold_quantity - ?, 0) > 0", res.Quantity),
					"updated_at":    time.Now(),
				})
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&catalog.Product{}),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
