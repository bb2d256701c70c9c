package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/order"
	"github.com/markethub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSubOrderRepository implements order.SubOrderRepository using GORM
type GormSubOrderRepository struct {
	db *gorm.DB
}

// NewGormSubOrderRepository creates a new GormSubOrderRepository
func NewGormSubOrderRepository(db *gorm.DB) *GormSubOrderRepository {
	return &GormSubOrderRepository{db: db}
}

// FindByID finds a sub-order by its ID
func (r *GormSubOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.SubOrder, error) {
	var so order.SubOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&so, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &so, nil
}

// FindByParentOrder finds every sub-order of an aggregate order
func (r *GormSubOrderRepository) FindByParentOrder(ctx context.Context, parentOrderID uuid.UUID) ([]order.SubOrder, error) {
	var subOrders []order.SubOrder
	if err := r.db.WithContext(ctx).
		Where("parent_order_id = ?", parentOrderID).
		Order("created_at asc").
		Find(&subOrders).Error; err != nil {
		return nil, err
	}
	return subOrders, nil
}

// FindByReference finds every sub-order sharing a correlation reference
func (r *GormSubOrderRepository) FindByReference(ctx context.Context, reference string) ([]order.SubOrder, error) {
	var subOrders []order.SubOrder
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("created_at asc").
		Find(&subOrders).Error; err != nil {
		return nil, err
	}
	return subOrders, nil
}

// FindByVendor finds sub-orders assigned to a vendor
func (r *GormSubOrderRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]order.SubOrder, error) {
	var subOrders []order.SubOrder
	query := applyFilter(
		r.db.WithContext(ctx).Model(&order.SubOrder{}).Where("vendor_id = ?", vendorID),
		filter,
	)
	if err := query.Preload("Items").Find(&subOrders).Error; err != nil {
		return nil, err
	}
	return subOrders, nil
}

// Save creates or updates a sub-order
func (r *GormSubOrderRepository) Save(ctx context.Context, so *order.SubOrder) error {
	return r.db.WithContext(ctx).Save(so).Error
}

// SaveWithLock saves the sub-order's mutable fields with optimistic locking
func (r *GormSubOrderRepository) SaveWithLock(ctx context.Context, so *order.SubOrder) error {
	currentVersion := so.Version
	so.Version++
	so.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&order.SubOrder{}).
		Where("id = ? AND version = ?", so.ID, currentVersion).
		Updates(map[string]interface{}{
			"status":          so.Status,
			"delivery_status": so.DeliveryStatus,
			"waybill_number":  so.WaybillNumber,
			"shipped_at":      so.ShippedAt,
			"delivered_at":    so.DeliveredAt,
			"version":         so.Version,
			"updated_at":      so.UpdatedAt,
		})
	if result.Error != nil {
		so.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		so.Version = currentVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormSubOrderRepository implements SubOrderRepository
var _ order.SubOrderRepository = (*GormSubOrderRepository)(nil)
