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

// GormTransactionRepository implements order.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Transaction, error) {
	var txn order.Transaction
	if err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindByReference finds the transaction for a correlation reference
func (r *GormTransactionRepository) FindByReference(ctx context.Context, reference string) (*order.Transaction, error) {
	var txn order.Transaction
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, txn *order.Transaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

// SaveWithLock saves the transaction's settlement fields with optimistic locking
func (r *GormTransactionRepository) SaveWithLock(ctx context.Context, txn *order.Transaction) error {
	currentVersion := txn.Version
	txn.Version++
	txn.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&order.Transaction{}).
		Where("id = ? AND version = ?", txn.ID, currentVersion).
		Updates(map[string]interface{}{
			"status":            txn.Status,
			"payment_reference": txn.PaymentReference,
			"settled_at":        txn.SettledAt,
			"version":           txn.Version,
			"updated_at":        txn.UpdatedAt,
		})
	if result.Error != nil {
		txn.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		txn.Version = currentVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ order.TransactionRepository = (*GormTransactionRepository)(nil)
