package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ledgerOrder is the draw order of the batch ledger: soonest expiry
// first, then earliest arrival, then id as the final tie-break so the
// order is total and stable.
const ledgerOrder = "expiry_date ASC, arrival_date ASC, id ASC"

// GormBatchRepository implements inventory.BatchRepository using GORM.
// Reserve and Release are single conditional UPDATE statements; the
// database row condition is what keeps two racing transactions from
// both succeeding into negative stock.
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// Create persists a new batch
func (r *GormBatchRepository) Create(ctx context.Context, batch *inventory.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	var batch inventory.Batch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByProduct returns all batches of a product, depleted ones
// included, in ledger order
func (r *GormBatchRepository) FindByProduct(ctx context.Context, productCode string) ([]inventory.Batch, error) {
	var batches []inventory.Batch
	if err := r.db.WithContext(ctx).
		Where("product_code = ?", strings.ToUpper(productCode)).
		Order(ledgerOrder).
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// ListAvailable returns the product's batches that still hold stock,
// in ledger order
func (r *GormBatchRepository) ListAvailable(ctx context.Context, productCode string) ([]inventory.Batch, error) {
	var batches []inventory.Batch
	if err := r.db.WithContext(ctx).
		Where("product_code = ? AND remaining_quantity > 0", strings.ToUpper(productCode)).
		Order(ledgerOrder).
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Reserve decrements remaining quantity with a conditional UPDATE that
// only matches while the batch still holds at least quantity units
func (r *GormBatchRepository) Reserve(ctx context.Context, batchID uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Reserve quantity must be positive")
	}

	result := r.db.WithContext(ctx).Model(&inventory.Batch{}).
		Where("id = ? AND remaining_quantity >= ?", batchID, quantity).
		Updates(map[string]interface{}{
			"remaining_quantity": gorm.Expr("remaining_quantity - ?", quantity),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a depleted batch from a missing one
		if _, err := r.FindByID(ctx, batchID); err != nil {
			return err
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// Release increments remaining quantity with a conditional UPDATE
// capped at the initial snapshot
func (r *GormBatchRepository) Release(ctx context.Context, batchID uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
	}

	result := r.db.WithContext(ctx).Model(&inventory.Batch{}).
		Where("id = ? AND remaining_quantity + ? <= initial_quantity", batchID, quantity).
		Updates(map[string]interface{}{
			"remaining_quantity": gorm.Expr("remaining_quantity + ?", quantity),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, batchID); err != nil {
			return err
		}
		return shared.ErrInvalidRelease
	}
	return nil
}

// TotalStock sums remaining quantity across the product's batches.
// Unknown products sum to zero.
func (r *GormBatchRepository) TotalStock(ctx context.Context, productCode string) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&inventory.Batch{}).
		Where("product_code = ?", strings.ToUpper(productCode)).
		Select("COALESCE(SUM(remaining_quantity), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListExpiring returns non-depleted batches expiring on or before the
// given date, in ledger order
func (r *GormBatchRepository) ListExpiring(ctx context.Context, before time.Time) ([]inventory.Batch, error) {
	var batches []inventory.Batch
	if err := r.db.WithContext(ctx).
		Where("remaining_quantity > 0 AND expiry_date <= ?", before).
		Order(ledgerOrder).
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Ensure GormBatchRepository implements BatchRepository
var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
