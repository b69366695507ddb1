package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/trade"
	"gorm.io/gorm"
)

var saleSortFields = mergeSortFields("sale_number", "sale_date", "total_amount", "cashier_name")

// GormSaleRepository implements SaleRepository using GORM.
// Sales are immutable once committed, so the repository only ever
// creates and reads.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Create persists a sale header together with its detail rows
func (r *GormSaleRepository) Create(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

// FindByID finds a sale by its ID, detail rows included
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Details").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds all sales matching the filter, detail rows included
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Sale, error) {
	var sales []trade.Sale
	query := r.applySearch(r.db.WithContext(ctx).Model(&trade.Sale{}), filter)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, saleSortFields, "sale_date")

	if err := query.Preload("Details").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&trade.Sale{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByDateRange finds sales whose sale date falls within [from, to]
func (r *GormSaleRepository) FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]trade.Sale, error) {
	var sales []trade.Sale
	query := r.db.WithContext(ctx).Model(&trade.Sale{}).
		Where("sale_date >= ? AND sale_date <= ?", from, to)
	query = r.applySearch(query, filter)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, saleSortFields, "sale_date")

	if err := query.Preload("Details").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *GormSaleRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("sale_number ILIKE ? OR cashier_name ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "cashier_id":
			query = query.Where("cashier_id = ?", value)
		case "sale_number":
			query = query.Where("sale_number = ?", value)
		}
	}
	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ trade.SaleRepository = (*GormSaleRepository)(nil)
