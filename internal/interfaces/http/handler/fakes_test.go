package handler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
)

// stubProductRepo serves canned products and low-stock rows
type stubProductRepo struct {
	byCode   map[string]*catalog.Product
	lowStock []catalog.LowStockProduct
}

func (r *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}

func (r *stubProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	return nil
}

func (r *stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (r *stubProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return 0, nil
}

func (r *stubProductRepo) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	if product, ok := r.byCode[code]; ok {
		return product, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubProductRepo) FindBelowMinStock(ctx context.Context) ([]catalog.LowStockProduct, error) {
	return r.lowStock, nil
}

// stubBatchRepo serves canned batches and records creations
type stubBatchRepo struct {
	created   []*inventory.Batch
	available []inventory.Batch
	expiring  []inventory.Batch
	total     int64
}

func (r *stubBatchRepo) Create(ctx context.Context, batch *inventory.Batch) error {
	r.created = append(r.created, batch)
	return nil
}

func (r *stubBatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	return nil, shared.ErrNotFound
}

func (r *stubBatchRepo) FindByProduct(ctx context.Context, productCode string) ([]inventory.Batch, error) {
	return r.available, nil
}

func (r *stubBatchRepo) ListAvailable(ctx context.Context, productCode string) ([]inventory.Batch, error) {
	return r.available, nil
}

func (r *stubBatchRepo) Reserve(ctx context.Context, batchID uuid.UUID, quantity int64) error {
	return nil
}

func (r *stubBatchRepo) Release(ctx context.Context, batchID uuid.UUID, quantity int64) error {
	return nil
}

func (r *stubBatchRepo) TotalStock(ctx context.Context, productCode string) (int64, error) {
	return r.total, nil
}

func (r *stubBatchRepo) ListExpiring(ctx context.Context, before time.Time) ([]inventory.Batch, error) {
	return r.expiring, nil
}
