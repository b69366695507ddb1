package trade

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/trade"
)

// memBatchRepo is an in-memory ledger with the same atomic semantics
// as the SQL implementation: reserve and release are
// check-and-mutate under one lock.
type memBatchRepo struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*inventory.Batch

	// beforeReserve, when set, runs before each reserve and can mutate
	// state to simulate a concurrent transaction winning the race
	beforeReserve func(batchID uuid.UUID)
}

func newMemBatchRepo(batches ...*inventory.Batch) *memBatchRepo {
	repo := &memBatchRepo{batches: make(map[uuid.UUID]*inventory.Batch)}
	for _, b := range batches {
		repo.batches[b.ID] = b
	}
	return repo
}

func (r *memBatchRepo) Create(ctx context.Context, batch *inventory.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[batch.ID] = batch
	return nil
}

func (r *memBatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memBatchRepo) FindByProduct(ctx context.Context, productCode string) ([]inventory.Batch, error) {
	return r.list(productCode, false), nil
}

func (r *memBatchRepo) ListAvailable(ctx context.Context, productCode string) ([]inventory.Batch, error) {
	return r.list(productCode, true), nil
}

func (r *memBatchRepo) list(productCode string, availableOnly bool) []inventory.Batch {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]inventory.Batch, 0)
	for _, b := range r.batches {
		if b.ProductCode != strings.ToUpper(productCode) {
			continue
		}
		if availableOnly && !b.HasStock() {
			continue
		}
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ExpiryDate.Equal(result[j].ExpiryDate) {
			return result[i].ExpiryDate.Before(result[j].ExpiryDate)
		}
		if !result[i].ArrivalDate.Equal(result[j].ArrivalDate) {
			return result[i].ArrivalDate.Before(result[j].ArrivalDate)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result
}

func (r *memBatchRepo) Reserve(ctx context.Context, batchID uuid.UUID, quantity int64) error {
	if r.beforeReserve != nil {
		r.beforeReserve(batchID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[batchID]
	if !ok {
		return shared.ErrNotFound
	}
	if b.RemainingQuantity < quantity {
		return shared.ErrInsufficientStock
	}
	b.RemainingQuantity -= quantity
	return nil
}

func (r *memBatchRepo) Release(ctx context.Context, batchID uuid.UUID, quantity int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[batchID]
	if !ok {
		return shared.ErrNotFound
	}
	if b.RemainingQuantity+quantity > b.InitialQuantity {
		return shared.ErrInvalidRelease
	}
	b.RemainingQuantity += quantity
	return nil
}

func (r *memBatchRepo) TotalStock(ctx context.Context, productCode string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, b := range r.batches {
		if b.ProductCode == strings.ToUpper(productCode) {
			total += b.RemainingQuantity
		}
	}
	return total, nil
}

func (r *memBatchRepo) ListExpiring(ctx context.Context, before time.Time) ([]inventory.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.Batch, 0)
	for _, b := range r.batches {
		if b.HasStock() && !b.ExpiryDate.After(before) {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *memBatchRepo) remaining(id uuid.UUID) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[id].RemainingQuantity
}

// memSaleRepo stores sales in memory
type memSaleRepo struct {
	mu         sync.Mutex
	sales      map[uuid.UUID]*trade.Sale
	failCreate bool
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sales: make(map[uuid.UUID]*trade.Sale)}
}

func (r *memSaleRepo) Create(ctx context.Context, sale *trade.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return shared.NewDomainError("INTERNAL_ERROR", "storage unavailable")
	}
	r.sales[sale.ID] = sale
	return nil
}

func (r *memSaleRepo) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *memSaleRepo) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]trade.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		result = append(result, *s)
	}
	return result, nil
}

func (r *memSaleRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sales)), nil
}

func (r *memSaleRepo) FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]trade.Sale, error) {
	all, _ := r.FindAll(ctx, filter)
	result := make([]trade.Sale, 0)
	for _, s := range all {
		if !s.SaleDate.Before(from) && !s.SaleDate.After(to) {
			result = append(result, s)
		}
	}
	return result, nil
}

// memOrderRepo stores orders in memory with an optimistic version check
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*trade.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*trade.Order)}
}

func (r *memOrderRepo) Create(ctx context.Context, order *trade.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *memOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *memOrderRepo) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]trade.Order, 0, len(r.orders))
	for _, o := range r.orders {
		result = append(result, *o)
	}
	return result, nil
}

func (r *memOrderRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *memOrderRepo) SaveWithLock(ctx context.Context, order *trade.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != order.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *memOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

// memProductRepo stores products keyed by code
type memProductRepo struct {
	products map[string]*catalog.Product
}

func newMemProductRepo(products ...*catalog.Product) *memProductRepo {
	repo := &memProductRepo{products: make(map[string]*catalog.Product)}
	for _, p := range products {
		repo.products[p.Code] = p
	}
	return repo
}

func (r *memProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	p, ok := r.products[strings.ToUpper(code)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	result := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		result = append(result, *p)
	}
	return result, nil
}

func (r *memProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	r.products[product.Code] = product
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return shared.ErrNotFound
}

func (r *memProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *memProductRepo) FindBelowMinStock(ctx context.Context) ([]catalog.LowStockProduct, error) {
	return nil, nil
}

// capturingPublisher records published events
type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) byType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range p.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// memIdempotencyStore is a minimal in-memory idempotency store
type memIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{keys: make(map[string]bool)}
}

func (s *memIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *memIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *memIdempotencyStore) Close() error { return nil }
