package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// SaleRepository defines persistence operations for sales.
// FindByID and FindAll load detail rows with the header.
type SaleRepository interface {
	Create(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]Sale, error)
}

// OrderRepository defines persistence operations for orders.
// Save persists header and detail rows; SaveWithLock additionally
// performs an optimistic version check so concurrent status changes on
// the same order cannot both win.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	SaveWithLock(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}
