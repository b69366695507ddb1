package catalog

import (
	"context"

	"github.com/retailpos/backend/internal/domain/shared"
)

// LowStockProduct is a read model joining a product with its aggregate
// remaining stock. Produced by the repository for alert evaluation.
type LowStockProduct struct {
	ProductCode  string
	ProductName  string
	CategoryName string
	CurrentStock int64
	MinStock     int64
}

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	shared.Repository[Product]
	// FindByCode finds a product by its unique code
	FindByCode(ctx context.Context, code string) (*Product, error)
	// FindBelowMinStock returns products whose summed batch stock is
	// strictly below their configured minimum, ordered by product name
	FindBelowMinStock(ctx context.Context) ([]LowStockProduct, error)
}

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	shared.Repository[Category]
}
