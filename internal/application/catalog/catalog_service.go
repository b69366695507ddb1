package catalog

import (
	"context"
	"strings"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CatalogService exposes read-only views over products and categories.
// Catalog writes belong to an external product-management collaborator;
// this service only serves lookups for the stock workflows.
type CatalogService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	logger     *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products catalog.ProductRepository, categories catalog.CategoryRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// GetProductByCode returns one product by its unique code
func (s *CatalogService) GetProductByCode(ctx context.Context, code string) (*catalog.Product, error) {
	return s.products.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// ListProducts returns a paginated product listing
func (s *CatalogService) ListProducts(ctx context.Context, filter shared.Filter) (shared.Paginated[catalog.Product], error) {
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.Product]{}, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.Product]{}, err
	}
	return shared.NewPaginated(products, total, filter.Page, filter.PageSize), nil
}

// ListCategories returns a paginated category listing
func (s *CatalogService) ListCategories(ctx context.Context, filter shared.Filter) (shared.Paginated[catalog.Category], error) {
	categories, err := s.categories.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.Category]{}, err
	}
	total, err := s.categories.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.Category]{}, err
	}
	return shared.NewPaginated(categories, total, filter.Page, filter.PageSize), nil
}
