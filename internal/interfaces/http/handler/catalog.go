package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appcatalog "github.com/retailpos/backend/internal/application/catalog"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// CatalogHandler handles read-only product and category endpoints
type CatalogHandler struct {
	BaseHandler
	catalog *appcatalog.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *appcatalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID         uuid.UUID       `json:"id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	CategoryID *uuid.UUID      `json:"category_id,omitempty"`
	SellPrice  decimal.Decimal `json:"sell_price"`
	MinStock   int64           `json:"min_stock"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CategoryResponse is the API representation of a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Code:       p.Code,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		SellPrice:  p.SellPrice,
		MinStock:   p.MinStock,
		CreatedAt:  p.CreatedAt,
	}
}

// GetProduct handles GET /products/:code
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProductByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toProductResponse(product))
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	result, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make([]ProductResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toProductResponse(&result.Items[i]))
	}
	h.SuccessWithMeta(c, items, result.Total, filter.Page, filter.PageSize)
}

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	result, err := h.catalog.ListCategories(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make([]CategoryResponse, 0, len(result.Items))
	for _, cat := range result.Items {
		items = append(items, CategoryResponse{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
		})
	}
	h.SuccessWithMeta(c, items, result.Total, filter.Page, filter.PageSize)
}
