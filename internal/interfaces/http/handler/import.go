package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apptrade "github.com/retailpos/backend/internal/application/trade"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader carries the caller's retry-safety token
const IdempotencyKeyHeader = "Idempotency-Key"

// ImportHandler handles bulk import endpoints
type ImportHandler struct {
	BaseHandler
	imports *apptrade.ImportService
}

// NewImportHandler creates a new import handler
func NewImportHandler(imports *apptrade.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// ImportRowRequest is one row of a bulk sales import
type ImportRowRequest struct {
	ProductCode string          `json:"product_code" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Date        string          `json:"date" binding:"required,dateonly"`
}

// ImportSalesRequest is the payload for a bulk sales import
type ImportSalesRequest struct {
	Rows []ImportRowRequest `json:"rows" binding:"required,min=1,dive"`
}

// ImportSales handles POST /imports/sales. Rows are grouped by date and
// each date-group commits or fails independently; the response reports
// the outcome per group.
func (h *ImportHandler) ImportSales(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ImportSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rows := make([]apptrade.ImportRow, 0, len(req.Rows))
	for _, r := range req.Rows {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			h.BadRequest(c, "date must be in YYYY-MM-DD format")
			return
		}
		rows = append(rows, apptrade.ImportRow{
			ProductCode: r.ProductCode,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			Date:        date,
		})
	}

	result, err := h.imports.ImportSales(c.Request.Context(), actor, c.GetHeader(IdempotencyKeyHeader), rows)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}
