package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apptrade "github.com/retailpos/backend/internal/application/trade"
	"github.com/retailpos/backend/internal/domain/trade"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// dateLayout is the wire format for business dates
const dateLayout = "2006-01-02"

// SaleHandler handles sale endpoints
type SaleHandler struct {
	BaseHandler
	sales *apptrade.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(sales *apptrade.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// LineRequest is one requested transaction line. UnitPrice is optional;
// when omitted or zero the product's sell price applies.
type LineRequest struct {
	ProductCode string          `json:"product_code" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest is the payload for creating a sale
type CreateSaleRequest struct {
	SaleDate string        `json:"sale_date" binding:"required,dateonly"`
	Lines    []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SaleDetailResponse is one persisted sale line
type SaleDetailResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductCode string          `json:"product_code"`
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchCode   string          `json:"batch_code"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse is the API representation of a sale
type SaleResponse struct {
	ID          uuid.UUID            `json:"id"`
	SaleNumber  string               `json:"sale_number"`
	SaleDate    string               `json:"sale_date"`
	CashierID   uuid.UUID            `json:"cashier_id"`
	CashierName string               `json:"cashier_name"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	Details     []SaleDetailResponse `json:"details"`
	CreatedAt   time.Time            `json:"created_at"`
}

func toSaleResponse(sale *trade.Sale) SaleResponse {
	details := make([]SaleDetailResponse, 0, len(sale.Details))
	for _, d := range sale.Details {
		details = append(details, SaleDetailResponse{
			ID:          d.ID,
			ProductCode: d.ProductCode,
			BatchID:     d.BatchID,
			BatchCode:   d.BatchCode,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal,
		})
	}
	return SaleResponse{
		ID:          sale.ID,
		SaleNumber:  sale.SaleNumber,
		SaleDate:    sale.SaleDate.Format(dateLayout),
		CashierID:   sale.CashierID,
		CashierName: sale.CashierName,
		TotalAmount: sale.TotalAmount,
		Details:     details,
		CreatedAt:   sale.CreatedAt,
	}
}

func toLines(reqs []LineRequest) []apptrade.Line {
	lines := make([]apptrade.Line, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, apptrade.Line{
			ProductCode: r.ProductCode,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
		})
	}
	return lines
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	saleDate, err := time.Parse(dateLayout, req.SaleDate)
	if err != nil {
		h.BadRequest(c, "sale_date must be in YYYY-MM-DD format")
		return
	}

	sale, err := h.sales.CreateSale(c.Request.Context(), actor, saleDate, toLines(req.Lines))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, toSaleResponse(sale))
}

// Get handles GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.sales.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toSaleResponse(sale))
}

// ListSalesRequest extends the common list parameters with an optional
// date range
type ListSalesRequest struct {
	dto.ListRequest
	From string `form:"from"`
	To   string `form:"to"`
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var req ListSalesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var from, to *time.Time
	if req.From != "" && req.To != "" {
		f, err := time.Parse(dateLayout, req.From)
		if err != nil {
			h.BadRequest(c, "from must be in YYYY-MM-DD format")
			return
		}
		t, err := time.Parse(dateLayout, req.To)
		if err != nil {
			h.BadRequest(c, "to must be in YYYY-MM-DD format")
			return
		}
		from, to = &f, &t
	}

	filter := req.ToFilter()
	result, err := h.sales.ListSales(c.Request.Context(), filter, from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make([]SaleResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toSaleResponse(&result.Items[i]))
	}
	h.SuccessWithMeta(c, items, result.Total, filter.Page, filter.PageSize)
}
