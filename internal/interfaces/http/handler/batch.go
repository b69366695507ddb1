package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/retailpos/backend/internal/application/inventory"
	"github.com/retailpos/backend/internal/domain/inventory"
)

// BatchHandler handles batch ledger endpoints
type BatchHandler struct {
	BaseHandler
	batches *appinventory.BatchService
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(batches *appinventory.BatchService) *BatchHandler {
	return &BatchHandler{batches: batches}
}

// ReceiveBatchRequest is the payload for receiving a new batch
type ReceiveBatchRequest struct {
	ProductCode   string          `json:"product_code" binding:"required"`
	BatchCode     string          `json:"batch_code" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price" binding:"required"`
	Quantity      int64           `json:"quantity" binding:"required,gt=0"`
	ArrivalDate   string          `json:"arrival_date" binding:"required,dateonly"`
	ExpiryDate    string          `json:"expiry_date" binding:"required,dateonly"`
}

// BatchResponse is the API representation of a batch
type BatchResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductCode       string          `json:"product_code"`
	BatchCode         string          `json:"batch_code"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	InitialQuantity   int64           `json:"initial_quantity"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	ArrivalDate       string          `json:"arrival_date"`
	ExpiryDate        string          `json:"expiry_date"`
	CreatedAt         time.Time       `json:"created_at"`
}

// TotalStockResponse reports a product's aggregate remaining stock
type TotalStockResponse struct {
	ProductCode string `json:"product_code"`
	TotalStock  int64  `json:"total_stock"`
}

func toBatchResponse(batch *inventory.Batch) BatchResponse {
	return BatchResponse{
		ID:                batch.ID,
		ProductCode:       batch.ProductCode,
		BatchCode:         batch.BatchCode,
		PurchasePrice:     batch.PurchasePrice,
		InitialQuantity:   batch.InitialQuantity,
		RemainingQuantity: batch.RemainingQuantity,
		ArrivalDate:       batch.ArrivalDate.Format(dateLayout),
		ExpiryDate:        batch.ExpiryDate.Format(dateLayout),
		CreatedAt:         batch.CreatedAt,
	}
}

// Receive handles POST /batches
func (h *BatchHandler) Receive(c *gin.Context) {
	var req ReceiveBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	arrival, err := time.Parse(dateLayout, req.ArrivalDate)
	if err != nil {
		h.BadRequest(c, "arrival_date must be in YYYY-MM-DD format")
		return
	}
	expiry, err := time.Parse(dateLayout, req.ExpiryDate)
	if err != nil {
		h.BadRequest(c, "expiry_date must be in YYYY-MM-DD format")
		return
	}

	batch, err := h.batches.ReceiveBatch(c.Request.Context(), appinventory.ReceiveBatchInput{
		ProductCode:   req.ProductCode,
		BatchCode:     req.BatchCode,
		PurchasePrice: req.PurchasePrice,
		Quantity:      req.Quantity,
		ArrivalDate:   arrival,
		ExpiryDate:    expiry,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, toBatchResponse(batch))
}

// Get handles GET /batches/:id
func (h *BatchHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	batch, err := h.batches.GetBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toBatchResponse(batch))
}

// ListAvailable handles GET /products/:code/batches. Batches come back
// in allocation order: earliest expiry first.
func (h *BatchHandler) ListAvailable(c *gin.Context) {
	code := c.Param("code")

	batches, err := h.batches.ListAvailable(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		items = append(items, toBatchResponse(&batches[i]))
	}
	h.Success(c, items)
}

// TotalStock handles GET /products/:code/stock
func (h *BatchHandler) TotalStock(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	total, err := h.batches.TotalStock(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, TotalStockResponse{
		ProductCode: code,
		TotalStock:  total,
	})
}
