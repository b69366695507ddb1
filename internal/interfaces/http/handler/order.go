package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apptrade "github.com/retailpos/backend/internal/application/trade"
	"github.com/retailpos/backend/internal/domain/trade"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	BaseHandler
	orders *apptrade.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *apptrade.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrderRequest is the payload for creating an order
type CreateOrderRequest struct {
	OrderDate string        `json:"order_date" binding:"required,dateonly"`
	Lines     []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateOrderLineRequest is the payload for editing one order line.
// A zero unit price keeps the line's current price.
type UpdateOrderLineRequest struct {
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderDetailResponse is one persisted order line
type OrderDetailResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductCode string          `json:"product_code"`
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchCode   string          `json:"batch_code"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID            uuid.UUID             `json:"id"`
	OrderNumber   string                `json:"order_number"`
	OrderDate     string                `json:"order_date"`
	Status        string                `json:"status"`
	CreatedByID   uuid.UUID             `json:"created_by_id"`
	CreatedByName string                `json:"created_by_name"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Version       int                   `json:"version"`
	Details       []OrderDetailResponse `json:"details"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func toOrderResponse(order *trade.Order) OrderResponse {
	details := make([]OrderDetailResponse, 0, len(order.Details))
	for _, d := range order.Details {
		details = append(details, OrderDetailResponse{
			ID:          d.ID,
			ProductCode: d.ProductCode,
			BatchID:     d.BatchID,
			BatchCode:   d.BatchCode,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal,
		})
	}
	return OrderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		OrderDate:     order.OrderDate.Format(dateLayout),
		Status:        order.Status.String(),
		CreatedByID:   order.CreatedByID,
		CreatedByName: order.CreatedByName,
		TotalAmount:   order.TotalAmount,
		Version:       order.Version,
		Details:       details,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orderDate, err := time.Parse(dateLayout, req.OrderDate)
	if err != nil {
		h.BadRequest(c, "order_date must be in YYYY-MM-DD format")
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), actor, orderDate, toLines(req.Lines))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, toOrderResponse(order))
}

// Approve handles POST /orders/:id/approve
func (h *OrderHandler) Approve(c *gin.Context) {
	h.transition(c, h.orders.ApproveOrder)
}

// Receive handles POST /orders/:id/receive
func (h *OrderHandler) Receive(c *gin.Context) {
	h.transition(c, h.orders.ReceiveOrder)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.orders.CancelOrder)
}

func (h *OrderHandler) transition(
	c *gin.Context,
	apply func(context.Context, apptrade.Actor, uuid.UUID) (*trade.Order, error),
) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := apply(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// UpdateLine handles PUT /orders/:id/details/:detailId
func (h *OrderHandler) UpdateLine(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	detailID, err := uuid.Parse(c.Param("detailId"))
	if err != nil {
		h.BadRequest(c, "Invalid detail ID")
		return
	}

	var req UpdateOrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.UpdateOrderLine(c.Request.Context(), actor, orderID, detailID, req.Quantity, req.UnitPrice)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// Delete handles DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orders.DeleteOrder(c.Request.Context(), actor, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// ListOrdersRequest extends the common list parameters with a status
// filter
type ListOrdersRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved received cancelled"`
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	var req ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	result, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make([]OrderResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toOrderResponse(&result.Items[i]))
	}
	h.SuccessWithMeta(c, items, result.Total, filter.Page, filter.PageSize)
}
