package trade

import (
	"github.com/retailpos/backend/internal/domain/shared"
)

// Event types for the trade domain
const (
	EventTypeSaleCompleted      = "trade.sale_completed"
	EventTypeOrderStatusChanged = "trade.order_status_changed"
)

// SaleCompletedEvent is raised after a sale is committed
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	SaleNumber  string `json:"sale_number"`
	TotalAmount string `json:"total_amount"`
	LineCount   int    `json:"line_count"`
}

// NewSaleCompletedEvent creates a new sale completed event
func NewSaleCompletedEvent(sale *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, "Sale", sale.ID),
		SaleNumber:      sale.SaleNumber,
		TotalAmount:     sale.TotalAmount.String(),
		LineCount:       len(sale.Details),
	}
}

// OrderStatusChangedEvent is raised on every order state transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	NewStatus   string `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new order status changed event
func NewOrderStatusChangedEvent(order *Order, status OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, "Order", order.ID),
		OrderNumber:     order.OrderNumber,
		NewStatus:       status.String(),
	}
}
