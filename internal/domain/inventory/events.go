package inventory

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Event types for the inventory domain
const (
	EventTypeStockBelowThreshold = "inventory.stock_below_threshold"
	EventTypeBatchReceived       = "inventory.batch_received"
)

// StockBelowThresholdEvent is raised when a stock mutation drives a
// product's aggregate remaining stock under its configured minimum
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductCode  string `json:"product_code"`
	CurrentStock int64  `json:"current_stock"`
	MinStock     int64  `json:"min_stock"`
}

// NewStockBelowThresholdEvent creates a new stock below threshold event
func NewStockBelowThresholdEvent(productID uuid.UUID, productCode string, currentStock, minStock int64) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, "Product", productID),
		ProductCode:     productCode,
		CurrentStock:    currentStock,
		MinStock:        minStock,
	}
}

// BatchReceivedEvent is raised when a new batch enters the ledger
type BatchReceivedEvent struct {
	shared.BaseDomainEvent
	ProductCode string `json:"product_code"`
	BatchCode   string `json:"batch_code"`
	Quantity    int64  `json:"quantity"`
}

// NewBatchReceivedEvent creates a new batch received event
func NewBatchReceivedEvent(batch *Batch) *BatchReceivedEvent {
	return &BatchReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchReceived, "Batch", batch.ID),
		ProductCode:     batch.ProductCode,
		BatchCode:       batch.BatchCode,
		Quantity:        batch.InitialQuantity,
	}
}
