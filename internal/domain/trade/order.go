package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	// OrderStatusPending is the initial state; the only state that
	// permits edit, cancel, approve or delete
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusApproved means the order was accepted and awaits receiving
	OrderStatusApproved OrderStatus = "approved"
	// OrderStatusReceived is terminal: goods arrived
	OrderStatusReceived OrderStatus = "received"
	// OrderStatusCancelled is terminal: stock was released back
	OrderStatusCancelled OrderStatus = "cancelled"
)

// String returns the string representation of the status
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo returns true if the transition to the target status
// is allowed by the state machine
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusApproved || target == OrderStatusCancelled
	case OrderStatusApproved:
		return target == OrderStatusReceived
	case OrderStatusReceived, OrderStatusCancelled:
		return false
	}
	return false
}

// IsMutable returns true if the order's lines may still be edited
func (s OrderStatus) IsMutable() bool {
	return s == OrderStatusPending
}

// Order is a customer order with a status lifecycle. Stock is reserved
// (deducted from the ledger) when the order is created; cancelling a
// pending order releases every line back to its batch.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderDate     time.Time       `gorm:"type:date;not null;index"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedByID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedByName string          `gorm:"type:varchar(100);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Details       []OrderDetail   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderDetail is one persisted line of an order
type OrderDetail struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode string          `gorm:"type:varchar(50);not null;index"`
	BatchID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchCode   string          `gorm:"type:varchar(100);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderDetail) TableName() string {
	return "order_details"
}

// NewOrder creates a new pending order header
func NewOrder(orderNumber string, orderDate time.Time, createdByID uuid.UUID, createdByName string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if createdByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Creator ID cannot be empty")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		OrderDate:         orderDate,
		Status:            OrderStatusPending,
		CreatedByID:       createdByID,
		CreatedByName:     createdByName,
		TotalAmount:       decimal.Zero,
	}, nil
}

// AddPlanLine appends a detail row built from an allocation plan line
// and recalculates the total
func (o *Order) AddPlanLine(productCode string, line inventory.PlanLine) {
	detail := OrderDetail{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     o.ID,
		ProductCode: productCode,
		BatchID:     line.BatchID,
		BatchCode:   line.BatchCode,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		Subtotal:    line.Subtotal(),
	}
	o.Details = append(o.Details, detail)
	o.recalculateTotal()
}

// FindDetail returns the detail row with the given ID
func (o *Order) FindDetail(detailID uuid.UUID) (*OrderDetail, error) {
	for i := range o.Details {
		if o.Details[i].ID == detailID {
			return &o.Details[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// ReplaceDetail swaps a detail row for new plan lines. Only valid while
// the order is pending; the ledger release/reserve is the caller's job.
func (o *Order) ReplaceDetail(detailID uuid.UUID, productCode string, lines []inventory.PlanLine) error {
	if !o.Status.IsMutable() {
		return o.transitionError("edit")
	}

	idx := -1
	for i := range o.Details {
		if o.Details[i].ID == detailID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}

	replacement := make([]OrderDetail, 0, len(lines))
	for _, line := range lines {
		replacement = append(replacement, OrderDetail{
			BaseEntity:  shared.NewBaseEntity(),
			OrderID:     o.ID,
			ProductCode: productCode,
			BatchID:     line.BatchID,
			BatchCode:   line.BatchCode,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal(),
		})
	}

	o.Details = append(o.Details[:idx], append(replacement, o.Details[idx+1:]...)...)
	o.recalculateTotal()
	o.IncrementVersion()
	return nil
}

// Approve transitions the order from pending to approved
func (o *Order) Approve() error {
	if !o.Status.CanTransitionTo(OrderStatusApproved) {
		return o.transitionError("approve")
	}
	o.setStatus(OrderStatusApproved)
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusApproved))
	return nil
}

// Receive transitions the order from approved to received
func (o *Order) Receive() error {
	if !o.Status.CanTransitionTo(OrderStatusReceived) {
		return o.transitionError("receive")
	}
	o.setStatus(OrderStatusReceived)
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusReceived))
	return nil
}

// Cancel transitions the order from pending to cancelled. The caller
// must release every detail line back to the ledger in the same unit
// of work.
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return o.transitionError("cancel")
	}
	o.setStatus(OrderStatusCancelled)
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusCancelled))
	return nil
}

func (o *Order) setStatus(status OrderStatus) {
	o.Status = status
	o.Touch()
	o.IncrementVersion()
}

func (o *Order) transitionError(action string) error {
	return shared.NewDomainError("INVALID_STATE",
		fmt.Sprintf("Cannot %s order in %s status", action, o.Status))
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, d := range o.Details {
		total = total.Add(d.Subtotal)
	}
	o.TotalAmount = total
	o.Touch()
}
