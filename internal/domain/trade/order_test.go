package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("ORD-001", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), uuid.New(), "alex")
	require.NoError(t, err)
	return o
}

func planLine(qty int64, unitPrice float64) inventory.PlanLine {
	return inventory.PlanLine{
		BatchID:   uuid.New(),
		BatchCode: "LOT-1",
		Quantity:  qty,
		UnitPrice: decimal.NewFromFloat(unitPrice),
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to approved", OrderStatusPending, OrderStatusApproved, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"pending to received", OrderStatusPending, OrderStatusReceived, false},
		{"approved to received", OrderStatusApproved, OrderStatusReceived, true},
		{"approved to cancelled", OrderStatusApproved, OrderStatusCancelled, false},
		{"received is terminal", OrderStatusReceived, OrderStatusApproved, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderLifecycle(t *testing.T) {
	t.Run("approve then receive", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Approve())
		assert.Equal(t, OrderStatusApproved, o.Status)

		require.NoError(t, o.Receive())
		assert.Equal(t, OrderStatusReceived, o.Status)
	})

	t.Run("approve twice fails", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Approve())
		err := o.Approve()
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("receive pending order fails", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.Receive()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("cancel approved order fails", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Approve())

		err := o.Cancel()
		assert.Error(t, err)
	})

	t.Run("transitions raise status events", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Approve())

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderStatusChanged, events[0].EventType())
	})
}

func TestOrderTotals(t *testing.T) {
	t.Run("total is sum of line subtotals", func(t *testing.T) {
		o := newTestOrder(t)
		o.AddPlanLine("A", planLine(4, 3.00))
		o.AddPlanLine("B", planLine(2, 5.50))

		assert.True(t, o.TotalAmount.Equal(decimal.NewFromFloat(23.00)))
		require.Len(t, o.Details, 2)
		assert.True(t, o.Details[0].Subtotal.Equal(decimal.NewFromFloat(12.00)))
	})
}

func TestOrderReplaceDetail(t *testing.T) {
	t.Run("replaces line and recalculates", func(t *testing.T) {
		o := newTestOrder(t)
		o.AddPlanLine("A", planLine(4, 3.00))
		detailID := o.Details[0].ID

		err := o.ReplaceDetail(detailID, "A", []inventory.PlanLine{planLine(2, 4.00), planLine(1, 4.00)})
		require.NoError(t, err)

		require.Len(t, o.Details, 2)
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromFloat(12.00)))
	})

	t.Run("rejected when not pending", func(t *testing.T) {
		o := newTestOrder(t)
		o.AddPlanLine("A", planLine(4, 3.00))
		detailID := o.Details[0].ID
		require.NoError(t, o.Approve())

		err := o.ReplaceDetail(detailID, "A", []inventory.PlanLine{planLine(1, 3.00)})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("unknown detail id", func(t *testing.T) {
		o := newTestOrder(t)
		o.AddPlanLine("A", planLine(4, 3.00))

		err := o.ReplaceDetail(uuid.New(), "A", []inventory.PlanLine{planLine(1, 3.00)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSaleTotals(t *testing.T) {
	s, err := NewSale("SAL-001", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), uuid.New(), "alex")
	require.NoError(t, err)

	s.AddPlanLine("A", planLine(4, 2.50))
	s.AddPlanLine("A", planLine(2, 2.50))

	assert.True(t, s.TotalAmount.Equal(decimal.NewFromFloat(15.00)))
	require.Len(t, s.Details, 2)
}
