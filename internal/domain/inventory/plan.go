package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PlanLine is one step of an allocation plan: draw Quantity units from
// the referenced batch at UnitPrice. Plan lines are ephemeral planning
// results; persisted detail rows are a separate type built from them.
type PlanLine struct {
	BatchID   uuid.UUID
	BatchCode string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Subtotal returns Quantity x UnitPrice
func (l PlanLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// InsufficientStockError reports a planning failure with the exact
// shortfall so callers can render a precise message
type InsufficientStockError struct {
	ProductCode string
	Requested   int64
	Available   int64
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductCode, e.Requested, e.Available)
}

// Is makes the error match shared.ErrInsufficientStock under errors.Is
func (e *InsufficientStockError) Is(target error) bool {
	return target == shared.ErrInsufficientStock
}

// Plan decides how to satisfy a requested quantity for one product from
// the given batches, without mutating anything. Batches must already be
// in ledger order (expiry asc, arrival asc, id asc); the plan greedily
// drains each batch in turn so an earlier-expiring batch is always
// exhausted before a later one is touched.
func Plan(productCode string, requested int64, unitPrice decimal.Decimal, batches []Batch) ([]PlanLine, error) {
	if requested <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	lines := make([]PlanLine, 0, len(batches))
	remaining := requested
	for _, batch := range batches {
		if !batch.HasStock() {
			continue
		}
		draw := batch.RemainingQuantity
		if draw > remaining {
			draw = remaining
		}
		lines = append(lines, PlanLine{
			BatchID:   batch.ID,
			BatchCode: batch.BatchCode,
			Quantity:  draw,
			UnitPrice: unitPrice,
		})
		remaining -= draw
		if remaining == 0 {
			return lines, nil
		}
	}

	return nil, &InsufficientStockError{
		ProductCode: productCode,
		Requested:   requested,
		Available:   requested - remaining,
	}
}
