package trade

import (
	"context"
	"errors"

	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Line is one requested line of a sale or order: product, quantity and
// the unit price at transaction time. Manual entry and bulk import
// both normalize into this shape so allocation and rollback semantics
// never diverge.
type Line struct {
	ProductCode string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// PlannedLine pairs a requested line with the allocation plan that
// satisfies it
type PlannedLine struct {
	ProductCode string
	Plan        []inventory.PlanLine
}

// StockCoordinator turns a list of requested lines into applied ledger
// reservations with all-or-nothing semantics. Planning is fully
// separated from mutation: every line is planned first, and the ledger
// is only touched once every line has a plan. If a reserve fails
// mid-way (a concurrent transaction consumed the batch between
// planning and reserving), every reserve already applied in this
// execution is released before the conflict is surfaced, so no partial
// stock deduction is ever left standing.
type StockCoordinator struct {
	logger *zap.Logger
}

// NewStockCoordinator creates a new stock coordinator
func NewStockCoordinator(logger *zap.Logger) *StockCoordinator {
	return &StockCoordinator{logger: logger}
}

// PlanAll plans every line against current ledger state without
// mutating anything. The first line that cannot be satisfied aborts
// the whole call with the exact shortfall.
func (c *StockCoordinator) PlanAll(ctx context.Context, batches inventory.BatchRepository, lines []Line) ([]PlannedLine, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction must contain at least one line")
	}

	planned := make([]PlannedLine, 0, len(lines))
	for _, line := range lines {
		available, err := batches.ListAvailable(ctx, line.ProductCode)
		if err != nil {
			return nil, err
		}
		plan, err := inventory.Plan(line.ProductCode, line.Quantity, line.UnitPrice, available)
		if err != nil {
			return nil, err
		}
		planned = append(planned, PlannedLine{ProductCode: line.ProductCode, Plan: plan})
	}
	return planned, nil
}

// ReserveAll applies every plan line through the ledger. On failure it
// compensates by releasing everything reserved so far, then reports
// the race as a concurrency conflict.
func (c *StockCoordinator) ReserveAll(ctx context.Context, batches inventory.BatchRepository, planned []PlannedLine) error {
	done := make([]inventory.PlanLine, 0)

	for _, pl := range planned {
		for _, line := range pl.Plan {
			if err := batches.Reserve(ctx, line.BatchID, line.Quantity); err != nil {
				c.compensate(ctx, batches, done)
				if errors.Is(err, shared.ErrInsufficientStock) || errors.Is(err, shared.ErrNotFound) {
					c.logger.Warn("reserve lost race with concurrent transaction",
						zap.String("product_code", pl.ProductCode),
						zap.String("batch_id", line.BatchID.String()),
						zap.Int64("quantity", line.Quantity),
					)
					return shared.ErrConcurrencyConflict
				}
				return err
			}
			done = append(done, line)
		}
	}
	return nil
}

// Execute runs the full two-phase protocol: plan everything, then
// reserve everything. Returns the plans so the caller can fold them
// into persisted detail rows.
func (c *StockCoordinator) Execute(ctx context.Context, batches inventory.BatchRepository, lines []Line) ([]PlannedLine, error) {
	planned, err := c.PlanAll(ctx, batches, lines)
	if err != nil {
		return nil, err
	}
	if err := c.ReserveAll(ctx, batches, planned); err != nil {
		return nil, err
	}
	return planned, nil
}

// ReleasePlanned returns every reservation of the given plans to its
// batch. Used when persistence fails after reserving, and when a
// pending order line is edited or cancelled.
func (c *StockCoordinator) ReleasePlanned(ctx context.Context, batches inventory.BatchRepository, planned []PlannedLine) error {
	for _, pl := range planned {
		for _, line := range pl.Plan {
			if err := batches.Release(ctx, line.BatchID, line.Quantity); err != nil {
				c.logger.Error("failed to release reserved stock",
					zap.String("product_code", pl.ProductCode),
					zap.String("batch_id", line.BatchID.String()),
					zap.Int64("quantity", line.Quantity),
					zap.Error(err),
				)
				return err
			}
		}
	}
	return nil
}

func (c *StockCoordinator) compensate(ctx context.Context, batches inventory.BatchRepository, done []inventory.PlanLine) {
	for i := len(done) - 1; i >= 0; i-- {
		line := done[i]
		if err := batches.Release(ctx, line.BatchID, line.Quantity); err != nil {
			// An INVALID_RELEASE here means the compensation math is
			// wrong somewhere upstream. Log loudly, keep releasing the
			// rest.
			c.logger.Error("compensation release failed",
				zap.String("batch_id", line.BatchID.String()),
				zap.Int64("quantity", line.Quantity),
				zap.Error(err),
			)
		}
	}
}
