package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RoleAdmin is the role required for order status changes and edits
const RoleAdmin = "admin"

// OrderService manages the order lifecycle. Stock is reserved at order
// creation; cancelling or deleting a pending order releases every line
// back to its batch. Approve and receive only move the status.
type OrderService struct {
	scope       TransactionScope
	coordinator *StockCoordinator
	products    catalog.ProductRepository
	batches     inventory.BatchRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	scope TransactionScope,
	coordinator *StockCoordinator,
	products catalog.ProductRepository,
	batches inventory.BatchRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		scope:       scope,
		coordinator: coordinator,
		products:    products,
		batches:     batches,
		logger:      logger,
	}
}

// SetEventPublisher injects the event bus
func (s *OrderService) SetEventPublisher(events shared.EventPublisher) {
	s.events = events
}

// CreateOrder plans and reserves stock for every line, then persists a
// pending order with one detail row per plan line
func (s *OrderService) CreateOrder(ctx context.Context, actor Actor, orderDate time.Time, lines []Line) (*trade.Order, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	resolved, err := resolveLines(ctx, s.products, lines)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(generateNumber("O", orderDate), orderDate, actor.UserID, actor.Username)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos Repositories) error {
		planned, err := s.coordinator.Execute(ctx, repos.Batches, lines)
		if err != nil {
			return err
		}

		for _, pl := range planned {
			for _, line := range pl.Plan {
				order.AddPlanLine(pl.ProductCode, line)
			}
		}

		if err := repos.Orders.Create(ctx, order); err != nil {
			if relErr := s.coordinator.ReleasePlanned(ctx, repos.Batches, planned); relErr != nil {
				s.logger.Error("failed to compensate after order persist failure",
					zap.String("order_number", order.OrderNumber),
					zap.Error(relErr),
				)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("created_by", actor.Username),
		zap.Int("detail_lines", len(order.Details)),
	)

	s.checkThresholds(ctx, resolved)
	return order, nil
}

// ApproveOrder transitions a pending order to approved
func (s *OrderService) ApproveOrder(ctx context.Context, actor Actor, id uuid.UUID) (*trade.Order, error) {
	return s.transition(ctx, actor, id, func(order *trade.Order) error {
		return order.Approve()
	})
}

// ReceiveOrder transitions an approved order to received
func (s *OrderService) ReceiveOrder(ctx context.Context, actor Actor, id uuid.UUID) (*trade.Order, error) {
	return s.transition(ctx, actor, id, func(order *trade.Order) error {
		return order.Receive()
	})
}

// CancelOrder cancels a pending order and releases every detail line
// back to its batch before the status change is committed
func (s *OrderService) CancelOrder(ctx context.Context, actor Actor, id uuid.UUID) (*trade.Order, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		order, err = repos.Orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		if err := s.releaseDetails(ctx, repos.Batches, order.Details); err != nil {
			return err
		}
		return repos.Orders.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("order_number", order.OrderNumber),
		zap.String("cancelled_by", actor.Username),
	)
	s.publishDomainEvents(ctx, order)
	return order, nil
}

// DeleteOrder removes a pending order, releasing its stock first.
// Orders that left pending keep their history and cannot be deleted.
func (s *OrderService) DeleteOrder(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}

	return s.scope.Execute(ctx, func(repos Repositories) error {
		order, err := repos.Orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !order.Status.IsMutable() {
			return shared.NewDomainError("INVALID_STATE", "Only pending orders can be deleted")
		}
		if err := s.releaseDetails(ctx, repos.Batches, order.Details); err != nil {
			return err
		}
		return repos.Orders.Delete(ctx, id)
	})
}

// UpdateOrderLine edits one detail row of a pending order. The old
// quantity is released back to its original batch, then the new
// quantity is re-planned and reserved against current ledger state;
// the detail row is never overwritten without the matching ledger
// mutations.
func (s *OrderService) UpdateOrderLine(
	ctx context.Context,
	actor Actor,
	orderID, detailID uuid.UUID,
	newQuantity int64,
	newUnitPrice decimal.Decimal,
) (*trade.Order, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if newQuantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if newUnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		order, err = repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.IsMutable() {
			return shared.NewDomainError("INVALID_STATE", "Only pending orders can be edited")
		}
		detail, err := order.FindDetail(detailID)
		if err != nil {
			return err
		}

		unitPrice := newUnitPrice
		if unitPrice.IsZero() {
			unitPrice = detail.UnitPrice
		}

		// Release the old draw, then plan the new quantity against the
		// ledger as it stands after the release
		if err := repos.Batches.Release(ctx, detail.BatchID, detail.Quantity); err != nil {
			return err
		}
		planned, err := s.coordinator.Execute(ctx, repos.Batches, []Line{{
			ProductCode: detail.ProductCode,
			Quantity:    newQuantity,
			UnitPrice:   unitPrice,
		}})
		if err != nil {
			// Put the old reservation back so a failed edit is a no-op
			if resErr := repos.Batches.Reserve(ctx, detail.BatchID, detail.Quantity); resErr != nil {
				s.logger.Error("failed to restore reservation after edit failure",
					zap.String("order_id", orderID.String()),
					zap.String("detail_id", detailID.String()),
					zap.Error(resErr),
				)
			}
			return err
		}

		if err := order.ReplaceDetail(detailID, detail.ProductCode, planned[0].Plan); err != nil {
			if relErr := s.coordinator.ReleasePlanned(ctx, repos.Batches, planned); relErr != nil {
				s.logger.Error("failed to release after detail replace failure", zap.Error(relErr))
			}
			return err
		}
		return repos.Orders.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order line updated",
		zap.String("order_id", orderID.String()),
		zap.String("detail_id", detailID.String()),
		zap.Int64("new_quantity", newQuantity),
	)
	return order, nil
}

// GetOrder returns an order with its detail rows
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		order, err = repos.Orders.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns a paginated list of orders
func (s *OrderService) ListOrders(ctx context.Context, filter shared.Filter) (shared.Paginated[trade.Order], error) {
	var result shared.Paginated[trade.Order]
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		orders, err := repos.Orders.FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err := repos.Orders.Count(ctx, filter)
		if err != nil {
			return err
		}
		result = shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
		return nil
	})
	return result, err
}

func (s *OrderService) transition(ctx context.Context, actor Actor, id uuid.UUID, apply func(*trade.Order) error) (*trade.Order, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		order, err = repos.Orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(order); err != nil {
			return err
		}
		return repos.Orders.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status.String()),
		zap.String("changed_by", actor.Username),
	)
	s.publishDomainEvents(ctx, order)
	return order, nil
}

func (s *OrderService) releaseDetails(ctx context.Context, batches inventory.BatchRepository, details []trade.OrderDetail) error {
	for _, d := range details {
		if err := batches.Release(ctx, d.BatchID, d.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) requireAdmin(actor Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role != RoleAdmin {
		return shared.ErrUnauthorized
	}
	return nil
}

func (s *OrderService) checkThresholds(ctx context.Context, products map[string]*catalog.Product) {
	if s.events == nil {
		return
	}
	for code, product := range products {
		if product.MinStock <= 0 {
			continue
		}
		total, err := s.batches.TotalStock(ctx, code)
		if err != nil {
			s.logger.Warn("threshold check failed", zap.String("product_code", code), zap.Error(err))
			continue
		}
		if total < product.MinStock {
			s.publishDomainEventsRaw(ctx, inventory.NewStockBelowThresholdEvent(product.ID, code, total, product.MinStock))
		}
	}
}

func (s *OrderService) publishDomainEvents(ctx context.Context, order *trade.Order) {
	if s.events == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	s.publishDomainEventsRaw(ctx, events...)
	order.ClearDomainEvents()
}

func (s *OrderService) publishDomainEventsRaw(ctx context.Context, events ...shared.DomainEvent) {
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish events", zap.Error(err))
	}
}
