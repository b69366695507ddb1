package trade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// SaleService creates and queries point-of-sale transactions. A sale
// deducts stock immediately through the coordinator; a failed
// submission leaves stock untouched.
type SaleService struct {
	scope       TransactionScope
	coordinator *StockCoordinator
	products    catalog.ProductRepository
	batches     inventory.BatchRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(
	scope TransactionScope,
	coordinator *StockCoordinator,
	products catalog.ProductRepository,
	batches inventory.BatchRepository,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		scope:       scope,
		coordinator: coordinator,
		products:    products,
		batches:     batches,
		logger:      logger,
	}
}

// SetEventPublisher injects the event bus
func (s *SaleService) SetEventPublisher(events shared.EventPublisher) {
	s.events = events
}

// CreateSale plans and applies a multi-line sale as one all-or-nothing
// stock mutation, then persists the header and one detail row per plan
// line so the caller can show which batches were consumed.
func (s *SaleService) CreateSale(ctx context.Context, actor Actor, saleDate time.Time, lines []Line) (*trade.Sale, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	resolved, err := resolveLines(ctx, s.products, lines)
	if err != nil {
		return nil, err
	}

	sale, err := trade.NewSale(generateNumber("S", saleDate), saleDate, actor.UserID, actor.Username)
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
				sale.AddPlanLine(pl.ProductCode, line)
			}
		}

		if err := repos.Sales.Create(ctx, sale); err != nil {
			// Undo the reservations before surfacing the storage error
			if relErr := s.coordinator.ReleasePlanned(ctx, repos.Batches, planned); relErr != nil {
				s.logger.Error("failed to compensate after sale persist failure",
					zap.String("sale_number", sale.SaleNumber),
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

	s.logger.Info("sale committed",
		zap.String("sale_number", sale.SaleNumber),
		zap.String("cashier", actor.Username),
		zap.Int("detail_lines", len(sale.Details)),
		zap.String("total", sale.TotalAmount.String()),
	)

	s.publishEvents(ctx, trade.NewSaleCompletedEvent(sale))
	s.checkThresholds(ctx, resolved)

	return sale, nil
}

// GetSale returns a sale with its detail rows
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale *trade.Sale
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		sale, err = repos.Sales.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// ListSales returns a paginated list of sales, optionally restricted
// to a date range
func (s *SaleService) ListSales(ctx context.Context, filter shared.Filter, from, to *time.Time) (shared.Paginated[trade.Sale], error) {
	var result shared.Paginated[trade.Sale]
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		var (
			sales []trade.Sale
			err   error
		)
		if from != nil && to != nil {
			sales, err = repos.Sales.FindByDateRange(ctx, *from, *to, filter)
		} else {
			sales, err = repos.Sales.FindAll(ctx, filter)
		}
		if err != nil {
			return err
		}
		total, err := repos.Sales.Count(ctx, filter)
		if err != nil {
			return err
		}
		result = shared.NewPaginated(sales, total, filter.Page, filter.PageSize)
		return nil
	})
	return result, err
}

// checkThresholds publishes a StockBelowThreshold event for every
// touched product that dropped under its configured minimum. Alerting
// is best-effort and never fails the transaction that triggered it.
func (s *SaleService) checkThresholds(ctx context.Context, products map[string]*catalog.Product) {
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
			s.publishEvents(ctx, inventory.NewStockBelowThresholdEvent(product.ID, code, total, product.MinStock))
		}
	}
}

func (s *SaleService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish events", zap.Error(err))
	}
}

// generateNumber builds a human-readable document number from the
// document date plus a random suffix
func generateNumber(prefix string, date time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s%s-%s", prefix, date.Format("20060102"), suffix)
}
