package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiveBatchInput describes a new batch arriving from the receiving
// workflow
type ReceiveBatchInput struct {
	ProductCode   string
	BatchCode     string
	PurchasePrice decimal.Decimal
	Quantity      int64
	ArrivalDate   time.Time
	ExpiryDate    time.Time
}

// BatchService exposes the ledger's read operations and the receiving
// workflow that creates batches. All decrements go through the
// transaction coordinator, never through this service.
type BatchService struct {
	batches  inventory.BatchRepository
	products catalog.ProductRepository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewBatchService creates a new batch service
func NewBatchService(batches inventory.BatchRepository, products catalog.ProductRepository, logger *zap.Logger) *BatchService {
	return &BatchService{
		batches:  batches,
		products: products,
		logger:   logger,
	}
}

// SetEventPublisher injects the event bus
func (s *BatchService) SetEventPublisher(events shared.EventPublisher) {
	s.events = events
}

// ReceiveBatch creates a new batch for an existing product
func (s *BatchService) ReceiveBatch(ctx context.Context, input ReceiveBatchInput) (*inventory.Batch, error) {
	code := strings.ToUpper(strings.TrimSpace(input.ProductCode))
	if _, err := s.products.FindByCode(ctx, code); err != nil {
		return nil, err
	}

	batch, err := inventory.NewBatch(code, input.BatchCode, input.PurchasePrice, input.Quantity, input.ArrivalDate, input.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if err := s.batches.Create(ctx, batch); err != nil {
		return nil, err
	}

	s.logger.Info("batch received",
		zap.String("product_code", batch.ProductCode),
		zap.String("batch_code", batch.BatchCode),
		zap.Int64("quantity", batch.InitialQuantity),
	)

	if s.events != nil {
		if err := s.events.Publish(ctx, inventory.NewBatchReceivedEvent(batch)); err != nil {
			s.logger.Warn("failed to publish batch received event", zap.Error(err))
		}
	}
	return batch, nil
}

// ListAvailable returns a product's non-depleted batches in allocation
// order (earliest expiry first)
func (s *BatchService) ListAvailable(ctx context.Context, productCode string) ([]inventory.Batch, error) {
	code := strings.ToUpper(strings.TrimSpace(productCode))
	if _, err := s.products.FindByCode(ctx, code); err != nil {
		return nil, err
	}
	return s.batches.ListAvailable(ctx, code)
}

// GetBatch returns one batch by ID
func (s *BatchService) GetBatch(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	return s.batches.FindByID(ctx, id)
}

// TotalStock returns the product's aggregate remaining stock
func (s *BatchService) TotalStock(ctx context.Context, productCode string) (int64, error) {
	code := strings.ToUpper(strings.TrimSpace(productCode))
	return s.batches.TotalStock(ctx, code)
}
