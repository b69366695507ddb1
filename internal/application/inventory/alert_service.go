package inventory

import (
	"context"
	"time"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

// StockAlert is one low-stock alert record
type StockAlert struct {
	ProductCode  string `json:"product_code"`
	ProductName  string `json:"product_name"`
	CategoryName string `json:"category_name"`
	CurrentStock int64  `json:"current_stock"`
	MinStock     int64  `json:"min_stock"`
}

// ExpiringBatch is one batch approaching (or past) its expiry date
type ExpiringBatch struct {
	ProductCode       string    `json:"product_code"`
	BatchCode         string    `json:"batch_code"`
	RemainingQuantity int64     `json:"remaining_quantity"`
	ExpiryDate        time.Time `json:"expiry_date"`
	Expired           bool      `json:"expired"`
}

// AlertService derives which products sit below their minimum-stock
// threshold and which batches are close to expiry. Evaluation is
// read-only and lock-free; under concurrent writers it may observe a
// stock level that is a few milliseconds stale.
type AlertService struct {
	products catalog.ProductRepository
	batches  inventory.BatchRepository
	logger   *zap.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(products catalog.ProductRepository, batches inventory.BatchRepository, logger *zap.Logger) *AlertService {
	return &AlertService{
		products: products,
		batches:  batches,
		logger:   logger,
	}
}

// Evaluate returns every product whose aggregate remaining stock is
// strictly below its configured minimum, ordered by product name
func (s *AlertService) Evaluate(ctx context.Context) ([]StockAlert, error) {
	rows, err := s.products.FindBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}

	alerts := make([]StockAlert, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, StockAlert{
			ProductCode:  row.ProductCode,
			ProductName:  row.ProductName,
			CategoryName: row.CategoryName,
			CurrentStock: row.CurrentStock,
			MinStock:     row.MinStock,
		})
	}

	s.logger.Debug("low stock evaluation complete", zap.Int("alerts", len(alerts)))
	return alerts, nil
}

// ListExpiringBatches returns non-depleted batches expiring within the
// given number of days from now
func (s *AlertService) ListExpiringBatches(ctx context.Context, withinDays int) ([]ExpiringBatch, error) {
	now := time.Now()
	cutoff := now.AddDate(0, 0, withinDays)

	batches, err := s.batches.ListExpiring(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	result := make([]ExpiringBatch, 0, len(batches))
	for _, b := range batches {
		result = append(result, ExpiringBatch{
			ProductCode:       b.ProductCode,
			BatchCode:         b.BatchCode,
			RemainingQuantity: b.RemainingQuantity,
			ExpiryDate:        b.ExpiryDate,
			Expired:           b.IsExpired(now),
		})
	}
	return result, nil
}
