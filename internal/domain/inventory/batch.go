package inventory

import (
	"strings"
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Batch represents a discrete, dated lot of stock for one product.
// Each batch carries its own purchase price and expiration date.
// InitialQuantity is an immutable snapshot taken at receiving time;
// RemainingQuantity only moves through the ledger's reserve/release
// operations and always satisfies 0 <= remaining <= initial.
// Depleted batches are retained for history, never deleted.
type Batch struct {
	shared.BaseEntity
	ProductCode       string          `gorm:"type:varchar(50);not null;index:idx_batches_product"`
	BatchCode         string          `gorm:"type:varchar(100);not null"`
	PurchasePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	InitialQuantity   int64           `gorm:"not null"`
	RemainingQuantity int64           `gorm:"not null"`
	ArrivalDate       time.Time       `gorm:"type:date;not null"`
	ExpiryDate        time.Time       `gorm:"type:date;not null;index"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "batches"
}

// NewBatch creates a new batch with remaining quantity equal to the
// initial snapshot
func NewBatch(
	productCode, batchCode string,
	purchasePrice decimal.Decimal,
	quantity int64,
	arrivalDate, expiryDate time.Time,
) (*Batch, error) {
	if strings.TrimSpace(productCode) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if strings.TrimSpace(batchCode) == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_CODE", "Batch code cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	if expiryDate.Before(arrivalDate) {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Expiry date cannot precede arrival date")
	}

	return &Batch{
		BaseEntity:        shared.NewBaseEntity(),
		ProductCode:       strings.ToUpper(productCode),
		BatchCode:         batchCode,
		PurchasePrice:     purchasePrice,
		InitialQuantity:   quantity,
		RemainingQuantity: quantity,
		ArrivalDate:       arrivalDate,
		ExpiryDate:        expiryDate,
	}, nil
}

// HasStock returns true if the batch has remaining quantity
func (b *Batch) HasStock() bool {
	return b.RemainingQuantity > 0
}

// IsExpired returns true if the batch has passed its expiry date
func (b *Batch) IsExpired(now time.Time) bool {
	return now.After(b.ExpiryDate)
}

// Deduct removes quantity from the batch.
// The persistent ledger performs this as an atomic conditional update;
// this method carries the same invariant for in-memory use.
func (b *Batch) Deduct(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduct quantity must be positive")
	}
	if b.RemainingQuantity < quantity {
		return shared.ErrInsufficientStock
	}
	b.RemainingQuantity -= quantity
	b.Touch()
	return nil
}

// Restore returns quantity to the batch, capped at the initial snapshot
func (b *Batch) Restore(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Restore quantity must be positive")
	}
	if b.RemainingQuantity+quantity > b.InitialQuantity {
		return shared.ErrInvalidRelease
	}
	b.RemainingQuantity += quantity
	b.Touch()
	return nil
}
