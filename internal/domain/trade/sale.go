package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Sale is a completed point-of-sale transaction. Sales are immediate
// and immutable: stock is deducted when the sale is created and there
// is no status machine.
type Sale struct {
	shared.BaseAggregateRoot
	SaleNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	SaleDate    time.Time       `gorm:"type:date;not null;index"`
	CashierID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CashierName string          `gorm:"type:varchar(100);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Details     []SaleDetail    `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleDetail is one persisted line of a sale: which batch was consumed,
// how much, and at what price. Built from an allocation plan line by
// the coordinator; immutable once the sale is committed.
type SaleDetail struct {
	shared.BaseEntity
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode string          `gorm:"type:varchar(50);not null;index"`
	BatchID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchCode   string          `gorm:"type:varchar(100);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleDetail) TableName() string {
	return "sale_details"
}

// NewSale creates a new empty sale header
func NewSale(saleNumber string, saleDate time.Time, cashierID uuid.UUID, cashierName string) (*Sale, error) {
	if saleNumber == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	if cashierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASHIER", "Cashier ID cannot be empty")
	}

	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleNumber:        saleNumber,
		SaleDate:          saleDate,
		CashierID:         cashierID,
		CashierName:       cashierName,
		TotalAmount:       decimal.Zero,
	}, nil
}

// AddPlanLine appends a detail row built from an allocation plan line
// and recalculates the total
func (s *Sale) AddPlanLine(productCode string, line inventory.PlanLine) {
	detail := SaleDetail{
		BaseEntity:  shared.NewBaseEntity(),
		SaleID:      s.ID,
		ProductCode: productCode,
		BatchID:     line.BatchID,
		BatchCode:   line.BatchCode,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		Subtotal:    line.Subtotal(),
	}
	s.Details = append(s.Details, detail)
	s.recalculateTotal()
}

func (s *Sale) recalculateTotal() {
	total := decimal.Zero
	for _, d := range s.Details {
		total = total.Add(d.Subtotal)
	}
	s.TotalAmount = total
	s.Touch()
}
