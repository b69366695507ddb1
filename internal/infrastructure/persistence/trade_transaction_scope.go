package persistence

import (
	"context"

	apptrade "github.com/retailpos/backend/internal/application/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements the trade TransactionScope using GORM
// transactions. Every repository handed to fn is bound to the same
// transaction, so a failed sale or order submission rolls back the
// ledger writes along with the document itself.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. An
// error from fn rolls the whole unit back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(apptrade.Repositories{
			Batches: NewGormBatchRepository(tx),
			Sales:   NewGormSaleRepository(tx),
			Orders:  NewGormOrderRepository(tx),
		})
	})
}

// Ensure GormTransactionScope implements TransactionScope
var _ apptrade.TransactionScope = (*GormTransactionScope)(nil)
