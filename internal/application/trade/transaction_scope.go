package trade

import (
	"context"

	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/trade"
)

// Repositories bundles the repositories that participate in a
// stock-mutating unit of work. Implementations hand out instances
// bound to the same database transaction.
type Repositories struct {
	Batches inventory.BatchRepository
	Sales   trade.SaleRepository
	Orders  trade.OrderRepository
}

// TransactionScope executes a function within a single atomic unit of
// work. If fn returns an error the whole unit is rolled back, so a
// failed sale or order submission leaves stock exactly as it was.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// NoOpTransactionScope runs the function against fixed repositories
// without transaction semantics. Used in tests and with stores that
// provide no transactions; the coordinator's explicit compensation is
// the rollback mechanism in that case.
type NoOpTransactionScope struct {
	Repos Repositories
}

// Execute runs fn against the configured repositories
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos Repositories) error) error {
	return fn(s.Repos)
}
