package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BatchRepository is the batch ledger: the single source of truth for
// per-batch remaining quantity. All stock mutations pass through
// Reserve and Release, which the implementation must execute as single
// atomic conditional updates (never read-then-write) so that two
// concurrent transactions racing on the same batch can never both
// succeed into negative stock.
type BatchRepository interface {
	// Create persists a new batch (receiving/restock workflow)
	Create(ctx context.Context, batch *Batch) error

	// FindByID returns a batch by its ID, shared.ErrNotFound if absent
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)

	// FindByProduct returns all batches of a product, including
	// depleted ones, in ledger order
	FindByProduct(ctx context.Context, productCode string) ([]Batch, error)

	// ListAvailable returns the product's batches with remaining
	// quantity > 0, ordered by expiry date asc, arrival date asc,
	// then id asc
	ListAvailable(ctx context.Context, productCode string) ([]Batch, error)

	// Reserve atomically decrements remaining quantity if and only if
	// the batch still holds at least quantity units. Returns
	// shared.ErrInsufficientStock when the conditional update matches
	// no row but the batch exists, shared.ErrNotFound otherwise.
	Reserve(ctx context.Context, batchID uuid.UUID, quantity int64) error

	// Release atomically increments remaining quantity, capped at the
	// initial snapshot. Returns shared.ErrInvalidRelease when the cap
	// would be exceeded.
	Release(ctx context.Context, batchID uuid.UUID, quantity int64) error

	// TotalStock returns the sum of remaining quantity across all
	// batches of the product. Zero for unknown products.
	TotalStock(ctx context.Context, productCode string) (int64, error)

	// ListExpiring returns non-depleted batches whose expiry date falls
	// on or before the given date, in ledger order
	ListExpiring(ctx context.Context, before time.Time) ([]Batch, error)
}
