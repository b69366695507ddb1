package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustBatch(t *testing.T, productCode, batchCode string, quantity int64, expiry time.Time) *inventory.Batch {
	t.Helper()
	b, err := inventory.NewBatch(productCode, batchCode, amount("2.00"), quantity, expiry.AddDate(0, -6, 0), expiry)
	require.NoError(t, err)
	return b
}

func mustProduct(t *testing.T, code, name, sellPrice string, minStock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(code, name, amount(sellPrice), minStock)
	require.NoError(t, err)
	return p
}

func adminActor() Actor {
	return Actor{UserID: uuid.New(), Username: "alice", Role: RoleAdmin}
}

func cashierActor() Actor {
	return Actor{UserID: uuid.New(), Username: "bob", Role: "cashier"}
}

func TestStockCoordinator_Execute(t *testing.T) {
	ctx := context.Background()
	coordinator := NewStockCoordinator(zap.NewNop())

	t.Run("draws from earliest expiring batch first", func(t *testing.T) {
		early := mustBatch(t, "MILK", "B1", 4, day(2025, time.March, 1))
		late := mustBatch(t, "MILK", "B2", 10, day(2025, time.June, 1))
		repo := newMemBatchRepo(early, late)

		planned, err := coordinator.Execute(ctx, repo, []Line{
			{ProductCode: "MILK", Quantity: 6, UnitPrice: amount("3.50")},
		})
		require.NoError(t, err)
		require.Len(t, planned, 1)
		require.Len(t, planned[0].Plan, 2)

		assert.Equal(t, early.ID, planned[0].Plan[0].BatchID)
		assert.Equal(t, int64(4), planned[0].Plan[0].Quantity)
		assert.Equal(t, late.ID, planned[0].Plan[1].BatchID)
		assert.Equal(t, int64(2), planned[0].Plan[1].Quantity)

		assert.Equal(t, int64(0), repo.remaining(early.ID))
		assert.Equal(t, int64(8), repo.remaining(late.ID))
	})

	t.Run("insufficient stock leaves ledger untouched", func(t *testing.T) {
		b1 := mustBatch(t, "MILK", "B1", 5, day(2025, time.March, 1))
		b2 := mustBatch(t, "MILK", "B2", 3, day(2025, time.June, 1))
		repo := newMemBatchRepo(b1, b2)

		_, err := coordinator.Execute(ctx, repo, []Line{
			{ProductCode: "MILK", Quantity: 20, UnitPrice: amount("3.50")},
		})
		require.Error(t, err)

		var insufficient *inventory.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(20), insufficient.Requested)
		assert.Equal(t, int64(8), insufficient.Available)

		assert.Equal(t, int64(5), repo.remaining(b1.ID))
		assert.Equal(t, int64(3), repo.remaining(b2.ID))
	})

	t.Run("one short line aborts the whole transaction", func(t *testing.T) {
		milk := mustBatch(t, "MILK", "B1", 10, day(2025, time.March, 1))
		bread := mustBatch(t, "BREAD", "B2", 2, day(2025, time.March, 1))
		repo := newMemBatchRepo(milk, bread)

		_, err := coordinator.Execute(ctx, repo, []Line{
			{ProductCode: "MILK", Quantity: 5, UnitPrice: amount("3.50")},
			{ProductCode: "BREAD", Quantity: 4, UnitPrice: amount("1.20")},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

		// Planning aborted before any reserve, so nothing moved
		assert.Equal(t, int64(10), repo.remaining(milk.ID))
		assert.Equal(t, int64(2), repo.remaining(bread.ID))
	})

	t.Run("rejects empty line list", func(t *testing.T) {
		repo := newMemBatchRepo()
		_, err := coordinator.Execute(ctx, repo, nil)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestStockCoordinator_ReserveAll_CompensatesOnRace(t *testing.T) {
	ctx := context.Background()
	coordinator := NewStockCoordinator(zap.NewNop())

	milk := mustBatch(t, "MILK", "B1", 5, day(2025, time.March, 1))
	bread := mustBatch(t, "BREAD", "B2", 5, day(2025, time.March, 1))
	repo := newMemBatchRepo(milk, bread)

	// A concurrent transaction consumes the bread batch between the
	// planning and reserve phases
	repo.beforeReserve = func(batchID uuid.UUID) {
		if batchID == bread.ID {
			repo.mu.Lock()
			repo.batches[bread.ID].RemainingQuantity = 2
			repo.mu.Unlock()
		}
	}

	_, err := coordinator.Execute(ctx, repo, []Line{
		{ProductCode: "MILK", Quantity: 3, UnitPrice: amount("3.50")},
		{ProductCode: "BREAD", Quantity: 4, UnitPrice: amount("1.20")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))

	// The milk reserve that already went through was released again
	assert.Equal(t, int64(5), repo.remaining(milk.ID))
	assert.Equal(t, int64(2), repo.remaining(bread.ID))
}

func TestStockCoordinator_ReleasePlanned(t *testing.T) {
	ctx := context.Background()
	coordinator := NewStockCoordinator(zap.NewNop())

	b1 := mustBatch(t, "MILK", "B1", 4, day(2025, time.March, 1))
	b2 := mustBatch(t, "MILK", "B2", 10, day(2025, time.June, 1))
	repo := newMemBatchRepo(b1, b2)

	planned, err := coordinator.Execute(ctx, repo, []Line{
		{ProductCode: "MILK", Quantity: 6, UnitPrice: amount("3.50")},
	})
	require.NoError(t, err)

	require.NoError(t, coordinator.ReleasePlanned(ctx, repo, planned))
	assert.Equal(t, int64(4), repo.remaining(b1.ID))
	assert.Equal(t, int64(10), repo.remaining(b2.ID))

	// A second release would push batches past their initial quantity
	err = coordinator.ReleasePlanned(ctx, repo, planned)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidRelease))
}
