package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptrade "github.com/retailpos/backend/internal/application/trade"
)

func TestGormTransactionScope_RollbackOnError(t *testing.T) {
	db := setupLedgerTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	batch := seedBatch(t, NewGormBatchRepository(db), "MILK", "B-1", 10, base, base.AddDate(0, 3, 0))

	boom := errors.New("submission failed")
	err := scope.Execute(ctx, func(repos apptrade.Repositories) error {
		if err := repos.Batches.Reserve(ctx, batch.ID, 6); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := NewGormBatchRepository(db).FindByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stored.RemainingQuantity)
}

func TestGormTransactionScope_CommitOnSuccess(t *testing.T) {
	db := setupLedgerTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	batch := seedBatch(t, NewGormBatchRepository(db), "MILK", "B-1", 10, base, base.AddDate(0, 3, 0))

	err := scope.Execute(ctx, func(repos apptrade.Repositories) error {
		return repos.Batches.Reserve(ctx, batch.ID, 6)
	})
	require.NoError(t, err)

	stored, err := NewGormBatchRepository(db).FindByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stored.RemainingQuantity)
}
