package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/shared"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestBatch(t *testing.T, productCode string, qty int64, expiry time.Time) *Batch {
	t.Helper()
	b, err := NewBatch(productCode, "LOT-"+expiry.Format("20060102"), decimal.NewFromFloat(2.50), qty, expiry.AddDate(0, -6, 0), expiry)
	require.NoError(t, err)
	return b
}

func TestNewBatch(t *testing.T) {
	t.Run("valid batch starts full", func(t *testing.T) {
		b, err := NewBatch("milk-1l", "LOT-001", decimal.NewFromFloat(0.80), 24, date(2025, 1, 10), date(2025, 3, 1))
		require.NoError(t, err)

		assert.Equal(t, "MILK-1L", b.ProductCode)
		assert.Equal(t, int64(24), b.InitialQuantity)
		assert.Equal(t, int64(24), b.RemainingQuantity)
		assert.True(t, b.HasStock())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewBatch("milk-1l", "LOT-001", decimal.Zero, 0, date(2025, 1, 10), date(2025, 3, 1))
		assert.Error(t, err)
	})

	t.Run("rejects expiry before arrival", func(t *testing.T) {
		_, err := NewBatch("milk-1l", "LOT-001", decimal.Zero, 10, date(2025, 3, 1), date(2025, 1, 10))
		assert.Error(t, err)
	})

	t.Run("rejects empty product code", func(t *testing.T) {
		_, err := NewBatch("  ", "LOT-001", decimal.Zero, 10, date(2025, 1, 10), date(2025, 3, 1))
		assert.Error(t, err)
	})
}

func TestBatchDeduct(t *testing.T) {
	t.Run("deduct within stock", func(t *testing.T) {
		b := newTestBatch(t, "P1", 10, date(2025, 6, 1))

		require.NoError(t, b.Deduct(6))
		assert.Equal(t, int64(4), b.RemainingQuantity)
		assert.Equal(t, int64(10), b.InitialQuantity)
	})

	t.Run("deduct to zero keeps batch", func(t *testing.T) {
		b := newTestBatch(t, "P1", 10, date(2025, 6, 1))

		require.NoError(t, b.Deduct(10))
		assert.Equal(t, int64(0), b.RemainingQuantity)
		assert.False(t, b.HasStock())
	})

	t.Run("deduct beyond stock fails without mutation", func(t *testing.T) {
		b := newTestBatch(t, "P1", 5, date(2025, 6, 1))

		err := b.Deduct(6)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(5), b.RemainingQuantity)
	})

	t.Run("deduct zero rejected", func(t *testing.T) {
		b := newTestBatch(t, "P1", 5, date(2025, 6, 1))
		assert.Error(t, b.Deduct(0))
	})
}

func TestBatchRestore(t *testing.T) {
	t.Run("restore after deduct returns to prior level", func(t *testing.T) {
		b := newTestBatch(t, "P1", 10, date(2025, 6, 1))

		require.NoError(t, b.Deduct(7))
		require.NoError(t, b.Restore(7))
		assert.Equal(t, int64(10), b.RemainingQuantity)
	})

	t.Run("restore beyond initial snapshot fails", func(t *testing.T) {
		b := newTestBatch(t, "P1", 10, date(2025, 6, 1))

		require.NoError(t, b.Deduct(3))
		err := b.Restore(4)
		assert.ErrorIs(t, err, shared.ErrInvalidRelease)
		assert.Equal(t, int64(7), b.RemainingQuantity)
	})
}

func TestBatchIsExpired(t *testing.T) {
	b := newTestBatch(t, "P1", 10, date(2025, 6, 1))

	assert.False(t, b.IsExpired(date(2025, 5, 31)))
	assert.True(t, b.IsExpired(date(2025, 6, 2)))
}
