package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/entity"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeEntry(base float64) *entity.PriceCatalogEntry {
	return &entity.PriceCatalogEntry{
		ID:        uuid.New(),
		BasePrice: dec(base),
		PremiumA:  dec(50),
		PremiumB:  dec(30),
		PremiumC:  dec(10),
		Status:    enum.CatalogStatusActive,
	}
}

func TestRevalueAll(t *testing.T) {
	ctx := context.Background()

	t.Run("prices unvalued lots from the active entry", func(t *testing.T) {
		env := newTestEnv()
		require.NoError(t, env.catalog.Create(ctx, activeEntry(400)))
		lot := env.stocks.add(&entity.StockLot{
			Quality:          enum.QualityGradeA,
			Quantity:         2.5,
			OriginalQuantity: 2.5,
		})

		updated, err := env.reconSvc.RevalueAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, updated)

		stored := env.stocks.get(lot.ID)
		assert.Equal(t, int64(450000), stored.PricePerTon)
		assert.Equal(t, int64(1125000), stored.TotalCost)
		assert.Equal(t, enum.PaymentStatusPending, stored.PaymentStatus)
	})

	t.Run("is a no-op when values already match", func(t *testing.T) {
		env := newTestEnv()
		require.NoError(t, env.catalog.Create(ctx, activeEntry(400)))
		env.stocks.add(&entity.StockLot{
			Quality:          enum.QualityGradeA,
			Quantity:         2.5,
			OriginalQuantity: 2.5,
			PricePerTon:      450000,
			TotalCost:        1125000,
		})

		updated, err := env.reconSvc.RevalueAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, updated)
	})

	t.Run("leaves priced lots untouched when no entry is active", func(t *testing.T) {
		env := newTestEnv()
		lot := env.stocks.add(pricedLot(500000, 1000000))

		updated, err := env.reconSvc.RevalueAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, updated)

		stored := env.stocks.get(lot.ID)
		assert.Equal(t, int64(500000), stored.PricePerTon)
		assert.Equal(t, int64(1000000), stored.TotalCost)
	})

	t.Run("skips combined lots", func(t *testing.T) {
		env := newTestEnv()
		require.NoError(t, env.catalog.Create(ctx, activeEntry(400)))
		target := uuid.New()
		lot := env.stocks.add(&entity.StockLot{
			Quality:           enum.QualityGradeA,
			Quantity:          2.5,
			IsCombined:        true,
			CombinedIntoStock: &target,
		})

		updated, err := env.reconSvc.RevalueAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, updated)
		assert.Zero(t, env.stocks.get(lot.ID).PricePerTon)
	})

	t.Run("recomputes payment status against the new total", func(t *testing.T) {
		env := newTestEnv()
		require.NoError(t, env.catalog.Create(ctx, activeEntry(400)))
		lot := pricedLot(500000, 1000000)
		lot.Quality = enum.QualityGradeA
		lot.AmountPaid = 1000000
		lot.PaymentStatus = enum.PaymentStatusCompleted
		env.stocks.add(lot)

		// New valuation: 450000/ton over 2 t = 900000; the lot is now overpaid
		// and stays completed.
		updated, err := env.reconSvc.RevalueAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, updated)

		stored := env.stocks.get(lot.ID)
		assert.Equal(t, int64(900000), stored.TotalCost)
		assert.Equal(t, enum.PaymentStatusCompleted, stored.PaymentStatus)
	})

	t.Run("revalues against original quantity even when the lot shrank", func(t *testing.T) {
		env := newTestEnv()
		require.NoError(t, env.catalog.Create(ctx, activeEntry(400)))
		lot := env.stocks.add(&entity.StockLot{
			Quality:          enum.QualityGradeB,
			Quantity:         1.0, // partially combined elsewhere
			OriginalQuantity: 3.0,
		})

		_, err := env.reconSvc.RevalueAll(ctx)
		require.NoError(t, err)

		stored := env.stocks.get(lot.ID)
		assert.Equal(t, int64(430000), stored.PricePerTon)
		assert.Equal(t, int64(1290000), stored.TotalCost)
	})

	t.Run("stops between lots when cancelled", func(t *testing.T) {
		env := newTestEnv()
		require.NoError(t, env.catalog.Create(ctx, activeEntry(400)))
		env.stocks.add(&entity.StockLot{Quality: enum.QualityGradeA, Quantity: 1})

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := env.reconSvc.RevalueAll(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEnsureInvoicesForAllStocks(t *testing.T) {
	ctx := context.Background()

	t.Run("invoices every priced, non-combined lot exactly once", func(t *testing.T) {
		env := newTestEnv()
		env.stocks.add(pricedLot(500000, 1000000))
		env.stocks.add(pricedLot(400000, 800000))
		env.stocks.add(&entity.StockLot{Quality: enum.QualityGradeC, Quantity: 1}) // unpriced
		target := uuid.New()
		env.stocks.add(&entity.StockLot{ // combined
			PricePerTon:       500000,
			TotalCost:         1000000,
			IsCombined:        true,
			CombinedIntoStock: &target,
		})

		created, err := env.reconSvc.EnsureInvoicesForAllStocks(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, created)

		created, err = env.reconSvc.EnsureInvoicesForAllStocks(ctx)
		require.NoError(t, err)
		assert.Zero(t, created)
		assert.Equal(t, 2, env.invoices.count())
	})
}
