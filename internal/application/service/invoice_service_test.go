package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/entity"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	"github.com/harvestlink/coop-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedLot(pricePerTon, totalCost int64) *entity.StockLot {
	return &entity.StockLot{
		ID:               uuid.New(),
		ProducerID:       uuid.New(),
		Quality:          enum.QualityGradeA,
		Quantity:         2.0,
		OriginalQuantity: 2.0,
		PricePerTon:      pricePerTon,
		TotalCost:        totalCost,
	}
}

func TestEnsure(t *testing.T) {
	ctx := context.Background()

	t.Run("creates invoice with frozen terms", func(t *testing.T) {
		env := newTestEnv()
		lot := env.stocks.add(pricedLot(500000, 1000000))

		invoice, created, err := env.invoiceSvc.Ensure(ctx, lot)
		require.NoError(t, err)
		require.NotNil(t, invoice)
		assert.True(t, created)

		assert.Equal(t, lot.ID, invoice.StockID)
		assert.Equal(t, lot.ProducerID, invoice.ProducerID)
		assert.Equal(t, int64(1000000), invoice.TotalAmount)
		assert.Equal(t, 2.0, invoice.Quantity)
		assert.Zero(t, invoice.AmountPaid)
		assert.Equal(t, enum.PaymentStatusPending, invoice.PaymentStatus)
		assert.Contains(t, invoice.InvoiceNumber, "INV-"+time.Now().Format("20060102"))
		assert.Equal(t, invoice.IssueDate.AddDate(0, 0, 30), invoice.DueDate)
	})

	t.Run("is idempotent", func(t *testing.T) {
		env := newTestEnv()
		lot := env.stocks.add(pricedLot(500000, 1000000))

		first, created, err := env.invoiceSvc.Ensure(ctx, lot)
		require.NoError(t, err)
		assert.True(t, created)

		second, created, err := env.invoiceSvc.Ensure(ctx, lot)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
		assert.Equal(t, 1, env.invoices.count())
	})

	t.Run("skips combined lot", func(t *testing.T) {
		env := newTestEnv()
		target := uuid.New()
		lot := env.stocks.add(&entity.StockLot{
			Quality:           enum.QualityGradeA,
			PricePerTon:       500000,
			TotalCost:         1000000,
			IsCombined:        true,
			CombinedIntoStock: &target,
		})

		invoice, created, err := env.invoiceSvc.Ensure(ctx, lot)
		require.NoError(t, err)
		assert.Nil(t, invoice)
		assert.False(t, created)
		assert.Zero(t, env.invoices.count())
	})

	t.Run("skips lot without price data", func(t *testing.T) {
		env := newTestEnv()
		lot := env.stocks.add(&entity.StockLot{Quality: enum.QualityGradeB, Quantity: 3})

		invoice, created, err := env.invoiceSvc.Ensure(ctx, lot)
		require.NoError(t, err)
		assert.Nil(t, invoice)
		assert.False(t, created)
	})

	t.Run("falls back to quantity when original quantity absent", func(t *testing.T) {
		env := newTestEnv()
		lot := env.stocks.add(&entity.StockLot{
			Quality:     enum.QualityGradeA,
			Quantity:    1.5,
			PricePerTon: 400000,
			TotalCost:   600000,
		})

		invoice, _, err := env.invoiceSvc.Ensure(ctx, lot)
		require.NoError(t, err)
		require.NotNil(t, invoice)
		assert.Equal(t, 1.5, invoice.Quantity)
		assert.Equal(t, int64(600000), invoice.TotalAmount)
	})

	t.Run("freezes per-kg breakdown from the active catalog entry", func(t *testing.T) {
		env := newTestEnv()
		entry := &entity.PriceCatalogEntry{
			BasePrice: dec(400),
			PremiumA:  dec(50),
			Status:    enum.CatalogStatusActive,
			Certifications: []entity.CatalogCertification{
				{Name: "Organic", Premium: dec(20)},
			},
		}
		require.NoError(t, env.catalog.Create(ctx, entry))

		lot := env.stocks.add(pricedLot(470000, 1175000))
		invoice, _, err := env.invoiceSvc.Ensure(ctx, lot)
		require.NoError(t, err)

		assert.True(t, invoice.BasePrice.Equal(dec(400)))
		assert.True(t, invoice.QualityPremium.Equal(dec(50)))
		assert.True(t, invoice.CertificationPremium.Equal(dec(20)))
	})

	t.Run("seeds paid amount from a lot paid before invoicing", func(t *testing.T) {
		env := newTestEnv()
		lot := pricedLot(500000, 1000000)
		lot.AmountPaid = 300000
		lot.PaymentStatus = enum.PaymentStatusPartial
		env.stocks.add(lot)

		invoice, _, err := env.invoiceSvc.Ensure(ctx, lot)
		require.NoError(t, err)
		assert.Equal(t, int64(300000), invoice.AmountPaid)
		assert.Equal(t, enum.PaymentStatusPartial, invoice.PaymentStatus)
	})

	t.Run("surfaces duplicate invoices loudly", func(t *testing.T) {
		env := newTestEnv()
		lot := env.stocks.add(pricedLot(500000, 1000000))

		_, _, err := env.invoiceSvc.Ensure(ctx, lot)
		require.NoError(t, err)
		env.invoices.injectDuplicate(&entity.Invoice{
			StockID:       lot.ID,
			InvoiceNumber: "INV-00000000-XXXXXX",
		})

		_, _, err = env.invoiceSvc.Ensure(ctx, lot)
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
	})

	t.Run("concurrent calls create exactly one invoice", func(t *testing.T) {
		env := newTestEnv()
		lot := env.stocks.add(pricedLot(500000, 1000000))

		const workers = 16
		var wg sync.WaitGroup
		results := make([]*entity.Invoice, workers)
		errs := make([]error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _, errs[i] = env.invoiceSvc.Ensure(ctx, lot)
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, env.invoices.count())
		winner := env.invoices.forStock(lot.ID)
		require.NotNil(t, winner)
		for i := 0; i < workers; i++ {
			require.NoError(t, errs[i])
			require.NotNil(t, results[i])
			assert.Equal(t, winner.ID, results[i].ID)
		}
	})
}

func TestEnsureForStock(t *testing.T) {
	ctx := context.Background()

	t.Run("missing lot is an error", func(t *testing.T) {
		env := newTestEnv()
		_, _, err := env.invoiceSvc.EnsureForStock(ctx, uuid.New())
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})

	t.Run("loads lot and creates invoice", func(t *testing.T) {
		env := newTestEnv()
		lot := env.stocks.add(pricedLot(500000, 1000000))

		invoice, created, err := env.invoiceSvc.EnsureForStock(ctx, lot.ID)
		require.NoError(t, err)
		require.NotNil(t, invoice)
		assert.True(t, created)
	})
}

func TestEnsureAll(t *testing.T) {
	ctx := context.Background()

	t.Run("creates invoices for eligible lots and reports the count", func(t *testing.T) {
		env := newTestEnv()
		env.stocks.add(pricedLot(500000, 1000000))
		env.stocks.add(pricedLot(400000, 800000))
		unpriced := env.stocks.add(&entity.StockLot{Quality: enum.QualityGradeC, Quantity: 1})

		lots, err := env.stocks.List(ctx, stockFilterAll())
		require.NoError(t, err)

		created, err := env.invoiceSvc.EnsureAll(ctx, lots)
		require.NoError(t, err)
		assert.Equal(t, 2, created)
		assert.Nil(t, env.invoices.forStock(unpriced.ID))
	})

	t.Run("second sweep creates nothing", func(t *testing.T) {
		env := newTestEnv()
		env.stocks.add(pricedLot(500000, 1000000))
		env.stocks.add(pricedLot(400000, 800000))

		lots, err := env.stocks.List(ctx, stockFilterAll())
		require.NoError(t, err)

		created, err := env.invoiceSvc.EnsureAll(ctx, lots)
		require.NoError(t, err)
		assert.Equal(t, 2, created)

		created, err = env.invoiceSvc.EnsureAll(ctx, lots)
		require.NoError(t, err)
		assert.Zero(t, created)
		assert.Equal(t, 2, env.invoices.count())
	})

	t.Run("stops between lots when cancelled", func(t *testing.T) {
		env := newTestEnv()
		env.stocks.add(pricedLot(500000, 1000000))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		created, err := env.invoiceSvc.EnsureAll(cancelled, []entity.StockLot{*pricedLot(1, 1)})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, created)
	})
}
