package service

import (
	"context"

	"github.com/harvestlink/coop-api/internal/domain/enum"
	"github.com/harvestlink/coop-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// ReconciliationService runs the bulk sweeps: revalue every stock lot
// against the active price catalog entry, and ensure every eligible lot has
// an invoice. Both sweeps are idempotent and may be triggered redundantly
// by independent callers; a sweep interrupted after K of N lots leaves each
// processed lot individually consistent, so re-running from scratch is
// correct, merely redundant.
type ReconciliationService struct {
	stockRepo      repository.StockLotRepository
	catalogRepo    repository.PriceCatalogRepository
	invoiceService *InvoiceService
	valuation      *ValuationEngine
	logger         zerolog.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	stockRepo repository.StockLotRepository,
	catalogRepo repository.PriceCatalogRepository,
	invoiceService *InvoiceService,
	valuation *ValuationEngine,
	logger zerolog.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		stockRepo:      stockRepo,
		catalogRepo:    catalogRepo,
		invoiceService: invoiceService,
		valuation:      valuation,
		logger:         logger.With().Str("component", "reconciliation_service").Logger(),
	}
}

// RevalueAll recomputes valuation for every non-combined lot from the
// currently active catalog entry and returns how many lots changed. With no
// active entry, already-priced lots are left untouched rather than zeroed:
// a briefly empty catalog must not destroy historical valuation.
func (s *ReconciliationService) RevalueAll(ctx context.Context) (int, error) {
	entry, err := s.catalogRepo.GetActive(ctx)
	if err != nil {
		return 0, err
	}
	if entry == nil {
		s.logger.Info().Msg("no active catalog entry, skipping revaluation")
		return 0, nil
	}

	lots, err := s.stockRepo.List(ctx, repository.StockLotFilter{ExcludeCombined: true})
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range lots {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		lot := &lots[i]
		pricePerTon, totalCost := s.valuation.Valuate(entry, lot.Quality, lot.InvoiceQuantity())
		if pricePerTon == lot.PricePerTon && totalCost == lot.TotalCost {
			continue
		}

		status := enum.DerivePaymentStatus(lot.AmountPaid, totalCost)
		if err := s.stockRepo.UpdateValuation(ctx, lot.ID, pricePerTon, totalCost, status); err != nil {
			return updated, err
		}
		updated++
	}

	s.logger.Info().Int("updated", updated).Int("total", len(lots)).Msg("revaluation sweep finished")
	return updated, nil
}

// EnsureInvoicesForAllStocks creates invoices for every non-combined lot
// with valid pricing and returns the created count. Calling it twice with
// no intervening state change creates nothing on the second call.
func (s *ReconciliationService) EnsureInvoicesForAllStocks(ctx context.Context) (int, error) {
	lots, err := s.stockRepo.List(ctx, repository.StockLotFilter{
		ExcludeCombined: true,
		PricedOnly:      true,
	})
	if err != nil {
		return 0, err
	}

	created, err := s.invoiceService.EnsureAll(ctx, lots)
	if err != nil {
		return created, err
	}

	s.logger.Info().Int("created", created).Int("eligible", len(lots)).Msg("invoice sweep finished")
	return created, nil
}
