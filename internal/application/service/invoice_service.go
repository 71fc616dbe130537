package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/entity"
	"github.com/harvestlink/coop-api/internal/domain/repository"
	"github.com/harvestlink/coop-api/pkg/apperror"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Invoices fall due this long after issuance.
const invoiceDueDays = 30

// InvoiceService maintains the one-invoice-per-stock-lot mapping. Creation
// is lazy and idempotent: Ensure can be called any number of times, from
// any number of concurrent callers, and at most one invoice ever exists
// per lot.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	stockRepo   repository.StockLotRepository
	catalogRepo repository.PriceCatalogRepository
	logger      zerolog.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	stockRepo repository.StockLotRepository,
	catalogRepo repository.PriceCatalogRepository,
	logger zerolog.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		stockRepo:   stockRepo,
		catalogRepo: catalogRepo,
		logger:      logger.With().Str("component", "invoice_service").Logger(),
	}
}

// EnsureForStock loads the lot and delegates to Ensure. A missing lot is an
// error; an ineligible lot is not (nil invoice, nil error).
func (s *InvoiceService) EnsureForStock(ctx context.Context, stockID uuid.UUID) (*entity.Invoice, bool, error) {
	lot, err := s.stockRepo.GetByID(ctx, stockID)
	if err != nil {
		return nil, false, err
	}
	if lot == nil {
		return nil, false, apperror.NewNotFoundError("Stock lot")
	}
	return s.Ensure(ctx, lot)
}

// Ensure returns the lot's invoice, creating it if absent. The returned
// bool reports whether this call created it.
//
// Combined lots and lots without price data are skipped: (nil, false, nil).
// The existence check followed by an insert is racy on its own, so the
// insert leans on the unique index on stock_id; a loser of that race
// re-fetches and returns the winner's invoice.
func (s *InvoiceService) Ensure(ctx context.Context, lot *entity.StockLot) (*entity.Invoice, bool, error) {
	if lot.Combined() {
		s.logger.Debug().Str("stock_id", lot.ID.String()).Msg("skipping combined lot")
		return nil, false, nil
	}
	if !lot.HasValuation() {
		s.logger.Debug().Str("stock_id", lot.ID.String()).Msg("skipping lot without price data")
		return nil, false, nil
	}

	existing, err := s.findForStock(ctx, lot.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	// The per-kg breakdown is frozen from whatever entry is active at
	// issuance. No active entry leaves the breakdown zero; the total still
	// comes from the lot's stored valuation.
	entry, err := s.catalogRepo.GetActive(ctx)
	if err != nil {
		return nil, false, err
	}

	invoice := buildInvoice(lot, entry, time.Now())
	err = s.invoiceRepo.Create(ctx, invoice)
	if errors.Is(err, repository.ErrDuplicateInvoice) {
		// Lost the creation race; the winner's invoice stands.
		winner, ferr := s.findForStock(ctx, lot.ID)
		if ferr != nil {
			return nil, false, ferr
		}
		return winner, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().
		Str("stock_id", lot.ID.String()).
		Str("invoice_number", invoice.InvoiceNumber).
		Int64("total_amount", invoice.TotalAmount).
		Msg("invoice created")
	return invoice, true, nil
}

// EnsureAll calls Ensure for every lot and returns how many invoices this
// call created. Interrupting and re-running the sweep is always safe; each
// lot's invoice is individually durable.
func (s *InvoiceService) EnsureAll(ctx context.Context, lots []entity.StockLot) (int, error) {
	created := 0
	for i := range lots {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		_, wasCreated, err := s.Ensure(ctx, &lots[i])
		if err != nil {
			return created, err
		}
		if wasCreated {
			created++
		}
	}
	return created, nil
}

// GetByID returns an invoice with its payment history
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// List returns invoices matching the filter
func (s *InvoiceService) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, params)
}

// findForStock returns the lot's single invoice, nil when absent. Two live
// invoices for one lot means the uniqueness invariant is broken: surfaced
// loudly rather than silently picking one.
func (s *InvoiceService) findForStock(ctx context.Context, stockID uuid.UUID) (*entity.Invoice, error) {
	invoices, err := s.invoiceRepo.ListByStockID(ctx, stockID)
	if err != nil {
		return nil, err
	}
	switch len(invoices) {
	case 0:
		return nil, nil
	case 1:
		return &invoices[0], nil
	default:
		s.logger.Error().Str("stock_id", stockID.String()).Msg("duplicate invoices detected for stock lot")
		return nil, apperror.NewInvariantViolationError(
			fmt.Sprintf("multiple invoices exist for stock lot %s", stockID))
	}
}

// buildInvoice freezes the lot's current valuation into a new invoice.
// AmountPaid and PaymentStatus are seeded from the lot so a lot that was
// paid before becoming invoiceable starts consistent.
func buildInvoice(lot *entity.StockLot, entry *entity.PriceCatalogEntry, issue time.Time) *entity.Invoice {
	quantity := lot.InvoiceQuantity()

	invoice := &entity.Invoice{
		StockID:       lot.ID,
		ProducerID:    lot.ProducerID,
		InvoiceNumber: newInvoiceNumber(issue),
		IssueDate:     issue,
		DueDate:       issue.AddDate(0, 0, invoiceDueDays),
		Quantity:      quantity,
		TotalAmount: decimal.NewFromInt(lot.PricePerTon).
			Mul(decimal.NewFromFloat(quantity)).
			Round(0).IntPart(),
		AmountPaid:    lot.AmountPaid,
		PaymentStatus: lot.PaymentStatus,
	}
	if entry != nil {
		invoice.BasePrice = entry.BasePrice
		invoice.QualityPremium = entry.QualityPremium(lot.Quality)
		invoice.CertificationPremium = entry.CertificationPremium()
	}
	return invoice
}

// newInvoiceNumber builds a human-readable number with a date prefix and a
// random disambiguating suffix, e.g. INV-20260828-3F9A2C.
func newInvoiceNumber(issue time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("INV-%s-%s", issue.Format("20060102"), suffix)
}
