package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/entity"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	"github.com/harvestlink/coop-api/internal/domain/repository"
	"github.com/harvestlink/coop-api/pkg/apperror"
	"github.com/rs/zerolog"
)

// PaymentInput describes one payment against a stock lot
type PaymentInput struct {
	Amount    int64
	Method    enum.PaymentMethod
	Date      time.Time
	Reference string
	Notes     string
}

// PaymentService applies payments to a stock lot and its invoice, keeping
// the two consistent. The lot update is durable before any invoice work so
// that a crash in between leaves the lot as the source of truth; the
// invoice side is safely re-runnable when the caller retries the whole
// operation.
type PaymentService struct {
	stockRepo      repository.StockLotRepository
	invoiceRepo    repository.InvoiceRepository
	invoiceService *InvoiceService
	logger         zerolog.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	stockRepo repository.StockLotRepository,
	invoiceRepo repository.InvoiceRepository,
	invoiceService *InvoiceService,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		stockRepo:      stockRepo,
		invoiceRepo:    invoiceRepo,
		invoiceService: invoiceService,
		logger:         logger.With().Str("component", "payment_service").Logger(),
	}
}

// ApplyPayment records a payment against the lot and its invoice. Payments
// against combined lots are a silent no-op: the consuming lot is the target
// of payment, not the consumed one. Returns the updated invoice, or nil for
// the no-op and not-yet-invoiceable cases.
func (s *PaymentService) ApplyPayment(ctx context.Context, stockID uuid.UUID, input PaymentInput) (*entity.Invoice, error) {
	lot, err := s.stockRepo.GetByID(ctx, stockID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, apperror.NewNotFoundError("Stock lot")
	}

	if lot.Combined() {
		s.logger.Info().Str("stock_id", stockID.String()).Msg("ignoring payment against combined lot")
		return nil, nil
	}

	if err := s.validate(lot, input); err != nil {
		return nil, err
	}

	newPaid := lot.AmountPaid + input.Amount
	status := enum.DerivePaymentStatus(newPaid, lot.TotalCost)

	// Lot first: the invoice side can always be re-derived from the lot,
	// not the other way round.
	if err := s.stockRepo.UpdatePayment(ctx, lot.ID, newPaid, status); err != nil {
		return nil, err
	}

	invoice, err := s.locateOrCreateInvoice(ctx, lot)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		// Lot has no price data yet, so no invoice can exist. The payment
		// is recorded on the lot; a later reconciliation sweep invoices it.
		s.logger.Warn().Str("stock_id", stockID.String()).Msg("payment recorded on lot without invoice")
		return nil, nil
	}

	record := &entity.PaymentRecord{
		InvoiceID: invoice.ID,
		Date:      paymentDate(input),
		Amount:    input.Amount,
		Method:    input.Method,
		Reference: input.Reference,
		Notes:     input.Notes,
	}
	if err := s.invoiceRepo.AppendPayment(ctx, record); err != nil {
		return nil, err
	}

	// The invoice's completion threshold is its own frozen TotalAmount,
	// which can differ from the lot's live TotalCost after a catalog change.
	invoicePaid := invoice.AmountPaid + input.Amount
	invoiceStatus := enum.DerivePaymentStatus(invoicePaid, invoice.TotalAmount)
	if err := s.invoiceRepo.UpdatePayment(ctx, invoice.ID, invoicePaid, invoiceStatus); err != nil {
		return nil, err
	}

	invoice.AmountPaid = invoicePaid
	invoice.PaymentStatus = invoiceStatus

	s.logger.Info().
		Str("stock_id", stockID.String()).
		Str("invoice_number", invoice.InvoiceNumber).
		Int64("amount", input.Amount).
		Str("status", invoiceStatus.String()).
		Msg("payment applied")
	return invoice, nil
}

// validate enforces the engine-side payment checks. The caller layer
// validates against remaining balance before ever reaching us; this is the
// defensive second line.
func (s *PaymentService) validate(lot *entity.StockLot, input PaymentInput) error {
	if input.Amount <= 0 {
		return apperror.NewInvalidPaymentError("payment amount must be positive")
	}
	if !input.Method.IsValid() {
		return apperror.NewInvalidPaymentError("unknown payment method")
	}
	// Lots without a valuation have no meaningful balance to check against.
	if lot.TotalCost > 0 && input.Amount > lot.RemainingBalance() {
		return apperror.NewInvalidPaymentError("payment exceeds remaining balance")
	}
	return nil
}

// locateOrCreateInvoice finds the lot's invoice; if none exists it tries to
// create one from the lot's pre-payment valuation and looks again. This is
// the recovery path for lots that became invoiceable only after the payment
// was initiated.
func (s *PaymentService) locateOrCreateInvoice(ctx context.Context, lot *entity.StockLot) (*entity.Invoice, error) {
	invoice, err := s.invoiceService.findForStock(ctx, lot.ID)
	if err != nil {
		return nil, err
	}
	if invoice != nil {
		return invoice, nil
	}

	if _, _, err := s.invoiceService.Ensure(ctx, lot); err != nil {
		return nil, err
	}
	return s.invoiceService.findForStock(ctx, lot.ID)
}

func paymentDate(input PaymentInput) time.Time {
	if input.Date.IsZero() {
		return time.Now()
	}
	return input.Date
}
