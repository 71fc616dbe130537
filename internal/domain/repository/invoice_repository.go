package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/entity"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	"github.com/harvestlink/coop-api/pkg/pagination"
)

// ErrDuplicateInvoice is returned by Create when the unique index on
// stock_id rejects a second invoice for the same lot. Callers treat it as
// "lost the creation race" and re-fetch the winner.
var ErrDuplicateInvoice = errors.New("invoice already exists for stock lot")

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	ProducerID *uuid.UUID
	Status     *enum.PaymentStatus
	IssuedFrom *time.Time
	IssuedTo   *time.Time
}

// InvoiceRepository defines the interface for invoice data operations.
// Invoices are never deleted; monetary terms are written once at creation.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// ListByStockID returns every live invoice for the lot. More than one
	// element means the one-invoice-per-lot invariant is broken.
	ListByStockID(ctx context.Context, stockID uuid.UUID) ([]entity.Invoice, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	AppendPayment(ctx context.Context, record *entity.PaymentRecord) error
	UpdatePayment(ctx context.Context, id uuid.UUID, amountPaid int64, status enum.PaymentStatus) error
}
