package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/entity"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	domainRepo "github.com/harvestlink/coop-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create inserts a new invoice. The unique index on stock_id makes this the
// serialization point for concurrent creation: the loser of the race gets
// ErrDuplicateInvoice instead of a second row.
func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	err := r.db.WithContext(ctx).Create(invoice).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateInvoice
	}
	return err
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_records.created_at ASC")
		}).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) ListByStockID(ctx context.Context, stockID uuid.UUID) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Limit(2).
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{})

	if params.ProducerID != nil {
		query = query.Where("producer_id = ?", *params.ProducerID)
	}
	if params.Status != nil {
		query = query.Where("payment_status = ?", *params.Status)
	}
	if params.IssuedFrom != nil {
		query = query.Where("issue_date >= ?", *params.IssuedFrom)
	}
	if params.IssuedTo != nil {
		query = query.Where("issue_date <= ?", *params.IssuedTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("issue_date DESC, invoice_number DESC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) AppendPayment(ctx context.Context, record *entity.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *invoiceRepository) UpdatePayment(ctx context.Context, id uuid.UUID, amountPaid int64, status enum.PaymentStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount_paid":    amountPaid,
			"payment_status": status,
		}).Error
}
