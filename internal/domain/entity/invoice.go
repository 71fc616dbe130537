package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is the billing record for a single stock lot. Monetary terms are
// frozen at creation and never revised by later catalog changes; only
// AmountPaid, PaymentStatus and the payment history mutate afterwards.
// Invoices are never deleted. The unique index on StockID is what enforces
// the one-invoice-per-lot invariant under concurrent creation.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StockID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"stock_id"`
	ProducerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"producer_id"`
	InvoiceNumber string    `gorm:"size:100;unique;not null" json:"invoice_number"`
	IssueDate     time.Time `gorm:"type:date;not null" json:"issue_date"`
	DueDate       time.Time `gorm:"type:date;not null" json:"due_date"`

	// Frozen at creation from the lot's valuation
	Quantity             float64         `gorm:"type:decimal(12,3);not null" json:"quantity"`
	BasePrice            decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"base_price"`
	QualityPremium       decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0" json:"quality_premium"`
	CertificationPremium decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0" json:"certification_premium"`
	TotalAmount          int64           `gorm:"not null" json:"total_amount"`

	// Mutable, mirrors the stock lot
	AmountPaid    int64              `gorm:"not null;default:0" json:"amount_paid"`
	PaymentStatus enum.PaymentStatus `gorm:"default:0" json:"payment_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Payments []PaymentRecord `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// RemainingBalance is the amount still owed against the invoice's frozen total
func (i *Invoice) RemainingBalance() int64 {
	return i.TotalAmount - i.AmountPaid
}

// PaymentRecord is one entry in an invoice's append-only payment history.
// Records are immutable once written.
type PaymentRecord struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID          `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Date      time.Time          `gorm:"not null" json:"date"`
	Amount    int64              `gorm:"not null" json:"amount"`
	Method    enum.PaymentMethod `gorm:"size:32;not null" json:"method"`
	Reference string             `gorm:"size:255" json:"reference,omitempty"`
	Notes     string             `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new payment record
func (p *PaymentRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentRecord model
func (PaymentRecord) TableName() string {
	return "payment_records"
}
