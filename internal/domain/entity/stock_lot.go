package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	"gorm.io/gorm"
)

// StockLot is a priced, quantified batch of product awaiting or undergoing
// payment. Lots are created by the collection registry; this engine owns
// only the derived fields: PricePerTon, TotalCost, AmountPaid and
// PaymentStatus. Quantities are metric tons, monetary amounts integer
// currency units.
type StockLot struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ProducerID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"producer_id"`
	CollectionDate   time.Time         `gorm:"type:date" json:"collection_date"`
	Quality          enum.QualityGrade `gorm:"size:1;not null" json:"quality"`
	Quantity         float64           `gorm:"type:decimal(12,3);not null" json:"quantity"`
	OriginalQuantity float64           `gorm:"type:decimal(12,3)" json:"original_quantity"`
	PricePerTon      int64             `gorm:"not null;default:0" json:"price_per_ton"`
	TotalCost        int64             `gorm:"not null;default:0" json:"total_cost"`
	AmountPaid       int64             `gorm:"not null;default:0" json:"amount_paid"`
	PaymentStatus    enum.PaymentStatus `gorm:"default:0" json:"payment_status"`

	// Set by the external merge operation. Once a lot is combined into
	// another it is permanently excluded from invoicing and payment.
	IsCombined        bool       `gorm:"not null;default:false" json:"is_combined"`
	CombinedIntoStock *uuid.UUID `gorm:"type:uuid" json:"combined_into_stock,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new stock lot
func (s *StockLot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockLot model
func (StockLot) TableName() string {
	return "stock_lots"
}

// Combined reports whether the lot was consumed into another lot
func (s *StockLot) Combined() bool {
	return s.IsCombined || s.CombinedIntoStock != nil
}

// HasValuation reports whether the lot carries usable price data
func (s *StockLot) HasValuation() bool {
	return s.PricePerTon > 0 && s.TotalCost > 0
}

// InvoiceQuantity is the tonnage invoices are issued against: the quantity
// at creation time, which does not shrink when the lot is partially
// combined. Older lots may predate OriginalQuantity, hence the fallback.
func (s *StockLot) InvoiceQuantity() float64 {
	if s.OriginalQuantity > 0 {
		return s.OriginalQuantity
	}
	return s.Quantity
}

// RemainingBalance is the amount still owed against the lot's valuation
func (s *StockLot) RemainingBalance() int64 {
	return s.TotalCost - s.AmountPaid
}
