package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// CertificationRequest is one named per-kg premium on a catalog entry
type CertificationRequest struct {
	Name    string          `json:"name" binding:"required"`
	Premium decimal.Decimal `json:"premium" binding:"required"`
}

// CreateCatalogEntryRequest is the payload for creating a price catalog entry.
// Prices and premiums are per kg.
type CreateCatalogEntryRequest struct {
	BasePrice      decimal.Decimal        `json:"base_price" binding:"required"`
	PremiumA       decimal.Decimal        `json:"premium_a"`
	PremiumB       decimal.Decimal        `json:"premium_b"`
	PremiumC       decimal.Decimal        `json:"premium_c"`
	EffectiveDate  *time.Time             `json:"effective_date"`
	Certifications []CertificationRequest `json:"certifications"`
}
