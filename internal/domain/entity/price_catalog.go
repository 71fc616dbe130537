package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceCatalogEntry is a versioned pricing rule set. All prices are per kg
// in fractional currency units; rounding to whole currency units happens
// only when a lot is valued.
type PriceCatalogEntry struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	BasePrice     decimal.Decimal    `gorm:"type:decimal(15,4);not null" json:"base_price"`
	PremiumA      decimal.Decimal    `gorm:"type:decimal(15,4);not null;default:0" json:"premium_a"`
	PremiumB      decimal.Decimal    `gorm:"type:decimal(15,4);not null;default:0" json:"premium_b"`
	PremiumC      decimal.Decimal    `gorm:"type:decimal(15,4);not null;default:0" json:"premium_c"`
	EffectiveDate time.Time          `gorm:"type:date" json:"effective_date"`
	Status        enum.CatalogStatus `gorm:"size:16;not null;default:'inactive';index" json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Certifications []CatalogCertification `gorm:"foreignKey:EntryID" json:"certifications,omitempty"`
}

// BeforeCreate generates a UUID before creating a new catalog entry
func (e *PriceCatalogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PriceCatalogEntry model
func (PriceCatalogEntry) TableName() string {
	return "price_catalog_entries"
}

// QualityPremium returns the per-kg premium for the given grade
func (e *PriceCatalogEntry) QualityPremium(grade enum.QualityGrade) decimal.Decimal {
	switch grade {
	case enum.QualityGradeA:
		return e.PremiumA
	case enum.QualityGradeB:
		return e.PremiumB
	case enum.QualityGradeC:
		return e.PremiumC
	}
	return decimal.Zero
}

// CertificationPremium returns the summed per-kg premium of all
// certifications attached to the entry
func (e *PriceCatalogEntry) CertificationPremium() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range e.Certifications {
		sum = sum.Add(c.Premium)
	}
	return sum
}

// CatalogCertification is a named per-kg premium attached to a catalog
// entry, e.g. an organic certification.
type CatalogCertification struct {
	ID      uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	EntryID uuid.UUID       `gorm:"type:uuid;not null;index" json:"entry_id"`
	Name    string          `gorm:"size:100;not null" json:"name"`
	Premium decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"premium"`
}

// BeforeCreate generates a UUID before creating a new certification
func (c *CatalogCertification) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CatalogCertification model
func (CatalogCertification) TableName() string {
	return "catalog_certifications"
}
