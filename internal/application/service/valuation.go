package service

import (
	"github.com/harvestlink/coop-api/internal/domain/entity"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Catalog prices are per kg; stock lot quantities are metric tons.
const kgPerTon = 1000

// ValuationEngine derives monetary value for a stock lot from a price
// catalog entry. It is pure: no storage, no side effects.
type ValuationEngine struct{}

// NewValuationEngine creates a new valuation engine
func NewValuationEngine() *ValuationEngine {
	return &ValuationEngine{}
}

// Valuate computes (pricePerTon, totalCost) in whole currency units for a
// lot of the given quality and tonnage.
//
// unit price per kg = base price + quality premium + sum of certification
// premiums; pricePerTon and totalCost are rounded half away from zero at
// the final step only, so intermediate per-kg values keep their fractional
// precision. A nil entry (no active catalog) yields (0, 0): callers must
// treat such lots as missing price data, not as free.
func (e *ValuationEngine) Valuate(entry *entity.PriceCatalogEntry, quality enum.QualityGrade, tons float64) (pricePerTon, totalCost int64) {
	if entry == nil {
		return 0, 0
	}

	unitPerKg := entry.BasePrice.
		Add(entry.QualityPremium(quality)).
		Add(entry.CertificationPremium())

	perTon := unitPerKg.Mul(decimal.NewFromInt(kgPerTon)).Round(0)
	total := perTon.Mul(decimal.NewFromFloat(tons)).Round(0)

	return perTon.IntPart(), total.IntPart()
}
