package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/entity"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	"github.com/harvestlink/coop-api/pkg/pagination"
)

// StockLotFilter narrows stock lot queries. Zero value matches everything.
type StockLotFilter struct {
	ExcludeCombined bool
	PricedOnly      bool
	ProducerID      *uuid.UUID
	Status          *enum.PaymentStatus
}

// StockLotRepository defines the engine's view of the external stock
// registry: reads plus a patch write restricted to the derived fields
// (valuation and payment). Lot creation and combination happen elsewhere.
type StockLotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.StockLot, error)
	List(ctx context.Context, filter StockLotFilter) ([]entity.StockLot, error)
	ListPaged(ctx context.Context, filter StockLotFilter, params *pagination.PaginationParams) ([]entity.StockLot, int64, error)
	UpdateValuation(ctx context.Context, id uuid.UUID, pricePerTon, totalCost int64, status enum.PaymentStatus) error
	UpdatePayment(ctx context.Context, id uuid.UUID, amountPaid int64, status enum.PaymentStatus) error
}
