package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/entity"
	"github.com/harvestlink/coop-api/internal/domain/repository"
	"github.com/harvestlink/coop-api/pkg/apperror"
	"github.com/harvestlink/coop-api/pkg/pagination"
)

// StockLotService exposes read access to the stock registry's lots for
// back-office tooling. All writes to lots go through the valuation and
// payment paths, never through here.
type StockLotService struct {
	stockRepo repository.StockLotRepository
}

// NewStockLotService creates a new stock lot service
func NewStockLotService(stockRepo repository.StockLotRepository) *StockLotService {
	return &StockLotService{stockRepo: stockRepo}
}

// GetByID returns a single stock lot
func (s *StockLotService) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockLot, error) {
	lot, err := s.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, apperror.NewNotFoundError("Stock lot")
	}
	return lot, nil
}

// List returns stock lots matching the filter
func (s *StockLotService) List(ctx context.Context, filter repository.StockLotFilter, params *pagination.PaginationParams) ([]entity.StockLot, int64, error) {
	return s.stockRepo.ListPaged(ctx, filter, params)
}
