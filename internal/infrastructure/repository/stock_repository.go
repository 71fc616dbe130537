package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/entity"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	domainRepo "github.com/harvestlink/coop-api/internal/domain/repository"
	"github.com/harvestlink/coop-api/pkg/pagination"
	"gorm.io/gorm"
)

type stockLotRepository struct {
	db *gorm.DB
}

// NewStockLotRepository creates a new stock lot repository
func NewStockLotRepository(db *gorm.DB) domainRepo.StockLotRepository {
	return &stockLotRepository{db: db}
}

func (r *stockLotRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockLot, error) {
	var lot entity.StockLot
	err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &lot, err
}

func applyStockFilter(query *gorm.DB, filter domainRepo.StockLotFilter) *gorm.DB {
	if filter.ExcludeCombined {
		query = query.Where("is_combined = ? AND combined_into_stock IS NULL", false)
	}
	if filter.PricedOnly {
		query = query.Where("price_per_ton > 0 AND total_cost > 0")
	}
	if filter.ProducerID != nil {
		query = query.Where("producer_id = ?", *filter.ProducerID)
	}
	if filter.Status != nil {
		query = query.Where("payment_status = ?", *filter.Status)
	}
	return query
}

func (r *stockLotRepository) List(ctx context.Context, filter domainRepo.StockLotFilter) ([]entity.StockLot, error) {
	var lots []entity.StockLot
	query := applyStockFilter(r.db.WithContext(ctx).Model(&entity.StockLot{}), filter)
	err := query.Order("collection_date ASC, id ASC").Find(&lots).Error
	return lots, err
}

func (r *stockLotRepository) ListPaged(ctx context.Context, filter domainRepo.StockLotFilter, params *pagination.PaginationParams) ([]entity.StockLot, int64, error) {
	var lots []entity.StockLot
	var total int64

	query := applyStockFilter(r.db.WithContext(ctx).Model(&entity.StockLot{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("collection_date DESC, id ASC").
		Find(&lots).Error

	return lots, total, err
}

func (r *stockLotRepository) UpdateValuation(ctx context.Context, id uuid.UUID, pricePerTon, totalCost int64, status enum.PaymentStatus) error {
	return r.db.WithContext(ctx).Model(&entity.StockLot{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"price_per_ton":  pricePerTon,
			"total_cost":     totalCost,
			"payment_status": status,
		}).Error
}

func (r *stockLotRepository) UpdatePayment(ctx context.Context, id uuid.UUID, amountPaid int64, status enum.PaymentStatus) error {
	return r.db.WithContext(ctx).Model(&entity.StockLot{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount_paid":    amountPaid,
			"payment_status": status,
		}).Error
}
