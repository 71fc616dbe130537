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

type priceCatalogRepository struct {
	db *gorm.DB
}

// NewPriceCatalogRepository creates a new price catalog repository
func NewPriceCatalogRepository(db *gorm.DB) domainRepo.PriceCatalogRepository {
	return &priceCatalogRepository{db: db}
}

func (r *priceCatalogRepository) Create(ctx context.Context, entry *entity.PriceCatalogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *priceCatalogRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PriceCatalogEntry, error) {
	var entry entity.PriceCatalogEntry
	err := r.db.WithContext(ctx).
		Preload("Certifications").
		First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *priceCatalogRepository) GetActive(ctx context.Context) (*entity.PriceCatalogEntry, error) {
	var entry entity.PriceCatalogEntry
	err := r.db.WithContext(ctx).
		Preload("Certifications").
		First(&entry, "status = ?", enum.CatalogStatusActive).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *priceCatalogRepository) List(ctx context.Context) ([]entity.PriceCatalogEntry, error) {
	var entries []entity.PriceCatalogEntry
	err := r.db.WithContext(ctx).
		Preload("Certifications").
		Order("effective_date DESC, created_at DESC").
		Find(&entries).Error
	return entries, err
}

// Activate flips every other entry to inactive and the target to active in
// one transaction, so a reader never observes two active entries.
func (r *priceCatalogRepository) Activate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.PriceCatalogEntry{}).
			Where("status = ? AND id <> ?", enum.CatalogStatusActive, id).
			Update("status", enum.CatalogStatusInactive).Error; err != nil {
			return err
		}

		result := tx.Model(&entity.PriceCatalogEntry{}).
			Where("id = ?", id).
			Update("status", enum.CatalogStatusActive)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *priceCatalogRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&entity.PriceCatalogEntry{}).
		Where("id = ?", id).
		Update("status", enum.CatalogStatusInactive)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
