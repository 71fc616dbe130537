package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/entity"
)

// PriceCatalogRepository defines the interface for price catalog data
// operations. Activate performs the whole status swap in one transaction so
// the "at most one active entry" invariant holds at every commit point.
type PriceCatalogRepository interface {
	Create(ctx context.Context, entry *entity.PriceCatalogEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PriceCatalogEntry, error)
	// GetActive returns the single active entry, or nil when the catalog
	// has no entry in force.
	GetActive(ctx context.Context) (*entity.PriceCatalogEntry, error)
	List(ctx context.Context) ([]entity.PriceCatalogEntry, error)
	Activate(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}
