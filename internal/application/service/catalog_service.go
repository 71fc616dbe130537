package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/entity"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	"github.com/harvestlink/coop-api/internal/domain/repository"
	"github.com/harvestlink/coop-api/pkg/apperror"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CertificationInput is one named per-kg premium on a new catalog entry
type CertificationInput struct {
	Name    string
	Premium decimal.Decimal
}

// CreateCatalogEntryInput represents the create catalog entry input
type CreateCatalogEntryInput struct {
	BasePrice      decimal.Decimal
	PremiumA       decimal.Decimal
	PremiumB       decimal.Decimal
	PremiumC       decimal.Decimal
	EffectiveDate  time.Time
	Certifications []CertificationInput
}

// PriceCatalogService manages pricing entries and the guarded activation
// transition. Activation and the revaluation sweep that follows it are one
// causal unit: the sweep always runs against whichever entry is active
// after the swap commits, never a stale snapshot. The mutex serializes
// concurrent activations of different entries.
type PriceCatalogService struct {
	catalogRepo    repository.PriceCatalogRepository
	reconciliation *ReconciliationService
	logger         zerolog.Logger

	activateMu sync.Mutex
}

// NewPriceCatalogService creates a new price catalog service
func NewPriceCatalogService(
	catalogRepo repository.PriceCatalogRepository,
	reconciliation *ReconciliationService,
	logger zerolog.Logger,
) *PriceCatalogService {
	return &PriceCatalogService{
		catalogRepo:    catalogRepo,
		reconciliation: reconciliation,
		logger:         logger.With().Str("component", "catalog_service").Logger(),
	}
}

// Create persists a new, initially inactive catalog entry
func (s *PriceCatalogService) Create(ctx context.Context, input *CreateCatalogEntryInput) (*entity.PriceCatalogEntry, error) {
	if input.BasePrice.IsNegative() {
		return nil, apperror.NewBadRequestError("base price must not be negative")
	}

	entry := &entity.PriceCatalogEntry{
		BasePrice:     input.BasePrice,
		PremiumA:      input.PremiumA,
		PremiumB:      input.PremiumB,
		PremiumC:      input.PremiumC,
		EffectiveDate: input.EffectiveDate,
		Status:        enum.CatalogStatusInactive,
	}
	for _, c := range input.Certifications {
		entry.Certifications = append(entry.Certifications, entity.CatalogCertification{
			Name:    c.Name,
			Premium: c.Premium,
		})
	}

	if err := s.catalogRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns all catalog entries, newest first
func (s *PriceCatalogService) List(ctx context.Context) ([]entity.PriceCatalogEntry, error) {
	return s.catalogRepo.List(ctx)
}

// GetActive returns the entry currently in force, or nil when there is none
func (s *PriceCatalogService) GetActive(ctx context.Context) (*entity.PriceCatalogEntry, error) {
	return s.catalogRepo.GetActive(ctx)
}

// Activate makes the entry the single active one and revalues all stock
// lots against it. Returns how many lots the revaluation updated.
func (s *PriceCatalogService) Activate(ctx context.Context, entryID uuid.UUID) (int, error) {
	s.activateMu.Lock()
	defer s.activateMu.Unlock()

	entry, err := s.catalogRepo.GetByID(ctx, entryID)
	if err != nil {
		return 0, err
	}
	if entry == nil {
		return 0, apperror.NewNotFoundError("Catalog entry")
	}

	if err := s.catalogRepo.Activate(ctx, entryID); err != nil {
		return 0, err
	}
	s.logger.Info().Str("entry_id", entryID.String()).Msg("catalog entry activated")

	// Revaluation reads the active entry back from storage, so it sees the
	// state after the swap committed.
	updated, err := s.reconciliation.RevalueAll(ctx)
	if err != nil {
		return updated, err
	}
	return updated, nil
}

// Deactivate flips the entry to inactive. Deactivating the sole active
// entry leaves the catalog with no entry in force; lots keep their last
// valuation until a new entry is activated.
func (s *PriceCatalogService) Deactivate(ctx context.Context, entryID uuid.UUID) error {
	s.activateMu.Lock()
	defer s.activateMu.Unlock()

	entry, err := s.catalogRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return apperror.NewNotFoundError("Catalog entry")
	}

	if err := s.catalogRepo.Deactivate(ctx, entryID); err != nil {
		return err
	}
	s.logger.Info().Str("entry_id", entryID.String()).Msg("catalog entry deactivated")
	return nil
}
