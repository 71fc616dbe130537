package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harvestlink/coop-api/internal/domain/entity"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	"github.com/harvestlink/coop-api/internal/domain/repository"
	"github.com/harvestlink/coop-api/pkg/pagination"
	"github.com/rs/zerolog"
)

// in-memory StockLotRepository

type stubStockRepo struct {
	mu   sync.Mutex
	lots map[uuid.UUID]*entity.StockLot
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{lots: make(map[uuid.UUID]*entity.StockLot)}
}

func (r *stubStockRepo) add(lot *entity.StockLot) *entity.StockLot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lot.ID == uuid.Nil {
		lot.ID = uuid.New()
	}
	if lot.ProducerID == uuid.Nil {
		lot.ProducerID = uuid.New()
	}
	cloned := *lot
	r.lots[lot.ID] = &cloned
	return lot
}

func (r *stubStockRepo) get(id uuid.UUID) *entity.StockLot {
	r.mu.Lock()
	defer r.mu.Unlock()
	cloned := *r.lots[id]
	return &cloned
}

func (r *stubStockRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.StockLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.lots[id]
	if !ok {
		return nil, nil
	}
	cloned := *lot
	return &cloned, nil
}

func (r *stubStockRepo) matches(lot *entity.StockLot, filter repository.StockLotFilter) bool {
	if filter.ExcludeCombined && lot.Combined() {
		return false
	}
	if filter.PricedOnly && !lot.HasValuation() {
		return false
	}
	if filter.ProducerID != nil && lot.ProducerID != *filter.ProducerID {
		return false
	}
	if filter.Status != nil && lot.PaymentStatus != *filter.Status {
		return false
	}
	return true
}

func (r *stubStockRepo) List(_ context.Context, filter repository.StockLotFilter) ([]entity.StockLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []entity.StockLot
	for _, lot := range r.lots {
		if r.matches(lot, filter) {
			results = append(results, *lot)
		}
	}
	return results, nil
}

func (r *stubStockRepo) ListPaged(ctx context.Context, filter repository.StockLotFilter, params *pagination.PaginationParams) ([]entity.StockLot, int64, error) {
	lots, err := r.List(ctx, filter)
	return lots, int64(len(lots)), err
}

func (r *stubStockRepo) UpdateValuation(_ context.Context, id uuid.UUID, pricePerTon, totalCost int64, status enum.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.lots[id]
	if !ok {
		return nil
	}
	lot.PricePerTon = pricePerTon
	lot.TotalCost = totalCost
	lot.PaymentStatus = status
	return nil
}

func (r *stubStockRepo) UpdatePayment(_ context.Context, id uuid.UUID, amountPaid int64, status enum.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.lots[id]
	if !ok {
		return nil
	}
	lot.AmountPaid = amountPaid
	lot.PaymentStatus = status
	return nil
}

// compile-time interface check
var _ repository.StockLotRepository = (*stubStockRepo)(nil)

// in-memory InvoiceRepository

// stubInvoiceRepo enforces the unique index on stock_id the way postgres
// does: the second insert for a lot fails with ErrDuplicateInvoice.
type stubInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*entity.Invoice
	byStock  map[uuid.UUID]uuid.UUID
	payments map[uuid.UUID][]entity.PaymentRecord
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{
		invoices: make(map[uuid.UUID]*entity.Invoice),
		byStock:  make(map[uuid.UUID]uuid.UUID),
		payments: make(map[uuid.UUID][]entity.PaymentRecord),
	}
}

func (r *stubInvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byStock[invoice.StockID]; exists {
		return repository.ErrDuplicateInvoice
	}
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	invoice.CreatedAt = time.Now()
	cloned := *invoice
	r.invoices[invoice.ID] = &cloned
	r.byStock[invoice.StockID] = invoice.ID
	return nil
}

// injectDuplicate plants a second invoice for a stock lot, bypassing the
// uniqueness check, to simulate data corrupted before the index existed.
func (r *stubInvoiceRepo) injectDuplicate(invoice *entity.Invoice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	cloned := *invoice
	r.invoices[invoice.ID] = &cloned
}

func (r *stubInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cloned := *invoice
	cloned.Payments = append([]entity.PaymentRecord(nil), r.payments[id]...)
	return &cloned, nil
}

func (r *stubInvoiceRepo) ListByStockID(_ context.Context, stockID uuid.UUID) ([]entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []entity.Invoice
	for _, invoice := range r.invoices {
		if invoice.StockID == stockID {
			results = append(results, *invoice)
		}
		if len(results) == 2 {
			break
		}
	}
	return results, nil
}

func (r *stubInvoiceRepo) List(_ context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []entity.Invoice
	for _, invoice := range r.invoices {
		if params.Status != nil && invoice.PaymentStatus != *params.Status {
			continue
		}
		if params.ProducerID != nil && invoice.ProducerID != *params.ProducerID {
			continue
		}
		results = append(results, *invoice)
	}
	return results, int64(len(results)), nil
}

func (r *stubInvoiceRepo) AppendPayment(_ context.Context, record *entity.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	r.payments[record.InvoiceID] = append(r.payments[record.InvoiceID], *record)
	return nil
}

func (r *stubInvoiceRepo) UpdatePayment(_ context.Context, id uuid.UUID, amountPaid int64, status enum.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[id]
	if !ok {
		return nil
	}
	invoice.AmountPaid = amountPaid
	invoice.PaymentStatus = status
	return nil
}

func (r *stubInvoiceRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.invoices)
}

func (r *stubInvoiceRepo) forStock(stockID uuid.UUID) *entity.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byStock[stockID]
	if !ok {
		return nil
	}
	cloned := *r.invoices[id]
	cloned.Payments = append([]entity.PaymentRecord(nil), r.payments[id]...)
	return &cloned
}

// compile-time interface check
var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

// in-memory PriceCatalogRepository

type stubCatalogRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entity.PriceCatalogEntry
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{entries: make(map[uuid.UUID]*entity.PriceCatalogEntry)}
}

func (r *stubCatalogRepo) Create(_ context.Context, entry *entity.PriceCatalogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	cloned := *entry
	r.entries[entry.ID] = &cloned
	return nil
}

func (r *stubCatalogRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.PriceCatalogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	cloned := *entry
	return &cloned, nil
}

func (r *stubCatalogRepo) GetActive(_ context.Context) (*entity.PriceCatalogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.Status == enum.CatalogStatusActive {
			cloned := *entry
			return &cloned, nil
		}
	}
	return nil, nil
}

func (r *stubCatalogRepo) List(_ context.Context) ([]entity.PriceCatalogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []entity.PriceCatalogEntry
	for _, entry := range r.entries {
		results = append(results, *entry)
	}
	return results, nil
}

func (r *stubCatalogRepo) Activate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.ID != id && entry.Status == enum.CatalogStatusActive {
			entry.Status = enum.CatalogStatusInactive
		}
	}
	entry, ok := r.entries[id]
	if !ok {
		return nil
	}
	entry.Status = enum.CatalogStatusActive
	return nil
}

func (r *stubCatalogRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[id]; ok {
		entry.Status = enum.CatalogStatusInactive
	}
	return nil
}

func (r *stubCatalogRepo) activeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, entry := range r.entries {
		if entry.Status == enum.CatalogStatusActive {
			n++
		}
	}
	return n
}

// compile-time interface check
var _ repository.PriceCatalogRepository = (*stubCatalogRepo)(nil)

func stockFilterAll() repository.StockLotFilter {
	return repository.StockLotFilter{}
}

// shared fixture

type testEnv struct {
	stocks   *stubStockRepo
	invoices *stubInvoiceRepo
	catalog  *stubCatalogRepo

	valuation  *ValuationEngine
	invoiceSvc *InvoiceService
	paymentSvc *PaymentService
	reconSvc   *ReconciliationService
	catalogSvc *PriceCatalogService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		stocks:   newStubStockRepo(),
		invoices: newStubInvoiceRepo(),
		catalog:  newStubCatalogRepo(),
	}

	logger := zerolog.Nop()
	env.valuation = NewValuationEngine()
	env.invoiceSvc = NewInvoiceService(env.invoices, env.stocks, env.catalog, logger)
	env.paymentSvc = NewPaymentService(env.stocks, env.invoices, env.invoiceSvc, logger)
	env.reconSvc = NewReconciliationService(env.stocks, env.catalog, env.invoiceSvc, env.valuation, logger)
	env.catalogSvc = NewPriceCatalogService(env.catalog, env.reconSvc, logger)
	return env
}
