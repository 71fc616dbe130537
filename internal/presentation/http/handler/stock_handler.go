package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harvestlink/coop-api/internal/application/service"
	"github.com/harvestlink/coop-api/internal/domain/enum"
	"github.com/harvestlink/coop-api/internal/domain/repository"
	"github.com/harvestlink/coop-api/internal/presentation/http/dto/request"
	"github.com/harvestlink/coop-api/internal/presentation/http/dto/response"
	"github.com/harvestlink/coop-api/pkg/pagination"
)

// StockHandler handles stock lot HTTP requests: observability reads plus
// the per-lot engine operations (invoice creation and payment).
type StockHandler struct {
	stockService   *service.StockLotService
	invoiceService *service.InvoiceService
	paymentService *service.PaymentService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(
	stockService *service.StockLotService,
	invoiceService *service.InvoiceService,
	paymentService *service.PaymentService,
) *StockHandler {
	return &StockHandler{
		stockService:   stockService,
		invoiceService: invoiceService,
		paymentService: paymentService,
	}
}

// List handles listing stock lots
func (h *StockHandler) List(c *gin.Context) {
	params := paginationFromQuery(c)

	filter := repository.StockLotFilter{
		ExcludeCombined: c.Query("include_combined") != "true",
		PricedOnly:      c.Query("priced_only") == "true",
	}
	if producerID, err := parseUUIDQuery(c, "producer_id"); err == nil && producerID != nil {
		filter.ProducerID = producerID
	}

	lots, total, err := h.stockService.List(c.Request.Context(), filter, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(lots,
		pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Stock lots retrieved", result)
}

// Get handles retrieving a single stock lot
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid stock lot ID")
		return
	}

	lot, err := h.stockService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock lot retrieved", lot)
}

// EnsureInvoice handles creating the lot's invoice if it does not exist yet
func (h *StockHandler) EnsureInvoice(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid stock lot ID")
		return
	}

	invoice, created, err := h.invoiceService.EnsureForStock(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if invoice == nil {
		// Combined or not yet priced: a deliberate no-op, not a failure.
		response.OK(c, "Stock lot is not eligible for invoicing", nil)
		return
	}
	if created {
		response.Created(c, "Invoice created", invoice)
		return
	}
	response.OK(c, "Invoice already exists", invoice)
}

// ApplyPayment handles recording a payment against a stock lot
func (h *StockHandler) ApplyPayment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid stock lot ID")
		return
	}

	var req request.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := service.PaymentInput{
		Amount:    req.Amount,
		Method:    enum.PaymentMethod(req.Method),
		Reference: req.Reference,
		Notes:     req.Notes,
	}
	if req.Date != nil {
		input.Date = *req.Date
	} else {
		input.Date = time.Now()
	}

	invoice, err := h.paymentService.ApplyPayment(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	if invoice == nil {
		response.OK(c, "Payment processed without invoice update", nil)
		return
	}
	response.OK(c, "Payment applied", invoice)
}
