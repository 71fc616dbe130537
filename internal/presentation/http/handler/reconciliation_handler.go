package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/harvestlink/coop-api/internal/application/service"
	"github.com/harvestlink/coop-api/internal/presentation/http/dto/response"
)

// ReconciliationHandler exposes the bulk sweeps to back-office tooling.
// Both endpoints are idempotent; redundant triggers are expected.
type ReconciliationHandler struct {
	reconciliationService *service.ReconciliationService
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(reconciliationService *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

// Revalue handles revaluing all stock lots against the active catalog entry
func (h *ReconciliationHandler) Revalue(c *gin.Context) {
	updated, err := h.reconciliationService.RevalueAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Revaluation sweep finished", gin.H{"updated": updated})
}

// EnsureInvoices handles creating invoices for all eligible stock lots
func (h *ReconciliationHandler) EnsureInvoices(c *gin.Context) {
	created, err := h.reconciliationService.EnsureInvoicesForAllStocks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice sweep finished", gin.H{"created": created})
}
