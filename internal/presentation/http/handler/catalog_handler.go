package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harvestlink/coop-api/internal/application/service"
	"github.com/harvestlink/coop-api/internal/presentation/http/dto/request"
	"github.com/harvestlink/coop-api/internal/presentation/http/dto/response"
)

// CatalogHandler handles price catalog HTTP requests
type CatalogHandler struct {
	catalogService *service.PriceCatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.PriceCatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Create handles creating a new price catalog entry
func (h *CatalogHandler) Create(c *gin.Context) {
	var req request.CreateCatalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.CreateCatalogEntryInput{
		BasePrice: req.BasePrice,
		PremiumA:  req.PremiumA,
		PremiumB:  req.PremiumB,
		PremiumC:  req.PremiumC,
	}
	if req.EffectiveDate != nil {
		input.EffectiveDate = *req.EffectiveDate
	} else {
		input.EffectiveDate = time.Now()
	}
	for _, cert := range req.Certifications {
		input.Certifications = append(input.Certifications, service.CertificationInput{
			Name:    cert.Name,
			Premium: cert.Premium,
		})
	}

	entry, err := h.catalogService.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Catalog entry created", entry)
}

// List handles listing all catalog entries
func (h *CatalogHandler) List(c *gin.Context) {
	entries, err := h.catalogService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Catalog entries retrieved", entries)
}

// GetActive handles retrieving the entry currently in force
func (h *CatalogHandler) GetActive(c *gin.Context) {
	entry, err := h.catalogService.GetActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if entry == nil {
		response.NotFound(c, "No active catalog entry")
		return
	}
	response.OK(c, "Active catalog entry retrieved", entry)
}

// Activate handles activating a catalog entry and revaluing all stock lots
func (h *CatalogHandler) Activate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid catalog entry ID")
		return
	}

	revalued, err := h.catalogService.Activate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("Catalog entry activated, %d lots revalued", revalued), gin.H{
		"revalued": revalued,
	})
}

// Deactivate handles deactivating a catalog entry
func (h *CatalogHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid catalog entry ID")
		return
	}

	if err := h.catalogService.Deactivate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Catalog entry deactivated", nil)
}
