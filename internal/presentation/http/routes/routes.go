package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/harvestlink/coop-api/internal/config"
	"github.com/harvestlink/coop-api/internal/domain/repository"
	"github.com/harvestlink/coop-api/internal/presentation/http/handler"
	"github.com/harvestlink/coop-api/internal/presentation/http/middleware"
)

// Handlers bundles the HTTP handlers used to build the router
type Handlers struct {
	Catalog        *handler.CatalogHandler
	Invoice        *handler.InvoiceHandler
	Stock          *handler.StockHandler
	Reconciliation *handler.ReconciliationHandler
}

// Deps carries the cross-cutting dependencies of the router
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo repository.IdempotencyRepository
	Logger          zerolog.Logger
}

// Setup configures the router with all application routes
func Setup(h Handlers, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", handler.Health(deps.Cfg.App.Name))

	limiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   middleware.DefaultRateLimiterConfig().CleanupInterval,
		EntryTTL:          middleware.DefaultRateLimiterConfig().EntryTTL,
	})

	idem := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	v1 := router.Group("/api/v1")
	v1.Use(limiter.Middleware())
	{
		catalog := v1.Group("/catalog")
		{
			catalog.POST("", h.Catalog.Create)
			catalog.GET("", h.Catalog.List)
			catalog.GET("/active", h.Catalog.GetActive)
			catalog.POST("/:id/activate", h.Catalog.Activate)
			catalog.POST("/:id/deactivate", h.Catalog.Deactivate)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.GET("", h.Invoice.List)
			invoices.GET("/:id", h.Invoice.Get)
		}

		stocks := v1.Group("/stocks")
		{
			stocks.GET("", h.Stock.List)
			stocks.GET("/:id", h.Stock.Get)
			stocks.POST("/:id/invoice", h.Stock.EnsureInvoice)
			// Payments mutate two records; retries must replay, not re-apply.
			stocks.POST("/:id/payments", idem, h.Stock.ApplyPayment)
		}

		reconciliation := v1.Group("/reconciliation")
		{
			reconciliation.POST("/revalue", h.Reconciliation.Revalue)
			reconciliation.POST("/invoices", h.Reconciliation.EnsureInvoices)
		}
	}

	return router
}
