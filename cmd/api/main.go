package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/harvestlink/coop-api/internal/application/service"
	"github.com/harvestlink/coop-api/internal/config"
	"github.com/harvestlink/coop-api/internal/domain/repository"
	"github.com/harvestlink/coop-api/internal/infrastructure/database"
	infraRepo "github.com/harvestlink/coop-api/internal/infrastructure/repository"
	"github.com/harvestlink/coop-api/internal/presentation/http/handler"
	"github.com/harvestlink/coop-api/internal/presentation/http/routes"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	stockRepo := infraRepo.NewStockLotRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	catalogRepo := infraRepo.NewPriceCatalogRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)

	valuation := service.NewValuationEngine()
	invoiceService := service.NewInvoiceService(invoiceRepo, stockRepo, catalogRepo, logger)
	paymentService := service.NewPaymentService(stockRepo, invoiceRepo, invoiceService, logger)
	reconciliationService := service.NewReconciliationService(stockRepo, catalogRepo, invoiceService, valuation, logger)
	catalogService := service.NewPriceCatalogService(catalogRepo, reconciliationService, logger)
	stockService := service.NewStockLotService(stockRepo)

	go expireIdempotencyKeys(idempotencyRepo, logger)

	router := routes.Setup(routes.Handlers{
		Catalog:        handler.NewCatalogHandler(catalogService),
		Invoice:        handler.NewInvoiceHandler(invoiceService),
		Stock:          handler.NewStockHandler(stockService, invoiceService, paymentService),
		Reconciliation: handler.NewReconciliationHandler(reconciliationService),
	}, routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          logger,
	})

	logger.Info().
		Str("port", cfg.App.Port).
		Str("env", cfg.App.Env).
		Msg("starting server")

	if err := router.Run(":" + cfg.App.Port); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

// expireIdempotencyKeys drops stored idempotency keys past their TTL so the
// table does not grow without bound.
func expireIdempotencyKeys(repo repository.IdempotencyRepository, logger zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := repo.DeleteExpired(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("failed to delete expired idempotency keys")
		}
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.App.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.App.Name).
		Logger()

	if cfg.App.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	return logger
}
