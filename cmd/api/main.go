package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	gainsUseCase "github.com/cryptofolio/gains-processor/internal/domain/usecase/gains"
	transactionUseCase "github.com/cryptofolio/gains-processor/internal/domain/usecase/transaction"

	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/api/handler"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/api/routes"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/database"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/importer"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/logger"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/oracle"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/repository"
	timeProvider "github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/time"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() { _ = appLogger.Flush() }()

	// Create time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbManager := database.NewManager(database.FromAppConfig(cfg), appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = dbManager.Close() }()

	// Run schema migrations
	if err := dbManager.Migrate(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize repositories
	transactionRepo := repository.NewTransactionRepository(dbManager.DB(), appLogger)
	lotRepo := repository.NewLotRepository(dbManager.DB(), appLogger)
	summaryRepo := repository.NewGainsSummaryRepository(dbManager.DB(), appLogger)

	// Initialize oracles
	priceOracle := oracle.NewCoinGeckoOracle(
		cfg.Oracle.CoinGeckoBaseURL,
		cfg.Oracle.RequestTimeout,
		cfg.Oracle.CacheTTL,
		appLogger,
	)
	rateOracle, err := oracle.NewECBRateOracle(cfg.Oracle.RatesFile, cfg.Oracle.CacheTTL, appLogger)
	if err != nil {
		appLogger.Error("Failed to load FX rates", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize use cases
	gainsService := gainsUseCase.NewGainsService(transactionRepo, lotRepo, summaryRepo, rateOracle, appLogger)
	transactionService := transactionUseCase.NewTransactionUseCase(transactionRepo, lotRepo, priceOracle, appLogger)

	// Initialize importers
	krakenImporter := importer.NewKrakenImporter(rateOracle, appLogger)
	ethScan := importer.NewChainScanClient(
		cfg.Importer.EtherscanBaseURL,
		cfg.Importer.EtherscanAPIKey,
		"ETH",
		cfg.Importer.RequestTimeout,
		appLogger,
	)
	baseScan := importer.NewChainScanClient(
		cfg.Importer.BasescanBaseURL,
		cfg.Importer.BasescanAPIKey,
		"BASE",
		cfg.Importer.RequestTimeout,
		appLogger,
	)

	// Initialize API handlers
	transactionHandler := handler.NewTransactionHandler(transactionService, appLogger)
	gainsHandler := handler.NewGainsHandler(gainsService, appLogger)
	lotsHandler := handler.NewLotsHandler(transactionService, appLogger)
	importHandler := handler.NewImportHandler(transactionService, krakenImporter, ethScan, baseScan, appLogger)

	// Initialize Gin router
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, transactionHandler, gainsHandler, lotsHandler, importHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	if cfg.Database.Host == "" {
		missingConfigs = append(missingConfigs, "database.host (or GP_DB_HOST environment variable)")
	}
	if cfg.Database.Username == "" {
		missingConfigs = append(missingConfigs, "database.username (or GP_DB_USERNAME environment variable)")
	}
	if cfg.Database.Password == "" {
		missingConfigs = append(missingConfigs, "database.password (or GP_DB_PASSWORD environment variable)")
	}
	if cfg.Database.Database == "" {
		missingConfigs = append(missingConfigs, "database.database (or GP_DB_NAME environment variable)")
	}
	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	if cfg.Oracle.CoinGeckoBaseURL == "" {
		missingConfigs = append(missingConfigs, "oracle.coinGeckoBaseUrl")
	}
	if cfg.Oracle.RatesFile == "" {
		missingConfigs = append(missingConfigs, "oracle.ratesFile")
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	return nil
}
