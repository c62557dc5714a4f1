package routes

import (
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/api/handler"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	transactionHandler *handler.TransactionHandler,
	gainsHandler *handler.GainsHandler,
	lotsHandler *handler.LotsHandler,
	importHandler *handler.ImportHandler,
) {
	// Transaction bookkeeping routes
	transactionRoutes := router.Group("/transactions")
	{
		transactionRoutes.GET("", transactionHandler.List)
		transactionRoutes.POST("", transactionHandler.Create)
		transactionRoutes.GET("/:id", transactionHandler.Get)
		transactionRoutes.PUT("/:id", transactionHandler.Update)
		transactionRoutes.DELETE("/:id", transactionHandler.Delete)
		transactionRoutes.POST("/:id/prices", transactionHandler.BackfillPrices)
	}

	// Capital-gains engine routes
	gainsRoutes := router.Group("/gains")
	{
		gainsRoutes.POST("/recalculate", gainsHandler.Recalculate)
	}

	// Per-year summary routes
	summaryRoutes := router.Group("/summary")
	{
		summaryRoutes.GET("", gainsHandler.Summaries)
		summaryRoutes.POST("/:year", gainsHandler.UpdateSummary)
	}

	// Open-lot views
	lotRoutes := router.Group("/lots")
	{
		lotRoutes.GET("", lotsHandler.OpenLots)
		lotRoutes.GET("/collapsed", lotsHandler.Holdings)
	}

	// Import and chain sync
	router.POST("/import/kraken", importHandler.ImportKraken)
	router.POST("/sync", importHandler.SyncChains)
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
