// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/inventory"
	"stockbook/internal/domain/reports"
	"stockbook/internal/infrastructure/http/v1/handlers"
	"stockbook/internal/infrastructure/http/v1/middleware"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// InventoryService handles the stock ledger
	InventoryService *inventory.Service

	// ReportsService generates aggregate report bundles
	ReportsService *reports.Service

	// AuditService serves the stored audit trail
	AuditService *postgres.AuditService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	{
		recordsHandler := handlers.NewRecordsHandler(cfg.InventoryService, cfg.AuditService)
		records := api.Group("/records")
		{
			records.GET("", recordsHandler.List)
			records.POST("", recordsHandler.Save)
			records.GET("/search", recordsHandler.Search)
			records.GET("/:item/history", recordsHandler.History)
			records.GET("/:item/latest", recordsHandler.Latest)
			records.GET("/:item/audit", recordsHandler.Audit)
		}

		reportsHandler := handlers.NewReportsHandler(cfg.ReportsService)
		reportsGroup := api.Group("/reports")
		{
			reportsGroup.GET("", reportsHandler.Bundle)
			reportsGroup.GET("/export.csv", reportsHandler.ExportRawCSV)
			reportsGroup.GET("/export.xlsx", reportsHandler.ExportXLSX)
			reportsGroup.GET("/:view", reportsHandler.View)
			reportsGroup.GET("/:view/export.csv", reportsHandler.ExportCSV)
		}
	}

	return router
}
