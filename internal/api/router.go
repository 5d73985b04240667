package api

import (
	v1 "github.com/flexprice/milkbill/internal/api/v1"
	"github.com/flexprice/milkbill/internal/config"
	"github.com/flexprice/milkbill/internal/logger"
	"github.com/flexprice/milkbill/internal/rest/middleware"
	"github.com/flexprice/milkbill/internal/sentry"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Invoice *v1.InvoiceHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, sentrySvc *sentry.Service) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.SentryScopeMiddleware,
		middleware.ErrorHandler(logger, sentrySvc),
	)

	router.GET("/health", handlers.Health.Health)
	router.HEAD("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers, cfg)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers, cfg *config.Configuration) {
	invoices := router.Group("/invoices")
	{
		invoices.POST("/data", handlers.Invoice.GetInvoiceData)
		invoices.POST("/pdf", middleware.RateLimitMiddleware(cfg), handlers.Invoice.GenerateInvoicePDF)
		invoices.GET("/pdf/:id", handlers.Invoice.GetInvoicePDF)
	}
}
