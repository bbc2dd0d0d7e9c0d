package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "faktura/docs"
	"faktura/internal/config"
	"faktura/internal/handler"
	"faktura/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Company  *handler.CompanyHandler
	Invoice  *handler.InvoiceHandler
	Reminder *handler.ReminderHandler
	Health   *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, h Handlers, logger *zap.Logger) *gin.Engine {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	companies := v1.Group("/companies")
	companies.POST("", h.Company.Create)
	companies.GET("", h.Company.List)
	companies.GET("/:id", h.Company.GetByID)
	companies.PUT("/:id", h.Company.Update)
	companies.GET("/:id/reminders/due", h.Reminder.ListDue)
	companies.GET("/:id/reminders/due/export", h.Reminder.ExportDue)

	invoices := v1.Group("/invoices")
	invoices.POST("", h.Invoice.Create)
	invoices.GET("", h.Invoice.List)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.PUT("/:id/items", h.Invoice.UpdateItems)
	invoices.POST("/:id/items/reorder", h.Invoice.ReorderItems)
	invoices.POST("/:id/items/:itemId/move", h.Invoice.MoveItem)
	invoices.POST("/:id/totals/recompute", h.Invoice.RecomputeTotals)
	invoices.GET("/:id/totals/verify", h.Invoice.VerifyTotals)
	invoices.POST("/:id/send", h.Invoice.Send)
	invoices.POST("/:id/pay", h.Invoice.Pay)

	// Dunning
	invoices.GET("/:id/reminder-eligibility", h.Reminder.Eligibility)
	invoices.POST("/:id/reminders", h.Reminder.Send)
	invoices.GET("/:id/reminders", h.Reminder.History)

	return r
}
