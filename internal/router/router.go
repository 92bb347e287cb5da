package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "sleekinvoices/docs"
	"sleekinvoices/internal/handler"
	"sleekinvoices/internal/middleware"
	"sleekinvoices/internal/service"
)

// Handlers bundles every HTTP handler the router wires up.
type Handlers struct {
	Auth      *handler.AuthHandler
	Client    *handler.ClientHandler
	Invoice   *handler.InvoiceHandler
	Estimate  *handler.EstimateHandler
	Recurring *handler.RecurringHandler
	Payment   *handler.PaymentHandler
	Expense   *handler.ExpenseHandler
	Template  *handler.TemplateHandler
	Stats     *handler.StatsHandler
	Assist    *handler.AssistHandler
	Health    *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, corsOrigins []string, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Gateway callbacks are authenticated by signature, not by JWT.
	webhooks := r.Group("/webhooks")
	webhooks.POST("/stripe", h.Payment.CardWebhook)
	webhooks.POST("/coinbase", h.Payment.CryptoWebhook)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	clients := protected.Group("/clients")
	clients.POST("", h.Client.Create)
	clients.GET("", h.Client.List)
	clients.GET("/:id", h.Client.GetByID)
	clients.PUT("/:id", h.Client.Update)
	clients.DELETE("/:id", h.Client.Delete)

	invoices := protected.Group("/invoices")
	invoices.POST("", h.Invoice.Create)
	invoices.GET("", h.Invoice.List)
	invoices.GET("/export", h.Invoice.ExportCSV)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.PUT("/:id", h.Invoice.Update)
	invoices.DELETE("/:id", h.Invoice.Delete)
	invoices.POST("/:id/send", h.Invoice.Send)
	invoices.POST("/:id/cancel", h.Invoice.Cancel)
	invoices.POST("/:id/payments", h.Invoice.RecordPayment)
	invoices.GET("/:id/payments", h.Payment.ListByInvoice)
	invoices.GET("/:id/pdf", h.Invoice.DownloadPDF)

	estimates := protected.Group("/estimates")
	estimates.POST("", h.Estimate.Create)
	estimates.GET("", h.Estimate.List)
	estimates.GET("/:id", h.Estimate.GetByID)
	estimates.PUT("/:id", h.Estimate.Update)
	estimates.DELETE("/:id", h.Estimate.Delete)
	estimates.POST("/:id/send", h.Estimate.MarkSent)
	estimates.POST("/:id/accept", h.Estimate.Accept)
	estimates.POST("/:id/decline", h.Estimate.Decline)
	estimates.POST("/:id/convert", h.Estimate.ConvertToInvoice)
	estimates.GET("/:id/pdf", h.Estimate.DownloadPDF)

	recurring := protected.Group("/recurring")
	recurring.POST("", h.Recurring.Create)
	recurring.GET("", h.Recurring.List)
	recurring.GET("/:id", h.Recurring.GetByID)
	recurring.PUT("/:id", h.Recurring.Update)
	recurring.DELETE("/:id", h.Recurring.Delete)
	recurring.POST("/:id/pause", h.Recurring.Pause)
	recurring.POST("/:id/resume", h.Recurring.Resume)

	payments := protected.Group("/payments")
	payments.POST("/checkout", h.Payment.CreateCheckout)
	payments.GET("", h.Payment.List)

	expenses := protected.Group("/expenses")
	expenses.POST("", h.Expense.Create)
	expenses.GET("", h.Expense.List)
	expenses.GET("/export", h.Expense.ExportCSV)
	expenses.GET("/:id", h.Expense.GetByID)
	expenses.PUT("/:id", h.Expense.Update)
	expenses.DELETE("/:id", h.Expense.Delete)

	templates := protected.Group("/templates")
	templates.POST("", h.Template.Create)
	templates.GET("", h.Template.List)
	templates.GET("/:id", h.Template.GetByID)
	templates.PUT("/:id", h.Template.Update)
	templates.DELETE("/:id", h.Template.Delete)
	templates.POST("/:id/default", h.Template.SetDefault)
	templates.POST("/:id/logo", h.Template.UploadLogo)
	templates.GET("/:id/logo", h.Template.LogoURL)

	stats := protected.Group("/stats")
	stats.GET("/dashboard", h.Stats.Dashboard)
	stats.GET("/revenue", h.Stats.RevenueByMonth)
	stats.GET("/top-clients", h.Stats.TopClients)
	stats.GET("/expense-categories", h.Stats.ExpensesByCategory)
	stats.GET("/export", h.Stats.ExportXLSX)

	assist := protected.Group("/assist")
	assist.POST("/draft", h.Assist.DraftInvoice)

	return r
}
