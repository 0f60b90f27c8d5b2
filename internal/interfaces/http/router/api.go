package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobledger/backend/internal/infrastructure/logger"
	"github.com/jobledger/backend/internal/infrastructure/telemetry"
	"github.com/jobledger/backend/internal/interfaces/http/dto"
	"github.com/jobledger/backend/internal/interfaces/http/handler"
	"github.com/jobledger/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers served under the versioned API
type Handlers struct {
	Client      *handler.ClientHandler
	Supplier    *handler.SupplierHandler
	Job         *handler.JobHandler
	Outsourcing *handler.OutsourcingHandler
	Expense     *handler.ExpenseHandler
	Invoice     *handler.InvoiceHandler
	Quote       *handler.QuoteHandler
	Report      *handler.ReportHandler
	System      *handler.SystemHandler
}

// APIConfig configures the middleware chain of the engine built by NewAPI
type APIConfig struct {
	Logger        *zap.Logger
	Verifier      middleware.TokenVerifier
	CORS          middleware.CORSConfig
	MaxBodyBytes  int64
	Tracing       middleware.TracingConfig
	MeterProvider *telemetry.MeterProvider
	// Invalidator drops cached reports after writes. Nil disables it.
	Invalidator middleware.ReportInvalidator
	APIVersion  string
}

// NewAPI builds the gin engine with the global middleware chain, the health
// endpoint and every owner-scoped route group.
func NewAPI(cfg APIConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	version := cfg.APIVersion
	if version == "" {
		version = "v1"
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(cfg.CORS),
		middleware.BodyLimit(cfg.MaxBodyBytes),
		middleware.Tracing(cfg.Tracing),
		middleware.HTTPMetrics(cfg.MeterProvider),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound,
			"Route not found: "+c.Request.Method+" "+c.Request.URL.Path, c.GetString(logger.GinRequestIDKey)))
	})
	engine.GET("/health", h.System.Health)

	ledger := NewRouteGroup("")
	ledger.Use(
		middleware.OwnerAuth(middleware.OwnerAuthConfig{Verifier: cfg.Verifier, Logger: log}),
		middleware.SpanEnricher(),
	)
	if cfg.Invalidator != nil {
		ledger.Use(middleware.InvalidateReports(cfg.Invalidator))
	}

	registerLedgerRoutes(ledger, h)

	ledger.Mount(engine.Group("/api/" + version))
	log.Debug("API routes mounted", zap.String("version", version), zap.Int("routes", len(ledger.Routes())))
	return engine
}

func registerLedgerRoutes(ledger *RouteGroup, h Handlers) {
	registerPartnerRoutes(ledger, h)
	registerProductionRoutes(ledger, h)
	registerFinanceRoutes(ledger, h)
	registerReportRoutes(ledger, h)

	system := ledger.Group("/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)
}

func registerPartnerRoutes(ledger *RouteGroup, h Handlers) {
	clients := ledger.Group("/clients")
	clients.POST("", h.Client.Create)
	clients.GET("", h.Client.List)
	clients.GET("/:id", h.Client.GetByID)
	clients.PUT("/:id", h.Client.Update)
	clients.DELETE("/:id", h.Client.Delete)

	suppliers := ledger.Group("/suppliers")
	suppliers.POST("", h.Supplier.Create)
	suppliers.GET("", h.Supplier.List)
	suppliers.GET("/:id", h.Supplier.GetByID)
	suppliers.PUT("/:id", h.Supplier.Update)
	suppliers.DELETE("/:id", h.Supplier.Delete)
	suppliers.PUT("/:id/rate-card", h.Supplier.SetRateCard)
}

func registerProductionRoutes(ledger *RouteGroup, h Handlers) {
	jobs := ledger.Group("/jobs")
	jobs.POST("", h.Job.Create)
	jobs.GET("", h.Job.List)
	jobs.PATCH("/bulk/status", h.Job.BulkSetStatus)
	jobs.DELETE("/bulk", h.Job.BulkDelete)
	jobs.GET("/:id", h.Job.GetByID)
	jobs.PATCH("/:id", h.Job.Update)
	jobs.DELETE("/:id", h.Job.Delete)
	jobs.POST("/:id/status", h.Job.Transition)
	jobs.GET("/:id/margin", h.Job.Margin)
	jobs.GET("/:id/outsourcing", h.Job.Outsourcing)

	outsourcing := ledger.Group("/outsourcing")
	outsourcing.POST("", h.Outsourcing.Create)
	outsourcing.GET("", h.Outsourcing.List)
	outsourcing.GET("/:id", h.Outsourcing.GetByID)
	outsourcing.PATCH("/:id", h.Outsourcing.Update)
	outsourcing.DELETE("/:id", h.Outsourcing.Delete)
	outsourcing.PATCH("/:id/status", h.Outsourcing.SetStatus)
	outsourcing.POST("/:id/confirm-delivery", h.Outsourcing.ConfirmDelivery)
	outsourcing.POST("/:id/toggle-paid", h.Outsourcing.TogglePaid)
}

func registerFinanceRoutes(ledger *RouteGroup, h Handlers) {
	expenses := ledger.Group("/expenses")
	expenses.POST("", h.Expense.Create)
	expenses.GET("", h.Expense.List)
	expenses.PATCH("/bulk/paid", h.Expense.BulkMarkPaid)
	expenses.DELETE("/bulk", h.Expense.BulkDelete)
	expenses.GET("/:id", h.Expense.GetByID)
	expenses.PATCH("/:id", h.Expense.Update)
	expenses.DELETE("/:id", h.Expense.Delete)
	expenses.POST("/:id/paid", h.Expense.MarkPaid)
	expenses.POST("/:id/receipt", h.Expense.AttachReceipt)
	expenses.GET("/:id/receipt", h.Expense.ReceiptURL)

	invoices := ledger.Group("/invoices")
	invoices.POST("/generate", h.Invoice.Generate)
	invoices.GET("", h.Invoice.List)
	invoices.PATCH("/bulk/status", h.Invoice.BulkSetStatus)
	invoices.DELETE("/bulk", h.Invoice.BulkDelete)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.DELETE("/:id", h.Invoice.Delete)
	invoices.PATCH("/:id/status", h.Invoice.SetStatus)

	quotes := ledger.Group("/quotes")
	quotes.POST("", h.Quote.Create)
	quotes.GET("", h.Quote.List)
	quotes.GET("/:id", h.Quote.GetByID)
	quotes.PUT("/:id", h.Quote.Update)
	quotes.DELETE("/:id", h.Quote.Delete)
	quotes.PATCH("/:id/status", h.Quote.SetStatus)
}

func registerReportRoutes(ledger *RouteGroup, h Handlers) {
	reports := ledger.Group("/reports")
	reports.GET("/dashboard", h.Report.Dashboard)
	reports.GET("/receivables", h.Report.Receivables)
	reports.GET("/collected", h.Report.Collected)
	reports.GET("/payables", h.Report.Payables)
	reports.GET("/expenses", h.Report.Expenses)
}
