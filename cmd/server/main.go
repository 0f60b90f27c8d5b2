package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	financeapp "github.com/jobledger/backend/internal/application/finance"
	partnerapp "github.com/jobledger/backend/internal/application/partner"
	productionapp "github.com/jobledger/backend/internal/application/production"
	reportapp "github.com/jobledger/backend/internal/application/report"
	"github.com/jobledger/backend/internal/infrastructure/auth"
	"github.com/jobledger/backend/internal/infrastructure/cache"
	"github.com/jobledger/backend/internal/infrastructure/config"
	"github.com/jobledger/backend/internal/infrastructure/logger"
	"github.com/jobledger/backend/internal/infrastructure/persistence"
	"github.com/jobledger/backend/internal/infrastructure/storage"
	"github.com/jobledger/backend/internal/infrastructure/telemetry"
	"github.com/jobledger/backend/internal/interfaces/http/handler"
	"github.com/jobledger/backend/internal/interfaces/http/middleware"
	"github.com/jobledger/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Job Ledger API
//	@version		1.0
//	@description	Job financial lifecycle: jobs, outsourcing, expenses, invoices, quotes and per-currency reports

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	tel := cfg.Telemetry

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           tel.Enabled && tel.LogsEnabled,
		CollectorEndpoint: tel.CollectorEndpoint,
		ServiceName:       tel.ServiceName,
		Insecure:          tel.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = loggerProvider.Bridge(log, zapcore.InfoLevel)

	log.Info("Starting job ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           tel.Enabled,
		CollectorEndpoint: tel.CollectorEndpoint,
		SamplingRatio:     tel.SamplingRatio,
		ServiceName:       tel.ServiceName,
		Insecure:          tel.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           tel.Enabled && tel.MetricsEnabled,
		CollectorEndpoint: tel.CollectorEndpoint,
		ExportInterval:    tel.MetricsInterval,
		ServiceName:       tel.ServiceName,
		Insecure:          tel.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	ledgerMetrics, err := telemetry.NewLedgerMetrics(meterProvider)
	if err != nil {
		log.Fatal("Failed to register ledger metrics", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(tel.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = tel.Enabled && tel.DBTraceEnabled
	dbTracing.LogFullSQL = tel.DBLogFullSQL
	if tel.DBSlowQueryThresh > 0 {
		dbTracing.SlowQueryThresh = tel.DBSlowQueryThresh
	}
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	jobRepo := persistence.NewGormJobRepository(db.DB)
	outsourcingRepo := persistence.NewGormOutsourcingRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRecordRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	reportCache, err := cache.NewReportCacheFactory(cfg.Redis, cfg.Report,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.IsDevelopment()),
	).CreateCache()
	if err != nil {
		log.Fatal("Failed to create report cache", zap.Error(err))
	}

	// Receipt storage stays nil when disabled, which turns receipt endpoints
	// into RECEIPTS_DISABLED
	var receipts financeapp.ReceiptStorage
	switch {
	case cfg.Storage.Enabled:
		s3, err := storage.NewS3ReceiptStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize receipt storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal("Receipt bucket unavailable", zap.String("bucket", s3.Bucket()), zap.Error(err))
		}
		receipts = s3
	case cfg.IsDevelopment():
		log.Warn("Object storage disabled, using stub receipt URLs")
		receipts = storage.NewStubReceiptStorage()
	default:
		log.Warn("Object storage disabled, receipt uploads are off")
	}

	// Services
	clientService := partnerapp.NewClientService(clientRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	jobService := productionapp.NewJobService(jobRepo, clientRepo, txScope, log)
	outsourcingService := productionapp.NewOutsourcingService(jobRepo, outsourcingRepo, supplierRepo, txScope, log)
	expenseService := financeapp.NewExpenseService(expenseRepo, supplierRepo, receipts, financeapp.ExpenseServiceConfig{
		UploadURLExpiry:   cfg.Storage.UploadURLExpiry,
		DownloadURLExpiry: cfg.Storage.DownloadURLExpiry,
	}, log)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, clientRepo, txScope, log)
	quoteService := financeapp.NewQuoteService(quoteRepo, clientRepo)
	reportService := reportapp.NewReportService(invoiceRepo, expenseRepo, outsourcingRepo, jobRepo, reportCache, log)

	handlers := router.Handlers{
		Client:      handler.NewClientHandler(clientService),
		Supplier:    handler.NewSupplierHandler(supplierService),
		Job:         handler.NewJobHandler(jobService, outsourcingService, reportService, ledgerMetrics),
		Outsourcing: handler.NewOutsourcingHandler(outsourcingService, ledgerMetrics),
		Expense:     handler.NewExpenseHandler(expenseService, ledgerMetrics),
		Invoice:     handler.NewInvoiceHandler(invoiceService, ledgerMetrics),
		Quote:       handler.NewQuoteHandler(quoteService),
		Report:      handler.NewReportHandler(reportService, ledgerMetrics),
		System:      handler.NewSystemHandler(db, version),
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine := router.NewAPI(router.APIConfig{
		Logger:       log,
		Verifier:     auth.NewJWTService(cfg.JWT),
		CORS:         cors,
		MaxBodyBytes: cfg.HTTP.MaxBodySize,
		Tracing: middleware.TracingConfig{
			ServiceName:    tel.ServiceName,
			Enabled:        tracerProvider.IsEnabled(),
			TracerProvider: otel.GetTracerProvider(),
		},
		MeterProvider: meterProvider,
		Invalidator:   reportService,
	}, handlers)
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Providers flush last so spans from in-flight requests are exported
	if err := reportCache.Close(); err != nil {
		log.Error("Error closing report cache", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
