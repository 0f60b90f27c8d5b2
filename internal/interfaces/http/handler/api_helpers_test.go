package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	financeapp "github.com/jobledger/backend/internal/application/finance"
	partnerapp "github.com/jobledger/backend/internal/application/partner"
	productionapp "github.com/jobledger/backend/internal/application/production"
	reportapp "github.com/jobledger/backend/internal/application/report"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/infrastructure/auth"
	"github.com/jobledger/backend/internal/infrastructure/cache"
	"github.com/jobledger/backend/internal/infrastructure/config"
	"github.com/jobledger/backend/internal/infrastructure/persistence"
	"github.com/jobledger/backend/internal/infrastructure/persistence/models"
	"github.com/jobledger/backend/internal/infrastructure/storage"
	"github.com/jobledger/backend/internal/infrastructure/telemetry"
	"github.com/jobledger/backend/internal/interfaces/http/dto"
	"github.com/jobledger/backend/internal/interfaces/http/handler"
	"github.com/jobledger/backend/internal/interfaces/http/middleware"
	"github.com/jobledger/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Changes *shared.ChangeSet `json:"changes"`
	Error   *dto.ErrorInfo    `json:"error"`
	Meta    *dto.Meta         `json:"meta"`
}

type testAPI struct {
	t       *testing.T
	engine  *gin.Engine
	jwt     *auth.JWTService
	reader  *sdkmetric.ManualReader
	ownerID uuid.UUID
	token   string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	// shared cache: some services read partners on a second connection while
	// a transaction is open
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	clients := persistence.NewGormClientRepository(db)
	suppliers := persistence.NewGormSupplierRepository(db)
	jobs := persistence.NewGormJobRepository(db)
	outsourcing := persistence.NewGormOutsourcingRepository(db)
	invoices := persistence.NewGormInvoiceRepository(db)
	expenses := persistence.NewGormExpenseRecordRepository(db)
	quotes := persistence.NewGormQuoteRepository(db)
	scope := persistence.NewGormTransactionScope(db)

	reportCache := cache.NewInMemoryReportCache(time.Minute)
	t.Cleanup(func() { _ = reportCache.Close() })

	log := zap.NewNop()
	jobService := productionapp.NewJobService(jobs, clients, scope, log)
	outsourcingService := productionapp.NewOutsourcingService(jobs, outsourcing, suppliers, scope, log)
	reportService := reportapp.NewReportService(invoices, expenses, outsourcing, jobs, reportCache, log)

	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, log)
	metrics, err := telemetry.NewLedgerMetrics(mp)
	require.NoError(t, err)

	h := router.Handlers{
		Client:      handler.NewClientHandler(partnerapp.NewClientService(clients)),
		Supplier:    handler.NewSupplierHandler(partnerapp.NewSupplierService(suppliers)),
		Job:         handler.NewJobHandler(jobService, outsourcingService, reportService, metrics),
		Outsourcing: handler.NewOutsourcingHandler(outsourcingService, metrics),
		Expense: handler.NewExpenseHandler(financeapp.NewExpenseService(expenses, suppliers,
			storage.NewStubReceiptStorage(), financeapp.DefaultExpenseServiceConfig(), log), metrics),
		Invoice: handler.NewInvoiceHandler(financeapp.NewInvoiceService(invoices, clients, scope, log), metrics),
		Quote:   handler.NewQuoteHandler(financeapp.NewQuoteService(quotes, clients)),
		Report:  handler.NewReportHandler(reportService, metrics),
		System:  handler.NewSystemHandler(sqlDB, "test"),
	}

	jwtService := auth.NewJWTService(config.JWTConfig{Secret: "handler-test-secret"})
	engine := router.NewAPI(router.APIConfig{
		Logger:        log,
		Verifier:      jwtService,
		CORS:          middleware.DefaultCORSConfig(),
		MaxBodyBytes:  1 << 20,
		MeterProvider: mp,
		Invalidator:   reportService,
	}, h)

	api := &testAPI{t: t, engine: engine, jwt: jwtService, reader: reader}
	api.ownerID, api.token = api.newOwner()
	return api
}

func (a *testAPI) newOwner() (uuid.UUID, string) {
	a.t.Helper()
	owner := uuid.New()
	token, err := a.jwt.Issue(owner, time.Hour)
	require.NoError(a.t, err)
	return owner, token
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	return a.doAs(a.token, method, path, body)
}

func (a *testAPI) doAs(token, method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// decode reads the envelope and, when out is non-nil, its data
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

// create posts body to path, expects 201 and returns the created id
func (a *testAPI) create(path string, body any) uuid.UUID {
	a.t.Helper()
	w := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	decode(a.t, w, &created)
	return created.ID
}

func (a *testAPI) createClient(name, currency string) uuid.UUID {
	return a.create("/api/v1/clients", map[string]any{"name": name, "default_currency": currency})
}

func (a *testAPI) createSupplier(name, currency string) uuid.UUID {
	return a.create("/api/v1/suppliers", map[string]any{"name": name, "default_currency": currency})
}

// createWordJob creates a per-word job of 1000 words at 0.10
func (a *testAPI) createWordJob(clientID uuid.UUID, title string) uuid.UUID {
	return a.create("/api/v1/jobs", map[string]any{
		"client_id":    clientID,
		"title":        title,
		"pricing_type": "per_word",
		"quantity":     "1000",
		"rate":         "0.10",
	})
}

// counter sums the data points of a counter metric
func (a *testAPI) counter(name string) int64 {
	a.t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(a.t, a.reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}
