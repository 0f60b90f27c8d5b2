package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/jobledger/backend/tests/testutil"
)

var fixedNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, ownerID uuid.UUID, key string) ([]byte, bool, error) {
	args := m.Called(ctx, ownerID, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, ownerID uuid.UUID, key string, value []byte) error {
	return m.Called(ctx, ownerID, key, value).Error(0)
}

func (m *mockCache) InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error {
	return m.Called(ctx, ownerID).Error(0)
}

type reportFixture struct {
	service     *ReportService
	invoices    *testutil.MockInvoiceRepository
	expenses    *testutil.MockExpenseRecordRepository
	outsourcing *testutil.MockOutsourcingRepository
	jobs        *testutil.MockJobRepository
	cache       *mockCache
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		invoices:    new(testutil.MockInvoiceRepository),
		expenses:    new(testutil.MockExpenseRecordRepository),
		outsourcing: new(testutil.MockOutsourcingRepository),
		jobs:        new(testutil.MockJobRepository),
		cache:       new(mockCache),
	}
	f.service = NewReportService(f.invoices, f.expenses, f.outsourcing, f.jobs, f.cache, nil)
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func ownerID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func invoice(t *testing.T, amount string, currency valueobject.Currency, status finance.InvoiceStatus) finance.Invoice {
	t.Helper()
	item, err := finance.NewLineItem("Line", decimal.NewFromInt(1), decimal.RequireFromString(amount))
	require.NoError(t, err)
	inv, err := finance.NewInvoice(ownerID(), uuid.New(), "INV-202610-00001", currency, []finance.LineItem{item}, fixedNow, nil)
	require.NoError(t, err)
	_, err = inv.SetStatus(status)
	require.NoError(t, err)
	return *inv
}

func (f *reportFixture) expectSources(t *testing.T) {
	job, err := production.NewJob(ownerID(), uuid.New(), "JOB-202610-00001", "Catalogue", "translation",
		production.Pricing{Type: production.PricingFlatFee, FlatAmount: dec("900"), Currency: valueobject.USD})
	require.NoError(t, err)
	supplier, err := partner.NewSupplier(ownerID(), "Lingua Partners", valueobject.EUR)
	require.NoError(t, err)
	record, err := production.NewOutsourcingRecord(job, supplier, production.OutsourcingTerms{SupplierTotal: dec("75")})
	require.NoError(t, err)

	expense, err := finance.NewExpenseRecord(ownerID(), finance.ExpenseInput{
		Category: finance.ExpenseCategorySoftware,
		Amount:   decimal.NewFromInt(30),
		Currency: valueobject.USD,
		Date:     fixedNow,
	})
	require.NoError(t, err)

	f.invoices.On("FindMatching", mock.Anything, ownerID(), finance.InvoiceFilter{}).Return([]finance.Invoice{
		invoice(t, "500", valueobject.USD, finance.InvoiceStatusSent),
		invoice(t, "200", valueobject.USD, finance.InvoiceStatusPaid),
	}, nil)
	f.expenses.On("FindMatching", mock.Anything, ownerID(), finance.ExpenseFilter{}).
		Return([]finance.ExpenseRecord{*expense}, nil)
	f.outsourcing.On("FindMatching", mock.Anything, ownerID(), mock.MatchedBy(func(filter production.OutsourcingFilter) bool {
		return filter.ActiveOnly && filter.Paid != nil && !*filter.Paid
	})).Return([]production.OutsourcingRecord{*record}, nil)
}

func TestReportService_Dashboard_MissComputesAndStores(t *testing.T) {
	f := newReportFixture()
	ctx := context.Background()
	f.expectSources(t)
	f.cache.On("Get", ctx, ownerID(), "dashboard").Return(nil, false, nil)
	f.cache.On("Set", ctx, ownerID(), "dashboard", mock.Anything).Return(nil)

	dashboard, err := f.service.Dashboard(ctx, ownerID())

	require.NoError(t, err)
	assert.False(t, dashboard.Cached)
	assert.True(t, dashboard.OutstandingReceivables.Get(valueobject.USD).Amount().Equal(decimal.NewFromInt(500)))
	assert.True(t, dashboard.Collected.Get(valueobject.USD).Amount().Equal(decimal.NewFromInt(200)))
	assert.True(t, dashboard.Payables.Get(valueobject.EUR).Amount().Equal(decimal.NewFromInt(75)))
	assert.True(t, dashboard.Expenses.Unpaid.Get(valueobject.USD).Amount().Equal(decimal.NewFromInt(30)))
	f.cache.AssertExpectations(t)
}

func TestReportService_Dashboard_HitSkipsRepositories(t *testing.T) {
	f := newReportFixture()
	ctx := context.Background()
	payload := []byte(`{
		"outstanding_receivables":[{"amount":"12.00","currency":"GBP"}],
		"collected":[],"payables":[],
		"expenses":{"paid":[],"unpaid":[],"overdue":[]},
		"past_due_invoices":2,"generated_at":"2026-10-14T08:00:00Z"}`)
	f.cache.On("Get", ctx, ownerID(), "dashboard").Return(payload, true, nil)

	dashboard, err := f.service.Dashboard(ctx, ownerID())

	require.NoError(t, err)
	assert.True(t, dashboard.Cached)
	assert.Equal(t, 2, dashboard.PastDueInvoices)
	assert.True(t, dashboard.OutstandingReceivables.Get(valueobject.GBP).Amount().Equal(decimal.NewFromInt(12)))
	f.invoices.AssertNotCalled(t, "FindMatching", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_Dashboard_CacheErrorsDegrade(t *testing.T) {
	f := newReportFixture()
	ctx := context.Background()
	f.expectSources(t)
	f.cache.On("Get", ctx, ownerID(), "dashboard").Return(nil, false, errors.New("connection refused"))
	f.cache.On("Set", ctx, ownerID(), "dashboard", mock.Anything).Return(errors.New("connection refused"))

	dashboard, err := f.service.Dashboard(ctx, ownerID())

	require.NoError(t, err)
	assert.True(t, dashboard.OutstandingReceivables.Get(valueobject.USD).Amount().Equal(decimal.NewFromInt(500)))
}

func TestReportService_JobMargin(t *testing.T) {
	f := newReportFixture()
	ctx := context.Background()

	job, err := production.NewJob(ownerID(), uuid.New(), "JOB-202610-00004", "Website", "localization",
		production.Pricing{Type: production.PricingFlatFee, FlatAmount: dec("0"), Currency: valueobject.USD})
	require.NoError(t, err)
	f.jobs.On("FindByIDForOwner", ctx, ownerID(), job.ID).Return(job, nil)
	f.outsourcing.On("FindByJob", ctx, ownerID(), job.ID).Return([]production.OutsourcingRecord{}, nil)

	margin, err := f.service.JobMargin(ctx, ownerID(), job.ID)

	require.NoError(t, err)
	assert.False(t, margin.Defined)
	assert.Nil(t, margin.Ratio)
}

func TestReportService_Invalidate(t *testing.T) {
	f := newReportFixture()
	ctx := context.Background()
	f.cache.On("InvalidateOwner", ctx, ownerID()).Return(errors.New("timeout"))

	assert.NotPanics(t, func() { f.service.Invalidate(ctx, ownerID()) })
	f.cache.AssertExpectations(t)
}
