package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/production"
	domain "github.com/jobledger/backend/internal/domain/report"
)

const dashboardCacheKey = "dashboard"

// Cache stores rendered reports per owner. Implemented by infrastructure/cache.
type Cache interface {
	Get(ctx context.Context, ownerID uuid.UUID, key string) ([]byte, bool, error)
	Set(ctx context.Context, ownerID uuid.UUID, key string, value []byte) error
	InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error
}

// ReportService computes read-only financial figures
type ReportService struct {
	invoiceRepo     finance.InvoiceRepository
	expenseRepo     finance.ExpenseRecordRepository
	outsourcingRepo production.OutsourcingRepository
	jobRepo         production.JobRepository
	cache           Cache
	logger          *zap.Logger
	now             func() time.Time
}

// NewReportService creates a new ReportService. A nil cache disables dashboard caching.
func NewReportService(
	invoiceRepo finance.InvoiceRepository,
	expenseRepo finance.ExpenseRecordRepository,
	outsourcingRepo production.OutsourcingRepository,
	jobRepo production.JobRepository,
	cache Cache,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		invoiceRepo:     invoiceRepo,
		expenseRepo:     expenseRepo,
		outsourcingRepo: outsourcingRepo,
		jobRepo:         jobRepo,
		cache:           cache,
		logger:          logger,
		now:             time.Now,
	}
}

// OutstandingReceivables sums unpaid invoice totals per currency
func (s *ReportService) OutstandingReceivables(ctx context.Context, ownerID uuid.UUID) (*TotalsResponse, error) {
	invoices, err := s.invoiceRepo.FindMatching(ctx, ownerID, finance.InvoiceFilter{})
	if err != nil {
		return nil, err
	}
	return &TotalsResponse{Totals: domain.OutstandingReceivables(invoices), AsOf: s.now()}, nil
}

// Collected sums paid invoice totals per currency
func (s *ReportService) Collected(ctx context.Context, ownerID uuid.UUID) (*TotalsResponse, error) {
	paid := finance.InvoiceStatusPaid
	invoices, err := s.invoiceRepo.FindMatching(ctx, ownerID, finance.InvoiceFilter{Status: &paid})
	if err != nil {
		return nil, err
	}
	return &TotalsResponse{Totals: domain.Collected(invoices), AsOf: s.now()}, nil
}

// Payables sums unpaid, non-cancelled outsourcing totals per currency
func (s *ReportService) Payables(ctx context.Context, ownerID uuid.UUID) (*TotalsResponse, error) {
	records, err := s.payableRecords(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &TotalsResponse{Totals: domain.Payables(records), AsOf: s.now()}, nil
}

// ExpenseSummary returns expense totals per payment class
func (s *ReportService) ExpenseSummary(ctx context.Context, ownerID uuid.UUID) (*domain.ExpenseSummary, error) {
	expenses, err := s.expenseRepo.FindMatching(ctx, ownerID, finance.ExpenseFilter{})
	if err != nil {
		return nil, err
	}
	summary := domain.SummarizeExpenses(expenses, s.now())
	return &summary, nil
}

// JobMargin returns the margin of one job
func (s *ReportService) JobMargin(ctx context.Context, ownerID, jobID uuid.UUID) (*JobMarginResponse, error) {
	job, err := s.jobRepo.FindByIDForOwner(ctx, ownerID, jobID)
	if err != nil {
		return nil, err
	}
	records, err := s.outsourcingRepo.FindByJob(ctx, ownerID, jobID)
	if err != nil {
		return nil, err
	}
	response := ToJobMarginResponse(domain.ComputeJobMargin(job, records))
	return &response, nil
}

// Dashboard combines every figure. Results are cached per owner until the
// owner's next write invalidates them.
func (s *ReportService) Dashboard(ctx context.Context, ownerID uuid.UUID) (*DashboardResponse, error) {
	if cached, ok := s.cachedDashboard(ctx, ownerID); ok {
		return cached, nil
	}

	invoices, err := s.invoiceRepo.FindMatching(ctx, ownerID, finance.InvoiceFilter{})
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindMatching(ctx, ownerID, finance.ExpenseFilter{})
	if err != nil {
		return nil, err
	}
	records, err := s.payableRecords(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	dashboard := &DashboardResponse{
		OutstandingReceivables: domain.OutstandingReceivables(invoices),
		Collected:              domain.Collected(invoices),
		Payables:               domain.Payables(records),
		Expenses:               domain.SummarizeExpenses(expenses, now),
		PastDueInvoices:        domain.CountPastDue(invoices, now),
		GeneratedAt:            now,
	}
	s.storeDashboard(ctx, ownerID, dashboard)
	return dashboard, nil
}

// Invalidate drops every cached report of the owner
func (s *ReportService) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOwner(ctx, ownerID); err != nil {
		s.logger.Warn("failed to invalidate report cache",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err),
		)
	}
}

func (s *ReportService) payableRecords(ctx context.Context, ownerID uuid.UUID) ([]production.OutsourcingRecord, error) {
	unpaid := false
	return s.outsourcingRepo.FindMatching(ctx, ownerID, production.OutsourcingFilter{
		Paid:       &unpaid,
		ActiveOnly: true,
	})
}

// cache failures degrade to a recomputation
func (s *ReportService) cachedDashboard(ctx context.Context, ownerID uuid.UUID) (*DashboardResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, ownerID, dashboardCacheKey)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.String("owner_id", ownerID.String()), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var dashboard DashboardResponse
	if err := json.Unmarshal(data, &dashboard); err != nil {
		s.logger.Warn("discarding unreadable cached dashboard", zap.String("owner_id", ownerID.String()), zap.Error(err))
		return nil, false
	}
	dashboard.Cached = true
	return &dashboard, true
}

func (s *ReportService) storeDashboard(ctx context.Context, ownerID uuid.UUID, dashboard *DashboardResponse) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(dashboard)
	if err != nil {
		s.logger.Warn("failed to encode dashboard", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, ownerID, dashboardCacheKey, data); err != nil {
		s.logger.Warn("report cache write failed", zap.String("owner_id", ownerID.String()), zap.Error(err))
	}
}
