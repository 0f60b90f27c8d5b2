// Package testutil holds testify mocks of the ledger repositories shared by
// the application service tests.
package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/production"
)

// MockClientRepository is a testify mock of partner.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter partner.ClientFilter) ([]partner.Client, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockClientRepository) IsReferenced(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Bool(0), args.Error(1)
}

// MockSupplierRepository is a testify mock of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter partner.SupplierFilter) ([]partner.Supplier, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Supplier), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

func (m *MockSupplierRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockSupplierRepository) IsReferenced(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Bool(0), args.Error(1)
}

// MockJobRepository is a testify mock of production.JobRepository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*production.Job, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.Job), args.Error(1)
}

func (m *MockJobRepository) FindByIDsForOwner(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]production.Job, error) {
	args := m.Called(ctx, ownerID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.Job), args.Error(1)
}

func (m *MockJobRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter production.JobFilter) ([]production.Job, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]production.Job), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepository) FindByInvoice(ctx context.Context, ownerID, invoiceID uuid.UUID) ([]production.Job, error) {
	args := m.Called(ctx, ownerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.Job), args.Error(1)
}

func (m *MockJobRepository) Save(ctx context.Context, job *production.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepository) SaveWithLock(ctx context.Context, job *production.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockJobRepository) GenerateJobCode(ctx context.Context, ownerID uuid.UUID) (string, error) {
	args := m.Called(ctx, ownerID)
	return args.String(0), args.Error(1)
}

// MockOutsourcingRepository is a testify mock of production.OutsourcingRepository
type MockOutsourcingRepository struct {
	mock.Mock
}

func (m *MockOutsourcingRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*production.OutsourcingRecord, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.OutsourcingRecord), args.Error(1)
}

func (m *MockOutsourcingRepository) FindByJob(ctx context.Context, ownerID, jobID uuid.UUID) ([]production.OutsourcingRecord, error) {
	args := m.Called(ctx, ownerID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.OutsourcingRecord), args.Error(1)
}

func (m *MockOutsourcingRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter production.OutsourcingFilter) ([]production.OutsourcingRecord, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]production.OutsourcingRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockOutsourcingRepository) FindMatching(ctx context.Context, ownerID uuid.UUID, filter production.OutsourcingFilter) ([]production.OutsourcingRecord, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.OutsourcingRecord), args.Error(1)
}

func (m *MockOutsourcingRepository) Save(ctx context.Context, record *production.OutsourcingRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockOutsourcingRepository) SaveWithLock(ctx context.Context, record *production.OutsourcingRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockOutsourcingRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockOutsourcingRepository) DeleteByJob(ctx context.Context, ownerID, jobID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, ownerID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockExpenseRecordRepository is a testify mock of finance.ExpenseRecordRepository
type MockExpenseRecordRepository struct {
	mock.Mock
}

func (m *MockExpenseRecordRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*finance.ExpenseRecord, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ExpenseRecord), args.Error(1)
}

func (m *MockExpenseRecordRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter finance.ExpenseFilter) ([]finance.ExpenseRecord, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.ExpenseRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseRecordRepository) FindMatching(ctx context.Context, ownerID uuid.UUID, filter finance.ExpenseFilter) ([]finance.ExpenseRecord, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.ExpenseRecord), args.Error(1)
}

func (m *MockExpenseRecordRepository) Save(ctx context.Context, expense *finance.ExpenseRecord) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRecordRepository) SaveWithLock(ctx context.Context, expense *finance.ExpenseRecord) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRecordRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

// MockInvoiceRepository is a testify mock of finance.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindMatching(ctx context.Context, ownerID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, ownerID uuid.UUID) (string, error) {
	args := m.Called(ctx, ownerID)
	return args.String(0), args.Error(1)
}

// MockQuoteRepository is a testify mock of finance.QuoteRepository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*finance.Quote, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter finance.QuoteFilter) ([]finance.Quote, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.Quote), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuoteRepository) Save(ctx context.Context, quote *finance.Quote) error {
	return m.Called(ctx, quote).Error(0)
}

func (m *MockQuoteRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockQuoteRepository) GenerateQuoteNumber(ctx context.Context, ownerID uuid.UUID) (string, error) {
	args := m.Called(ctx, ownerID)
	return args.String(0), args.Error(1)
}

var (
	_ partner.ClientRepository         = (*MockClientRepository)(nil)
	_ partner.SupplierRepository       = (*MockSupplierRepository)(nil)
	_ production.JobRepository         = (*MockJobRepository)(nil)
	_ production.OutsourcingRepository = (*MockOutsourcingRepository)(nil)
	_ finance.ExpenseRecordRepository  = (*MockExpenseRecordRepository)(nil)
	_ finance.InvoiceRepository        = (*MockInvoiceRepository)(nil)
	_ finance.QuoteRepository          = (*MockQuoteRepository)(nil)
)
