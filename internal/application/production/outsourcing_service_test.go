package production

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

	"github.com/jobledger/backend/internal/application/transaction"
	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/jobledger/backend/tests/testutil"
)

type outsourcingFixture struct {
	service     *OutsourcingService
	jobs        *testutil.MockJobRepository
	outsourcing *testutil.MockOutsourcingRepository
	suppliers   *testutil.MockSupplierRepository
	expenses    *testutil.MockExpenseRecordRepository

	job      *production.Job
	supplier *partner.Supplier
}

func newOutsourcingFixture(t *testing.T) *outsourcingFixture {
	t.Helper()
	f := &outsourcingFixture{
		jobs:        new(testutil.MockJobRepository),
		outsourcing: new(testutil.MockOutsourcingRepository),
		suppliers:   new(testutil.MockSupplierRepository),
		expenses:    new(testutil.MockExpenseRecordRepository),
	}
	scope := transaction.NewNoOpScope(f.jobs, f.outsourcing, f.expenses, new(testutil.MockInvoiceRepository))
	f.service = NewOutsourcingService(f.jobs, f.outsourcing, f.suppliers, scope, nil)
	f.service.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }

	f.job = newServiceTestJob(t, testOwnerID())
	supplier, err := partner.NewSupplier(testOwnerID(), "Lingua Partners", valueobject.EUR)
	require.NoError(t, err)
	f.supplier = supplier
	return f
}

func (f *outsourcingFixture) newRecord(t *testing.T) *production.OutsourcingRecord {
	t.Helper()
	record, err := production.NewOutsourcingRecord(f.job, f.supplier, production.OutsourcingTerms{SupplierRate: decPtr("0.05")})
	require.NoError(t, err)
	return record
}

func TestOutsourcingService_Create_RaisesJobFlag(t *testing.T) {
	f := newOutsourcingFixture(t)
	ctx := context.Background()
	ownerID := testOwnerID()

	active := f.newRecord(t)
	f.suppliers.On("FindByIDForOwner", ctx, ownerID, f.supplier.ID).Return(f.supplier, nil)
	f.jobs.On("FindByIDForOwner", ctx, ownerID, f.job.ID).Return(f.job, nil)
	f.outsourcing.On("Save", ctx, mock.AnythingOfType("*production.OutsourcingRecord")).Return(nil)
	f.outsourcing.On("FindByJob", ctx, ownerID, f.job.ID).Return([]production.OutsourcingRecord{*active}, nil)
	f.jobs.On("SaveWithLock", ctx, f.job).Return(nil)

	resp, changes, err := f.service.Create(ctx, ownerID, CreateOutsourcingRequest{
		JobID:               f.job.ID,
		SupplierID:          f.supplier.ID,
		OutsourcingTermsDTO: OutsourcingTermsDTO{SupplierRate: decPtr("0.05")},
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "word", resp.Unit)
	require.NotNil(t, resp.SupplierTotal)
	assert.True(t, decimal.NewFromInt(100).Equal(*resp.SupplierTotal))
	assert.True(t, f.job.HasOutsourcing)
	assert.Equal(t, []uuid.UUID{f.job.ID}, changes.JobIDs)
	assert.Equal(t, []uuid.UUID{resp.ID}, changes.OutsourcingIDs)
}

func TestOutsourcingService_Create_TerminalJob(t *testing.T) {
	f := newOutsourcingFixture(t)
	ctx := context.Background()
	ownerID := testOwnerID()

	_, err := f.job.Transition(production.JobStatusCancelled)
	require.NoError(t, err)
	f.suppliers.On("FindByIDForOwner", ctx, ownerID, f.supplier.ID).Return(f.supplier, nil)
	f.jobs.On("FindByIDForOwner", ctx, ownerID, f.job.ID).Return(f.job, nil)

	_, _, err = f.service.Create(ctx, ownerID, CreateOutsourcingRequest{JobID: f.job.ID, SupplierID: f.supplier.ID})

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_STATE", de.Code)
	f.outsourcing.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOutsourcingService_SetStatus_DeliveredReturnsConfirmation(t *testing.T) {
	f := newOutsourcingFixture(t)
	ctx := context.Background()
	ownerID := testOwnerID()

	record := f.newRecord(t)
	f.outsourcing.On("FindByIDForOwner", ctx, ownerID, record.ID).Return(record, nil)
	f.jobs.On("FindByIDForOwner", ctx, ownerID, f.job.ID).Return(f.job, nil)
	f.suppliers.On("FindByIDForOwner", ctx, ownerID, f.supplier.ID).Return(f.supplier, nil)

	result, changes, err := f.service.SetStatus(ctx, ownerID, record.ID, SetOutsourcingStatusRequest{Status: "delivered", MarkPaid: true})

	require.NoError(t, err)
	assert.False(t, result.Applied)
	require.NotNil(t, result.Confirmation)
	assert.Equal(t, record.ID, result.Confirmation.RecordID)
	assert.Equal(t, record.Version, result.Confirmation.RecordVersion)
	assert.Equal(t, "Lingua Partners", result.Confirmation.SupplierName)
	assert.True(t, result.Confirmation.Amount.Equals(valueobject.MustNewMoney(decimal.NewFromInt(100), valueobject.EUR)))
	assert.True(t, result.Confirmation.MarkPaid)
	assert.True(t, changes.IsEmpty())
	assert.Equal(t, production.OutsourcingPending, record.Status)
	f.outsourcing.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestOutsourcingService_SetStatus_CancelRecomputesFlag(t *testing.T) {
	f := newOutsourcingFixture(t)
	ctx := context.Background()
	ownerID := testOwnerID()

	f.job.HasOutsourcing = true
	record := f.newRecord(t)
	f.outsourcing.On("FindByIDForOwner", ctx, ownerID, record.ID).Return(record, nil)
	f.outsourcing.On("SaveWithLock", ctx, record).Return(nil)
	f.jobs.On("FindByIDForOwner", ctx, ownerID, f.job.ID).Return(f.job, nil)
	f.outsourcing.On("FindByJob", ctx, ownerID, f.job.ID).Return(func() []production.OutsourcingRecord {
		cancelled := *record
		cancelled.Status = production.OutsourcingCancelled
		return []production.OutsourcingRecord{cancelled}
	}(), nil)
	f.jobs.On("SaveWithLock", ctx, f.job).Return(nil)

	result, changes, err := f.service.SetStatus(ctx, ownerID, record.ID, SetOutsourcingStatusRequest{Status: "cancelled"})

	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, "cancelled", result.Record.Status)
	assert.False(t, f.job.HasOutsourcing)
	assert.Equal(t, []uuid.UUID{f.job.ID}, changes.JobIDs)
	assert.Equal(t, []uuid.UUID{record.ID}, changes.OutsourcingIDs)
}

func TestOutsourcingService_SetStatus_Backwards(t *testing.T) {
	f := newOutsourcingFixture(t)
	ctx := context.Background()
	ownerID := testOwnerID()

	record := f.newRecord(t)
	record.Status = production.OutsourcingInProgress
	f.outsourcing.On("FindByIDForOwner", ctx, ownerID, record.ID).Return(record, nil)

	_, _, err := f.service.SetStatus(ctx, ownerID, record.ID, SetOutsourcingStatusRequest{Status: "assigned"})

	assert.ErrorIs(t, err, shared.ErrIllegalTransition)
}

func TestOutsourcingService_ConfirmDelivery(t *testing.T) {
	f := newOutsourcingFixture(t)
	ctx := context.Background()
	ownerID := testOwnerID()

	record := f.newRecord(t)
	token := production.PendingExpenseConfirmation{RecordID: record.ID, RecordVersion: record.Version}
	f.outsourcing.On("FindByIDForOwner", ctx, ownerID, record.ID).Return(record, nil)
	f.jobs.On("FindByIDForOwner", ctx, ownerID, f.job.ID).Return(f.job, nil)
	f.suppliers.On("FindByIDForOwner", ctx, ownerID, f.supplier.ID).Return(f.supplier, nil)
	f.outsourcing.On("SaveWithLock", ctx, record).Return(nil)
	f.expenses.On("Save", ctx, mock.MatchedBy(func(e *finance.ExpenseRecord) bool {
		return e.Source == finance.ExpenseSourceOutsourcingDelivery &&
			e.Category == finance.ExpenseCategoryOutsourcing &&
			e.Currency == valueobject.EUR &&
			e.Amount.Equal(decimal.NewFromInt(100)) &&
			e.Paid &&
			e.OutsourcingID != nil && *e.OutsourcingID == record.ID &&
			e.SupplierName == "Lingua Partners"
	})).Return(nil)

	result, changes, err := f.service.ConfirmDelivery(ctx, ownerID, token, true)

	require.NoError(t, err)
	assert.Equal(t, "delivered", result.Record.Status)
	assert.True(t, result.Record.Paid)
	require.NotNil(t, result.Record.ExpenseID)
	assert.Equal(t, result.ExpenseID, *result.Record.ExpenseID)
	assert.Equal(t, []uuid.UUID{record.ID}, changes.OutsourcingIDs)
	assert.Equal(t, []uuid.UUID{result.ExpenseID}, changes.ExpenseIDs)
	f.expenses.AssertExpectations(t)
}

func TestOutsourcingService_ConfirmDelivery_StaleToken(t *testing.T) {
	f := newOutsourcingFixture(t)
	ctx := context.Background()
	ownerID := testOwnerID()

	record := f.newRecord(t)
	token := production.PendingExpenseConfirmation{RecordID: record.ID, RecordVersion: record.Version}
	record.Version++
	f.outsourcing.On("FindByIDForOwner", ctx, ownerID, record.ID).Return(record, nil)

	_, changes, err := f.service.ConfirmDelivery(ctx, ownerID, token, false)

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.True(t, changes.IsEmpty())
	f.expenses.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOutsourcingService_ConfirmDelivery_ExpenseFailure(t *testing.T) {
	f := newOutsourcingFixture(t)
	ctx := context.Background()
	ownerID := testOwnerID()

	record := f.newRecord(t)
	token := production.PendingExpenseConfirmation{RecordID: record.ID, RecordVersion: record.Version}
	f.outsourcing.On("FindByIDForOwner", ctx, ownerID, record.ID).Return(record, nil)
	f.jobs.On("FindByIDForOwner", ctx, ownerID, f.job.ID).Return(f.job, nil)
	f.suppliers.On("FindByIDForOwner", ctx, ownerID, f.supplier.ID).Return(f.supplier, nil)
	f.outsourcing.On("SaveWithLock", ctx, record).Return(nil)
	f.expenses.On("Save", ctx, mock.Anything).Return(errors.New("disk full"))

	_, changes, err := f.service.ConfirmDelivery(ctx, ownerID, token, false)

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "EXPENSE_CREATION_FAILED", de.Code)
	assert.Equal(t, shared.KindAtomicity, de.Kind)
	assert.True(t, changes.IsEmpty())
}

func TestOutsourcingService_ConfirmDelivery_NeedsTotal(t *testing.T) {
	f := newOutsourcingFixture(t)
	ctx := context.Background()
	ownerID := testOwnerID()

	record, err := production.NewOutsourcingRecord(f.job, f.supplier, production.OutsourcingTerms{})
	require.NoError(t, err)
	require.Nil(t, record.SupplierTotal)
	token := production.PendingExpenseConfirmation{RecordID: record.ID, RecordVersion: record.Version}
	f.outsourcing.On("FindByIDForOwner", ctx, ownerID, record.ID).Return(record, nil)
	f.jobs.On("FindByIDForOwner", ctx, ownerID, f.job.ID).Return(f.job, nil)
	f.suppliers.On("FindByIDForOwner", ctx, ownerID, f.supplier.ID).Return(f.supplier, nil)

	_, _, err = f.service.ConfirmDelivery(ctx, ownerID, token, false)

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "supplier_total", de.Field)
}

func TestOutsourcingService_Delete_RecomputesFlag(t *testing.T) {
	f := newOutsourcingFixture(t)
	ctx := context.Background()
	ownerID := testOwnerID()

	f.job.HasOutsourcing = true
	record := f.newRecord(t)
	f.outsourcing.On("FindByIDForOwner", ctx, ownerID, record.ID).Return(record, nil)
	f.outsourcing.On("DeleteForOwner", ctx, ownerID, record.ID).Return(nil)
	f.jobs.On("FindByIDForOwner", ctx, ownerID, f.job.ID).Return(f.job, nil)
	f.outsourcing.On("FindByJob", ctx, ownerID, f.job.ID).Return([]production.OutsourcingRecord{}, nil)
	f.jobs.On("SaveWithLock", ctx, f.job).Return(nil)

	changes, err := f.service.Delete(ctx, ownerID, record.ID)

	require.NoError(t, err)
	assert.False(t, f.job.HasOutsourcing)
	assert.Equal(t, []uuid.UUID{f.job.ID}, changes.JobIDs)
	f.expenses.AssertNotCalled(t, "DeleteForOwner", mock.Anything, mock.Anything, mock.Anything)
}
