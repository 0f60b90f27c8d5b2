package production

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJob(t *testing.T) *Job {
	t.Helper()
	job, err := NewJob(uuid.New(), uuid.New(), "JOB-202601-00001", "Manual translation", "Translation", Pricing{
		Type:     PricingPerWord,
		Quantity: dec("2000"),
		Rate:     dec("0.25"),
		Currency: valueobject.USD,
	})
	require.NoError(t, err)
	return job
}

func TestNewJob(t *testing.T) {
	job := newTestJob(t)
	assert.Equal(t, JobStatusCreated, job.Status)
	assert.True(t, job.TotalAmount.Equal(decimal.NewFromInt(500)))
	assert.False(t, job.HasOutsourcing)
	assert.Nil(t, job.InvoiceID)
	assert.Equal(t, "JOB-202601-00001 - Manual translation", job.Label())

	_, err := NewJob(uuid.New(), uuid.Nil, "JOB-1", "x", "", Pricing{Type: PricingFlatFee, FlatAmount: dec("1"), Currency: valueobject.USD})
	assert.Error(t, err)
}

func TestJob_Transition_Lifecycle(t *testing.T) {
	job := newTestJob(t)

	_, err := job.Transition(JobStatusFinished)
	assert.True(t, errors.Is(err, shared.ErrIllegalTransition), "created jobs must start work before finishing")
	assert.Equal(t, JobStatusCreated, job.Status)

	changed, err := job.Transition(JobStatusInProgress)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = job.Transition(JobStatusInProgress)
	require.NoError(t, err)
	assert.False(t, changed, "same status is a no-op")

	_, err = job.Transition(JobStatusFinished)
	require.NoError(t, err)

	_, err = job.Transition(JobStatusInProgress)
	assert.True(t, errors.Is(err, shared.ErrIllegalTransition))
}

func TestJob_Transition_OnHoldReturnsToPrior(t *testing.T) {
	job := newTestJob(t)
	_, err := job.Transition(JobStatusInProgress)
	require.NoError(t, err)

	_, err = job.Transition(JobStatusOnHold)
	require.NoError(t, err)
	require.NotNil(t, job.PriorStatus)
	assert.Equal(t, JobStatusInProgress, *job.PriorStatus)

	_, err = job.Transition(JobStatusFinished)
	assert.True(t, errors.Is(err, shared.ErrIllegalTransition), "on_hold only resumes to the prior status")

	_, err = job.Transition(JobStatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, job.PriorStatus)
}

func TestJob_Transition_Cancelled(t *testing.T) {
	job := newTestJob(t)
	_, err := job.Transition(JobStatusOnHold)
	require.NoError(t, err)
	_, err = job.Transition(JobStatusCancelled)
	require.NoError(t, err)

	for _, target := range []JobStatus{JobStatusCreated, JobStatusInProgress, JobStatusFinished, JobStatusOnHold} {
		_, err := job.Transition(target)
		assert.True(t, errors.Is(err, shared.ErrIllegalTransition), "cancelled -> %s", target)
	}
}

func TestJob_Transition_InvoicedIsReserved(t *testing.T) {
	job := newTestJob(t)
	_, err := job.Transition(JobStatusInvoiced)
	assert.True(t, errors.Is(err, shared.ErrIllegalTransition))

	require.NoError(t, job.MarkInvoiced(uuid.New()))
	for _, target := range []JobStatus{JobStatusFinished, JobStatusOnHold, JobStatusCancelled} {
		_, err = job.Transition(target)
		assert.True(t, errors.Is(err, shared.ErrIllegalTransition), "invoiced -> %s", target)
		assert.False(t, job.CanTransition(target))
	}
	assert.Equal(t, JobStatusInvoiced, job.Status)
}

func TestJob_InvoicedLocksFinancialFields(t *testing.T) {
	job := newTestJob(t)
	invoiceID := uuid.New()
	require.NoError(t, job.MarkInvoiced(invoiceID))
	assert.Equal(t, JobStatusInvoiced, job.Status)
	assert.Equal(t, invoiceID, *job.InvoiceID)

	err := job.UpdatePricing(Pricing{Type: PricingFlatFee, FlatAmount: dec("1"), Currency: valueobject.USD})
	assert.True(t, errors.Is(err, shared.ErrInvoicedJobLocked))
	assert.True(t, job.TotalAmount.Equal(decimal.NewFromInt(500)))

	err = job.UpdateDetails(JobDetails{Title: "Renamed"})
	assert.True(t, errors.Is(err, shared.ErrInvoicedJobLocked))

	assert.True(t, errors.Is(job.EnsureDeletable(), shared.ErrInvoicedJobLocked))
	assert.Error(t, job.MarkInvoiced(uuid.New()), "cannot be invoiced twice")

	assert.Error(t, job.UnlinkInvoice(uuid.New()))
	require.NoError(t, job.UnlinkInvoice(invoiceID))
	assert.Equal(t, JobStatusFinished, job.Status)
	assert.Nil(t, job.InvoiceID)
}

func TestJob_UpdatePricing(t *testing.T) {
	job := newTestJob(t)
	require.NoError(t, job.UpdatePricing(Pricing{
		Type:     PricingPerHour,
		Quantity: dec("12.5"),
		Rate:     dec("40"),
		Currency: valueobject.CAD,
	}))
	assert.True(t, job.Total().Equals(valueobject.MustNewMoney(decimal.NewFromInt(500), valueobject.CAD)))
}

func TestJob_RecomputeOutsourcing(t *testing.T) {
	job := newTestJob(t)
	active := OutsourcingRecord{JobID: job.ID, Status: OutsourcingPending}
	cancelled := OutsourcingRecord{JobID: job.ID, Status: OutsourcingCancelled}
	other := OutsourcingRecord{JobID: uuid.New(), Status: OutsourcingPending}

	assert.True(t, job.RecomputeOutsourcing([]OutsourcingRecord{cancelled, active}))
	assert.True(t, job.HasOutsourcing)

	assert.True(t, job.RecomputeOutsourcing([]OutsourcingRecord{cancelled, other}))
	assert.False(t, job.HasOutsourcing)

	assert.False(t, job.RecomputeOutsourcing(nil))
}
