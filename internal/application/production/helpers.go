package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/application/transaction"
	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
)

func parseCurrency(field, raw string) (valueobject.Currency, error) {
	c, err := valueobject.ParseCurrency(raw)
	if err != nil {
		return "", shared.NewValidationError(field, err.Error())
	}
	return c, nil
}

func (t OutsourcingTermsDTO) toDomain() (production.OutsourcingTerms, error) {
	terms := production.OutsourcingTerms{
		ServiceType:   t.ServiceType,
		Quantity:      t.Quantity,
		Unit:          t.Unit,
		SupplierRate:  t.SupplierRate,
		SupplierTotal: t.SupplierTotal,
		StartDate:     t.StartDate,
		DueDate:       t.DueDate,
		Notes:         t.Notes,
	}
	if t.Currency != nil {
		c, err := parseCurrency("supplier_currency", *t.Currency)
		if err != nil {
			return terms, err
		}
		terms.Currency = &c
	}
	return terms, nil
}

// syncOutsourcingFlag recomputes has_outsourcing for jobID from its stored
// records and persists the job when the flag moved. It reports whether the job
// was written.
func syncOutsourcingFlag(ctx context.Context, repos transaction.Repositories, ownerID, jobID uuid.UUID) (bool, error) {
	job, err := repos.Jobs().FindByIDForOwner(ctx, ownerID, jobID)
	if err != nil {
		return false, err
	}
	records, err := repos.Outsourcing().FindByJob(ctx, ownerID, jobID)
	if err != nil {
		return false, err
	}
	if !job.RecomputeOutsourcing(records) {
		return false, nil
	}
	if err := repos.Jobs().SaveWithLock(ctx, job); err != nil {
		return false, err
	}
	return true, nil
}

// cancelJobOutsourcing soft-cancels every non-terminal record of job and
// recomputes its flag in memory. It returns the IDs of cancelled records.
func cancelJobOutsourcing(ctx context.Context, repos transaction.Repositories, job *production.Job) ([]uuid.UUID, error) {
	records, err := repos.Outsourcing().FindByJob(ctx, job.OwnerID, job.ID)
	if err != nil {
		return nil, err
	}
	cancelled := make([]uuid.UUID, 0, len(records))
	for i := range records {
		if !records[i].Cancel() {
			continue
		}
		if err := repos.Outsourcing().SaveWithLock(ctx, &records[i]); err != nil {
			return nil, err
		}
		cancelled = append(cancelled, records[i].ID)
	}
	job.RecomputeOutsourcing(records)
	return cancelled, nil
}
