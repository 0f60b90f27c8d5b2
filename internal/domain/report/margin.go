package report

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
)

// JobMargin is the profit margin of one job. Ratio is nil when the job total
// is zero; a zero job cannot have a margin.
type JobMargin struct {
	JobID uuid.UUID
	Total valueobject.Money
	// Cost sums non-cancelled outsourcing in the job currency
	Cost   valueobject.Money
	Profit valueobject.Money
	Ratio  *decimal.Decimal
	// ForeignCost holds outsourcing in other currencies, excluded from Ratio
	ForeignCost valueobject.CurrencyTotals
}

// Defined reports whether the margin ratio exists
func (m JobMargin) Defined() bool {
	return m.Ratio != nil
}

// ComputeJobMargin returns (total - cost) / total for job. Only records of
// this job count; cancelled records are ignored.
func ComputeJobMargin(job *production.Job, records []production.OutsourcingRecord) JobMargin {
	total := job.Total()
	costs := valueobject.NewCurrencyTotals()
	for i := range records {
		r := &records[i]
		if r.JobID != job.ID || !r.IsActive() || r.SupplierTotal == nil {
			continue
		}
		costs.Add(r.Total())
	}

	cost := costs.Get(job.Currency)
	delete(costs, job.Currency)

	m := JobMargin{
		JobID:       job.ID,
		Total:       total,
		Cost:        cost,
		Profit:      total.MustSubtract(cost),
		ForeignCost: costs,
	}
	if ratio, err := m.Profit.Ratio(total); err == nil {
		m.Ratio = &ratio
	}
	return m
}
