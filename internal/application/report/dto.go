package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/jobledger/backend/internal/domain/report"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
)

// TotalsResponse wraps one per-currency figure
type TotalsResponse struct {
	Totals valueobject.CurrencyTotals `json:"totals"`
	AsOf   time.Time                  `json:"as_of"`
}

// JobMarginResponse represents a job's margin. Ratio is null when undefined.
type JobMarginResponse struct {
	JobID       uuid.UUID                  `json:"job_id"`
	Total       valueobject.Money          `json:"total"`
	Cost        valueobject.Money          `json:"cost"`
	Profit      valueobject.Money          `json:"profit"`
	Ratio       *decimal.Decimal           `json:"ratio"`
	Defined     bool                       `json:"defined"`
	ForeignCost valueobject.CurrencyTotals `json:"foreign_cost"`
}

// ToJobMarginResponse converts a domain margin to a response
func ToJobMarginResponse(m domain.JobMargin) JobMarginResponse {
	return JobMarginResponse{
		JobID:       m.JobID,
		Total:       m.Total,
		Cost:        m.Cost,
		Profit:      m.Profit,
		Ratio:       m.Ratio,
		Defined:     m.Defined(),
		ForeignCost: m.ForeignCost,
	}
}

// DashboardResponse combines the headline figures for one owner
type DashboardResponse struct {
	OutstandingReceivables valueobject.CurrencyTotals `json:"outstanding_receivables"`
	Collected              valueobject.CurrencyTotals `json:"collected"`
	Payables               valueobject.CurrencyTotals `json:"payables"`
	Expenses               domain.ExpenseSummary      `json:"expenses"`
	PastDueInvoices        int                        `json:"past_due_invoices"`
	GeneratedAt            time.Time                  `json:"generated_at"`
	Cached                 bool                       `json:"cached"`
}
