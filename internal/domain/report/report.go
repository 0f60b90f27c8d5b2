// Package report derives read-only financial figures from invoices, expenses
// and outsourcing records. Every figure is kept per currency; amounts in
// different currencies are never combined or converted.
package report

import (
	"time"

	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
)

// OutstandingReceivables sums the totals of every invoice not yet paid
func OutstandingReceivables(invoices []finance.Invoice) valueobject.CurrencyTotals {
	return sumInvoices(invoices, func(s finance.InvoiceStatus) bool { return s.IsOutstanding() })
}

// Collected sums the totals of paid invoices
func Collected(invoices []finance.Invoice) valueobject.CurrencyTotals {
	return sumInvoices(invoices, func(s finance.InvoiceStatus) bool { return s == finance.InvoiceStatusPaid })
}

func sumInvoices(invoices []finance.Invoice, include func(finance.InvoiceStatus) bool) valueobject.CurrencyTotals {
	selected := make([]finance.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if include(inv.Status) {
			selected = append(selected, inv)
		}
	}
	return valueobject.AggregateMoney(selected, func(inv finance.Invoice) valueobject.Money { return inv.TotalMoney() })
}

// Payables sums the supplier totals of unpaid, non-cancelled outsourcing records.
// Records without a supplier total contribute nothing.
func Payables(records []production.OutsourcingRecord) valueobject.CurrencyTotals {
	selected := make([]production.OutsourcingRecord, 0, len(records))
	for i := range records {
		if records[i].IsPayable() {
			selected = append(selected, records[i])
		}
	}
	return valueobject.AggregateMoney(selected, func(r production.OutsourcingRecord) valueobject.Money { return r.Total() })
}

// ExpenseSummary holds per-currency expense totals for each payment class
type ExpenseSummary struct {
	Paid    valueobject.CurrencyTotals `json:"paid"`
	Unpaid  valueobject.CurrencyTotals `json:"unpaid"`
	Overdue valueobject.CurrencyTotals `json:"overdue"`
}

// SummarizeExpenses classifies every expense as of today and folds it into its class
func SummarizeExpenses(expenses []finance.ExpenseRecord, today time.Time) ExpenseSummary {
	summary := ExpenseSummary{
		Paid:    valueobject.NewCurrencyTotals(),
		Unpaid:  valueobject.NewCurrencyTotals(),
		Overdue: valueobject.NewCurrencyTotals(),
	}
	for i := range expenses {
		e := &expenses[i]
		switch e.Classify(today) {
		case finance.PaymentClassPaid:
			summary.Paid.Add(e.Money())
		case finance.PaymentClassOverdue:
			summary.Overdue.Add(e.Money())
		default:
			summary.Unpaid.Add(e.Money())
		}
	}
	return summary
}

// CountPastDue counts unpaid invoices whose due date lies before today
func CountPastDue(invoices []finance.Invoice, today time.Time) int {
	n := 0
	for i := range invoices {
		if invoices[i].IsPastDue(today) {
			n++
		}
	}
	return n
}
