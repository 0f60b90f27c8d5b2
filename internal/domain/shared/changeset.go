package shared

import (
	"github.com/google/uuid"
)

// ChangeSet names every entity an operation wrote, so callers can refresh
// exactly those records.
type ChangeSet struct {
	JobIDs         []uuid.UUID `json:"job_ids,omitempty"`
	InvoiceIDs     []uuid.UUID `json:"invoice_ids,omitempty"`
	QuoteIDs       []uuid.UUID `json:"quote_ids,omitempty"`
	OutsourcingIDs []uuid.UUID `json:"outsourcing_ids,omitempty"`
	ExpenseIDs     []uuid.UUID `json:"expense_ids,omitempty"`
	ClientIDs      []uuid.UUID `json:"client_ids,omitempty"`
	SupplierIDs    []uuid.UUID `json:"supplier_ids,omitempty"`
}

// TouchJob records a job write
func (c *ChangeSet) TouchJob(ids ...uuid.UUID) {
	c.JobIDs = appendUnique(c.JobIDs, ids...)
}

// TouchInvoice records an invoice write
func (c *ChangeSet) TouchInvoice(ids ...uuid.UUID) {
	c.InvoiceIDs = appendUnique(c.InvoiceIDs, ids...)
}

// TouchQuote records a quote write
func (c *ChangeSet) TouchQuote(ids ...uuid.UUID) {
	c.QuoteIDs = appendUnique(c.QuoteIDs, ids...)
}

// TouchOutsourcing records an outsourcing write
func (c *ChangeSet) TouchOutsourcing(ids ...uuid.UUID) {
	c.OutsourcingIDs = appendUnique(c.OutsourcingIDs, ids...)
}

// TouchExpense records an expense write
func (c *ChangeSet) TouchExpense(ids ...uuid.UUID) {
	c.ExpenseIDs = appendUnique(c.ExpenseIDs, ids...)
}

// TouchClient records a client write
func (c *ChangeSet) TouchClient(ids ...uuid.UUID) {
	c.ClientIDs = appendUnique(c.ClientIDs, ids...)
}

// TouchSupplier records a supplier write
func (c *ChangeSet) TouchSupplier(ids ...uuid.UUID) {
	c.SupplierIDs = appendUnique(c.SupplierIDs, ids...)
}

// Merge folds other into c
func (c *ChangeSet) Merge(other ChangeSet) {
	c.TouchJob(other.JobIDs...)
	c.TouchInvoice(other.InvoiceIDs...)
	c.TouchQuote(other.QuoteIDs...)
	c.TouchOutsourcing(other.OutsourcingIDs...)
	c.TouchExpense(other.ExpenseIDs...)
	c.TouchClient(other.ClientIDs...)
	c.TouchSupplier(other.SupplierIDs...)
}

// IsEmpty reports whether nothing was written
func (c ChangeSet) IsEmpty() bool {
	return len(c.JobIDs)+len(c.InvoiceIDs)+len(c.QuoteIDs)+len(c.OutsourcingIDs)+
		len(c.ExpenseIDs)+len(c.ClientIDs)+len(c.SupplierIDs) == 0
}

func appendUnique(dst []uuid.UUID, ids ...uuid.UUID) []uuid.UUID {
	for _, id := range ids {
		seen := false
		for _, existing := range dst {
			if existing == id {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, id)
		}
	}
	return dst
}
