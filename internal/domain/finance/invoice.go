package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// IsValid checks if the status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// IsOutstanding reports whether the invoice still counts as a receivable
func (s InvoiceStatus) IsOutstanding() bool {
	return s != InvoiceStatusPaid
}

// Invoice is a receivable document consolidating one client's jobs in one currency
type Invoice struct {
	shared.OwnedAggregateRoot
	ClientID      uuid.UUID
	InvoiceNumber string
	Currency      valueobject.Currency
	Items         []LineItem
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
	Status        InvoiceStatus
	Date          time.Time
	DueDate       *time.Time
	PaidAt        *time.Time
	JobIDs        []uuid.UUID // back-links for display, not ownership
	Notes         string
}

// NewInvoice builds a draft invoice with totals computed from items
func NewInvoice(ownerID, clientID uuid.UUID, number string, currency valueobject.Currency,
	items []LineItem, date time.Time, dueDate *time.Time) (*Invoice, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "Client is required")
	}
	if number == "" {
		return nil, shared.NewValidationError("invoice_number", "Invoice number is required")
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError("currency", "Unsupported currency: "+currency.String())
	}

	totals := computeTotals(items, decimal.Zero)
	inv := &Invoice{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		ClientID:           clientID,
		InvoiceNumber:      number,
		Currency:           currency,
		Items:              items,
		Subtotal:           totals.Subtotal,
		TaxAmount:          totals.TaxAmount,
		Total:              totals.Total,
		Status:             InvoiceStatusDraft,
		Date:               dateOnly(date),
		DueDate:            dueDate,
		JobIDs:             make([]uuid.UUID, 0),
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Validate checks the item, subtotal and total invariants
func (i *Invoice) Validate() error {
	return validateTotals(i.Items, documentTotals{Subtotal: i.Subtotal, TaxAmount: i.TaxAmount, Total: i.Total})
}

// TotalMoney returns the invoice total as Money
func (i *Invoice) TotalMoney() valueobject.Money {
	return valueobject.MustNewMoney(i.Total, i.Currency)
}

// LinkJob records that job id was consumed by this invoice
func (i *Invoice) LinkJob(jobID uuid.UUID) {
	i.JobIDs = append(i.JobIDs, jobID)
}

// SetStatus changes the invoice status. Any status may follow any other;
// reaching paid stamps PaidAt.
func (i *Invoice) SetStatus(status InvoiceStatus) (bool, error) {
	if !status.IsValid() {
		return false, shared.NewValidationError("status", fmt.Sprintf("Invalid invoice status: %s", status))
	}
	if i.Status == status {
		return false, nil
	}
	i.Status = status
	if status == InvoiceStatusPaid {
		now := time.Now()
		i.PaidAt = &now
	} else {
		i.PaidAt = nil
	}
	i.Touch()
	return true, nil
}

// IsPastDue reports whether an unpaid invoice's due date lies before today
func (i *Invoice) IsPastDue(today time.Time) bool {
	return Classify(i.Status == InvoiceStatusPaid, i.DueDate, today) == PaymentClassOverdue
}
