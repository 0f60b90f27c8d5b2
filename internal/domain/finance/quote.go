package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// IsValid checks if the status is valid
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// IsTerminal returns true once the client has decided
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusAccepted || s == QuoteStatusRejected
}

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft: {QuoteStatusSent, QuoteStatusRejected},
	QuoteStatusSent:  {QuoteStatusAccepted, QuoteStatusRejected},
}

// Quote is a priced offer to a client. It shares the invoice arithmetic.
type Quote struct {
	shared.OwnedAggregateRoot
	ClientID    uuid.UUID
	QuoteNumber string
	Currency    valueobject.Currency
	Items       []LineItem
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
	Status      QuoteStatus
	Date        time.Time
	ValidUntil  *time.Time
	Notes       string
}

// NewQuote builds a draft quote
func NewQuote(ownerID, clientID uuid.UUID, number string, currency valueobject.Currency,
	items []LineItem, tax decimal.Decimal, date time.Time, validUntil *time.Time) (*Quote, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "Client is required")
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError("currency", "Unsupported currency: "+currency.String())
	}
	if tax.IsNegative() {
		return nil, shared.NewValidationError("tax_amount", "Tax amount cannot be negative")
	}

	q := &Quote{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		ClientID:           clientID,
		QuoteNumber:        number,
		Currency:           currency,
		Status:             QuoteStatusDraft,
		Date:               dateOnly(date),
		ValidUntil:         validUntil,
	}
	q.setItems(items, tax)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// ReplaceItems swaps the quote lines; only drafts are editable
func (q *Quote) ReplaceItems(items []LineItem, tax decimal.Decimal) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only draft quotes can be edited")
	}
	if tax.IsNegative() {
		return shared.NewValidationError("tax_amount", "Tax amount cannot be negative")
	}
	q.setItems(items, tax)
	if err := q.Validate(); err != nil {
		return err
	}
	q.Touch()
	return nil
}

func (q *Quote) setItems(items []LineItem, tax decimal.Decimal) {
	totals := computeTotals(items, tax)
	q.Items = items
	q.Subtotal = totals.Subtotal
	q.TaxAmount = totals.TaxAmount
	q.Total = totals.Total
}

// Validate checks the item, subtotal and total invariants
func (q *Quote) Validate() error {
	return validateTotals(q.Items, documentTotals{Subtotal: q.Subtotal, TaxAmount: q.TaxAmount, Total: q.Total})
}

// TotalMoney returns the quote total as Money
func (q *Quote) TotalMoney() valueobject.Money {
	return valueobject.MustNewMoney(q.Total, q.Currency)
}

// SetStatus moves the quote along draft → sent → accepted|rejected
func (q *Quote) SetStatus(status QuoteStatus) (bool, error) {
	if !status.IsValid() {
		return false, shared.NewValidationError("status", fmt.Sprintf("Invalid quote status: %s", status))
	}
	if q.Status == status {
		return false, nil
	}
	for _, next := range quoteTransitions[q.Status] {
		if next == status {
			q.Status = status
			q.Touch()
			return true, nil
		}
	}
	return false, shared.NewDomainError(shared.ErrIllegalTransition.Code,
		fmt.Sprintf("Cannot move quote from %s to %s", q.Status, status))
}
