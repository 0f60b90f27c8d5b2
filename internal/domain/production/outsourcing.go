package production

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OutsourcingStatus represents the status of a subcontract
type OutsourcingStatus string

const (
	OutsourcingPending    OutsourcingStatus = "pending"
	OutsourcingAssigned   OutsourcingStatus = "assigned"
	OutsourcingInProgress OutsourcingStatus = "in_progress"
	OutsourcingDelivered  OutsourcingStatus = "delivered"
	OutsourcingCompleted  OutsourcingStatus = "completed"
	OutsourcingCancelled  OutsourcingStatus = "cancelled"
)

var outsourcingRank = map[OutsourcingStatus]int{
	OutsourcingPending:    0,
	OutsourcingAssigned:   1,
	OutsourcingInProgress: 2,
	OutsourcingDelivered:  3,
	OutsourcingCompleted:  4,
}

// IsValid checks if the status is valid
func (s OutsourcingStatus) IsValid() bool {
	_, ok := outsourcingRank[s]
	return ok || s == OutsourcingCancelled
}

// IsTerminal returns true for completed and cancelled
func (s OutsourcingStatus) IsTerminal() bool {
	return s == OutsourcingCompleted || s == OutsourcingCancelled
}

// OutsourcingTerms are the caller-supplied values of a subcontract.
// Nil fields fall back to job defaults or the supplier rate card.
type OutsourcingTerms struct {
	ServiceType   *string
	Quantity      *decimal.Decimal
	Unit          *string
	SupplierRate  *decimal.Decimal
	Currency      *valueobject.Currency
	SupplierTotal *decimal.Decimal // only used when no rate applies
	StartDate     *time.Time
	DueDate       *time.Time
	Notes         *string
}

// OutsourcingRecord is a subcontract of (part of) a job to a supplier
type OutsourcingRecord struct {
	shared.OwnedAggregateRoot
	JobID            uuid.UUID
	SupplierID       uuid.UUID
	ServiceType      string
	Quantity         *decimal.Decimal
	Unit             string
	SupplierRate     *decimal.Decimal
	SupplierCurrency valueobject.Currency
	SupplierTotal    *decimal.Decimal
	Status           OutsourcingStatus
	Paid             bool
	StartDate        *time.Time
	DueDate          *time.Time
	Notes            string
	ExpenseID        *uuid.UUID // expense booked at delivery, reference only
}

// NewOutsourcingRecord creates a pending subcontract for job.
// Service type, unit, quantity and due date default from the job; a matching
// rate card entry supplies rate, unit and currency unless the caller set a rate
// or asked for a currency other than the entry's.
func NewOutsourcingRecord(job *Job, supplier *partner.Supplier, terms OutsourcingTerms) (*OutsourcingRecord, error) {
	if job.Status.IsTerminal() {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code,
			fmt.Sprintf("Cannot outsource job %s in status %s", job.JobCode, job.Status))
	}
	if supplier == nil {
		return nil, shared.NewValidationError("supplier_id", "Supplier is required")
	}

	r := &OutsourcingRecord{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(job.OwnerID),
		JobID:              job.ID,
		SupplierID:         supplier.ID,
		ServiceType:        job.ServiceType,
		Quantity:           job.Quantity,
		Unit:               job.PricingType.DefaultUnit(),
		SupplierCurrency:   supplier.DefaultCurrency,
		Status:             OutsourcingPending,
		DueDate:            job.DueDate,
	}

	if terms.ServiceType != nil {
		r.ServiceType = strings.TrimSpace(*terms.ServiceType)
	}
	if terms.SupplierRate == nil {
		entry, ok := supplier.MatchRate(r.ServiceType)
		if ok && (terms.Currency == nil || *terms.Currency == entry.Currency) {
			r.SupplierRate = &entry.Rate
			if entry.Unit != "" {
				r.Unit = entry.Unit
			}
			r.SupplierCurrency = entry.Currency
		}
	}
	if err := r.applyTerms(terms); err != nil {
		return nil, err
	}
	return r, nil
}

// Update applies edited terms and recomputes the supplier total
func (r *OutsourcingRecord) Update(terms OutsourcingTerms) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			fmt.Sprintf("Cannot edit outsourcing in status %s", r.Status))
	}
	if terms.ServiceType != nil {
		r.ServiceType = strings.TrimSpace(*terms.ServiceType)
	}
	if err := r.applyTerms(terms); err != nil {
		return err
	}
	r.Touch()
	return nil
}

func (r *OutsourcingRecord) applyTerms(t OutsourcingTerms) error {
	if t.Quantity != nil {
		if !t.Quantity.IsPositive() {
			return shared.NewValidationError("quantity", "Quantity must be positive")
		}
		r.Quantity = t.Quantity
	}
	if t.Unit != nil {
		r.Unit = strings.TrimSpace(*t.Unit)
	}
	if t.SupplierRate != nil {
		if t.SupplierRate.IsNegative() {
			return shared.NewValidationError("supplier_rate", "Rate cannot be negative")
		}
		r.SupplierRate = t.SupplierRate
	}
	if t.Currency != nil {
		if !t.Currency.IsValid() {
			return shared.NewValidationError("supplier_currency", "Unsupported currency: "+t.Currency.String())
		}
		r.SupplierCurrency = *t.Currency
	}
	if t.StartDate != nil {
		r.StartDate = t.StartDate
	}
	if t.DueDate != nil {
		r.DueDate = t.DueDate
	}
	if t.Notes != nil {
		r.Notes = *t.Notes
	}
	if !r.SupplierCurrency.IsValid() {
		return shared.NewValidationError("supplier_currency", "Supplier currency is required")
	}

	switch {
	case r.SupplierRate != nil && r.Quantity != nil:
		total := r.SupplierRate.Mul(*r.Quantity)
		r.SupplierTotal = &total
	case t.SupplierTotal != nil:
		if t.SupplierTotal.IsNegative() {
			return shared.NewValidationError("supplier_total", "Total cannot be negative")
		}
		r.SupplierTotal = t.SupplierTotal
	}
	return nil
}

// IsActive reports whether the record counts toward has_outsourcing and payables
func (r *OutsourcingRecord) IsActive() bool {
	return r.Status != OutsourcingCancelled
}

// Total returns the supplier total as Money, zero when unpriced
func (r *OutsourcingRecord) Total() valueobject.Money {
	if r.SupplierTotal == nil {
		return valueobject.Zero(r.SupplierCurrency)
	}
	return valueobject.MustNewMoney(*r.SupplierTotal, r.SupplierCurrency)
}

// IsPayable reports whether the record is an outstanding supplier payable
func (r *OutsourcingRecord) IsPayable() bool {
	return r.IsActive() && !r.Paid && r.SupplierTotal != nil
}

// SetStatus applies a status change other than delivered, which must go
// through PrepareDelivery and confirmation.
func (r *OutsourcingRecord) SetStatus(target OutsourcingStatus) (bool, error) {
	if !target.IsValid() {
		return false, shared.NewValidationError("status", "Invalid outsourcing status: "+string(target))
	}
	if r.Status == target {
		return false, nil
	}
	if target == OutsourcingDelivered {
		return false, shared.NewDomainError("DELIVERY_REQUIRES_CONFIRMATION",
			"Delivery must be confirmed so the supplier expense can be booked")
	}
	if err := r.checkTransition(target); err != nil {
		return false, err
	}
	r.Status = target
	r.Touch()
	return true, nil
}

// Cancel soft-cancels a non-terminal record. It reports whether anything changed.
func (r *OutsourcingRecord) Cancel() bool {
	if r.Status.IsTerminal() {
		return false
	}
	r.Status = OutsourcingCancelled
	r.Touch()
	return true
}

// TogglePaid flips the paid flag independently of status
func (r *OutsourcingRecord) TogglePaid() {
	r.Paid = !r.Paid
	r.Touch()
}

func (r *OutsourcingRecord) checkTransition(target OutsourcingStatus) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError(shared.ErrIllegalTransition.Code,
			fmt.Sprintf("Cannot move outsourcing from %s to %s", r.Status, target))
	}
	if target == OutsourcingCancelled {
		return nil
	}
	if target == OutsourcingCompleted && r.Status != OutsourcingDelivered {
		return shared.NewDomainError(shared.ErrIllegalTransition.Code, "Outsourcing must be delivered before it is completed")
	}
	if outsourcingRank[target] <= outsourcingRank[r.Status] {
		return shared.NewDomainError(shared.ErrIllegalTransition.Code,
			fmt.Sprintf("Cannot move outsourcing from %s back to %s", r.Status, target))
	}
	return nil
}
