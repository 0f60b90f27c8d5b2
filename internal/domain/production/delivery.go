package production

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
)

// PendingExpenseConfirmation is returned instead of writing a delivered
// status. It describes the payable that confirming the delivery will book.
type PendingExpenseConfirmation struct {
	RecordID      uuid.UUID         `json:"record_id"`
	RecordVersion int               `json:"record_version"`
	JobID         uuid.UUID         `json:"job_id"`
	SupplierID    uuid.UUID         `json:"supplier_id"`
	SupplierName  string            `json:"supplier_name"`
	Amount        valueobject.Money `json:"amount"`
	Description   string            `json:"description"`
	MarkPaid      bool              `json:"mark_paid"`
	IssuedAt      time.Time         `json:"issued_at"`
}

// PrepareDelivery checks that the record may be delivered and builds the
// confirmation token. It does not modify the record.
func (r *OutsourcingRecord) PrepareDelivery(job *Job, supplierName string, markPaid bool) (*PendingExpenseConfirmation, error) {
	if err := r.checkDeliverable(); err != nil {
		return nil, err
	}

	return &PendingExpenseConfirmation{
		RecordID:      r.ID,
		RecordVersion: r.Version,
		JobID:         r.JobID,
		SupplierID:    r.SupplierID,
		SupplierName:  supplierName,
		Amount:        r.Total(),
		Description:   deliveryDescription(r, job),
		MarkPaid:      markPaid,
		IssuedAt:      time.Now(),
	}, nil
}

// MarkDelivered writes the delivered status and links the booked expense.
// Callers must persist it together with the expense.
func (r *OutsourcingRecord) MarkDelivered(paid bool, expenseID uuid.UUID) error {
	if err := r.checkDeliverable(); err != nil {
		return err
	}
	r.Status = OutsourcingDelivered
	r.Paid = paid
	r.ExpenseID = &expenseID
	r.Touch()
	return nil
}

// MatchesToken reports whether the record is unchanged since token was issued
func (r *OutsourcingRecord) MatchesToken(token *PendingExpenseConfirmation) bool {
	return token != nil && token.RecordID == r.ID && token.RecordVersion == r.Version
}

func (r *OutsourcingRecord) checkDeliverable() error {
	if r.Status == OutsourcingDelivered {
		return shared.NewDomainError(shared.ErrIllegalTransition.Code, "Outsourcing is already delivered")
	}
	if r.Status.IsTerminal() {
		return shared.NewDomainError(shared.ErrIllegalTransition.Code,
			fmt.Sprintf("Cannot deliver outsourcing in status %s", r.Status))
	}
	if r.SupplierTotal == nil {
		return shared.NewValidationError("supplier_total", "Supplier total is required before delivery")
	}
	return nil
}

func deliveryDescription(r *OutsourcingRecord, job *Job) string {
	parts := make([]string, 0, 3)
	if r.ServiceType != "" {
		parts = append(parts, r.ServiceType)
	}
	if job != nil {
		parts = append(parts, job.Label())
	}
	if r.Quantity != nil && r.Unit != "" {
		parts = append(parts, fmt.Sprintf("%s %s", r.Quantity.String(), r.Unit))
	}
	if len(parts) == 0 {
		return "Outsourcing delivery"
	}
	return strings.Join(parts, " / ")
}
