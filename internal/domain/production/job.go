package production

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Job is a unit of billable work performed for a client.
// It owns its outsourcing records.
type Job struct {
	shared.OwnedAggregateRoot
	ClientID       uuid.UUID
	Title          string
	JobCode        string
	ServiceType    string
	PricingType    PricingType
	Quantity       *decimal.Decimal
	Rate           *decimal.Decimal
	Currency       valueobject.Currency
	TotalAmount    decimal.Decimal
	Status         JobStatus
	PriorStatus    *JobStatus // status to resume when leaving on_hold
	DueDate        *time.Time
	HasOutsourcing bool
	InvoiceID      *uuid.UUID
	Notes          string
}

// NewJob creates a job in status created with its total computed from pricing
func NewJob(ownerID, clientID uuid.UUID, jobCode, title, serviceType string, pricing Pricing) (*Job, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "Client is required")
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobCode) == "" {
		return nil, shared.NewValidationError("job_code", "Job code is required")
	}
	total, err := ComputeTotal(pricing)
	if err != nil {
		return nil, err
	}

	return &Job{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		ClientID:           clientID,
		Title:              strings.TrimSpace(title),
		JobCode:            jobCode,
		ServiceType:        strings.TrimSpace(serviceType),
		PricingType:        pricing.Type,
		Quantity:           pricing.Quantity,
		Rate:               pricing.Rate,
		Currency:           pricing.Currency,
		TotalAmount:        total.Amount(),
		Status:             JobStatusCreated,
	}, nil
}

// Total returns the billable total as Money
func (j *Job) Total() valueobject.Money {
	return valueobject.MustNewMoney(j.TotalAmount, j.Currency)
}

// Label is the human readable "<code> - <title>" form used on invoice lines
func (j *Job) Label() string {
	return fmt.Sprintf("%s - %s", j.JobCode, j.Title)
}

// IsInvoiceable reports whether the job can be consumed by an invoice
func (j *Job) IsInvoiceable() bool {
	return !j.Status.IsTerminal() && j.InvoiceID == nil
}

// UpdatePricing replaces the pricing inputs and recomputes the total
func (j *Job) UpdatePricing(pricing Pricing) error {
	if err := j.ensureEditable(); err != nil {
		return err
	}
	total, err := ComputeTotal(pricing)
	if err != nil {
		return err
	}
	j.PricingType = pricing.Type
	j.Quantity = pricing.Quantity
	j.Rate = pricing.Rate
	j.Currency = pricing.Currency
	j.TotalAmount = total.Amount()
	j.Touch()
	return nil
}

// JobDetails is the set of descriptive fields editable on a job
type JobDetails struct {
	ClientID    uuid.UUID
	Title       string
	ServiceType string
	DueDate     *time.Time
	Notes       string
}

// UpdateDetails replaces descriptive fields
func (j *Job) UpdateDetails(d JobDetails) error {
	if err := j.ensureEditable(); err != nil {
		return err
	}
	if err := validateTitle(d.Title); err != nil {
		return err
	}
	if d.ClientID != uuid.Nil {
		j.ClientID = d.ClientID
	}
	j.Title = strings.TrimSpace(d.Title)
	j.ServiceType = strings.TrimSpace(d.ServiceType)
	j.DueDate = d.DueDate
	j.Notes = d.Notes
	j.Touch()
	return nil
}

// Transition moves the job to target. It reports false when the job is
// already in target. Entering invoiced is reserved to MarkInvoiced and
// invoiced is terminal: any move out of it is an illegal transition, only
// UnlinkInvoice reopens the job.
func (j *Job) Transition(target JobStatus) (bool, error) {
	if !target.IsValid() {
		return false, shared.NewValidationError("status", "Invalid job status: "+string(target))
	}
	if j.Status == target {
		return false, nil
	}
	if err := j.checkTransition(target); err != nil {
		return false, err
	}

	switch {
	case target == JobStatusOnHold:
		prior := j.Status
		j.PriorStatus = &prior
	case j.Status == JobStatusOnHold:
		j.PriorStatus = nil
	}
	j.Status = target
	j.Touch()
	return true, nil
}

// CanTransition reports whether Transition(target) would succeed
func (j *Job) CanTransition(target JobStatus) bool {
	if j.Status == target {
		return true
	}
	return j.checkTransition(target) == nil
}

func (j *Job) checkTransition(target JobStatus) error {
	illegal := func() error {
		return shared.NewDomainError(shared.ErrIllegalTransition.Code,
			fmt.Sprintf("Cannot move job from %s to %s", j.Status, target))
	}

	if j.Status == JobStatusCancelled || j.Status == JobStatusInvoiced {
		return illegal()
	}
	switch target {
	case JobStatusInvoiced:
		return illegal()
	case JobStatusCancelled, JobStatusOnHold:
		return nil
	}
	if j.Status == JobStatusOnHold {
		if j.PriorStatus != nil && *j.PriorStatus == target {
			return nil
		}
		return illegal()
	}
	if !canMoveForward(j.Status, target) {
		return illegal()
	}
	return nil
}

// MarkInvoiced locks the job against the invoice that consumed it
func (j *Job) MarkInvoiced(invoiceID uuid.UUID) error {
	if !j.IsInvoiceable() {
		return shared.NewDomainError("JOB_NOT_INVOICEABLE",
			fmt.Sprintf("Job %s cannot be invoiced in status %s", j.JobCode, j.Status))
	}
	j.Status = JobStatusInvoiced
	j.PriorStatus = nil
	j.InvoiceID = &invoiceID
	j.Touch()
	return nil
}

// UnlinkInvoice reopens an invoiced job after its invoice was removed
func (j *Job) UnlinkInvoice(invoiceID uuid.UUID) error {
	if j.InvoiceID == nil || *j.InvoiceID != invoiceID {
		return shared.NewDomainError("INVOICE_NOT_LINKED", "Job is not linked to this invoice")
	}
	j.Status = JobStatusFinished
	j.InvoiceID = nil
	j.Touch()
	return nil
}

// RecomputeOutsourcing sets HasOutsourcing from the job's current records.
// It reports whether the flag changed.
func (j *Job) RecomputeOutsourcing(records []OutsourcingRecord) bool {
	has := false
	for i := range records {
		if records[i].JobID == j.ID && records[i].IsActive() {
			has = true
			break
		}
	}
	changed := has != j.HasOutsourcing
	j.HasOutsourcing = has
	if changed {
		j.Touch()
	}
	return changed
}

// EnsureDeletable refuses deletion of a job locked by an invoice
func (j *Job) EnsureDeletable() error {
	if j.Status == JobStatusInvoiced {
		return shared.ErrInvoicedJobLocked
	}
	return nil
}

func (j *Job) ensureEditable() error {
	if j.Status == JobStatusInvoiced {
		return shared.ErrInvoicedJobLocked
	}
	return nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewValidationError("title", "Title cannot be empty")
	}
	if len(title) > 300 {
		return shared.NewValidationError("title", "Title cannot exceed 300 characters")
	}
	return nil
}
