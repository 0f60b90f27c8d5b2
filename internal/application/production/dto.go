package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Job DTOs
// =============================================================================

// CreateJobRequest represents a request to create a job. Currency falls back
// to the client's default currency when omitted.
type CreateJobRequest struct {
	ClientID    uuid.UUID        `json:"client_id" binding:"required"`
	Title       string           `json:"title" binding:"required,min=1,max=300"`
	ServiceType string           `json:"service_type" binding:"max=100"`
	PricingType string           `json:"pricing_type" binding:"required,oneof=per_word per_hour flat_fee"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Rate        *decimal.Decimal `json:"rate"`
	FlatAmount  *decimal.Decimal `json:"flat_amount"`
	Currency    string           `json:"currency" binding:"omitempty,len=3"`
	DueDate     *time.Time       `json:"due_date"`
	Notes       string           `json:"notes"`
}

// UpdateJobRequest represents a partial job update. Any pricing field causes
// the total to be recomputed.
type UpdateJobRequest struct {
	ClientID    *uuid.UUID       `json:"client_id"`
	Title       *string          `json:"title" binding:"omitempty,min=1,max=300"`
	ServiceType *string          `json:"service_type" binding:"omitempty,max=100"`
	PricingType *string          `json:"pricing_type" binding:"omitempty,oneof=per_word per_hour flat_fee"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Rate        *decimal.Decimal `json:"rate"`
	FlatAmount  *decimal.Decimal `json:"flat_amount"`
	Currency    *string          `json:"currency" binding:"omitempty,len=3"`
	DueDate     *time.Time       `json:"due_date"`
	Notes       *string          `json:"notes"`
}

func (r UpdateJobRequest) touchesPricing() bool {
	return r.PricingType != nil || r.Quantity != nil || r.Rate != nil || r.FlatAmount != nil || r.Currency != nil
}

func (r UpdateJobRequest) touchesDetails() bool {
	return r.ClientID != nil || r.Title != nil || r.ServiceType != nil || r.DueDate != nil || r.Notes != nil
}

// TransitionJobRequest moves a job to a new status
type TransitionJobRequest struct {
	Status string `json:"status" binding:"required"`
}

// BulkJobStatusRequest applies one status to many jobs
type BulkJobStatusRequest struct {
	IDs    []uuid.UUID `json:"ids" binding:"required,min=1"`
	Status string      `json:"status" binding:"required"`
}

// BulkIDsRequest names the targets of a bulk operation
type BulkIDsRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// JobListFilter is the query filter for listing jobs
type JobListFilter struct {
	Search      string     `form:"search"`
	ClientID    *uuid.UUID `form:"client_id"`
	Status      string     `form:"status"`
	Currency    string     `form:"currency"`
	Uninvoiced  bool       `form:"uninvoiced"`
	DueDateFrom *time.Time `form:"due_from" time_format:"2006-01-02"`
	DueDateTo   *time.Time `form:"due_to" time_format:"2006-01-02"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// JobResponse represents a job in API responses
type JobResponse struct {
	ID             uuid.UUID         `json:"id"`
	ClientID       uuid.UUID         `json:"client_id"`
	JobCode        string            `json:"job_code"`
	Title          string            `json:"title"`
	ServiceType    string            `json:"service_type,omitempty"`
	PricingType    string            `json:"pricing_type"`
	Quantity       *decimal.Decimal  `json:"quantity,omitempty"`
	Rate           *decimal.Decimal  `json:"rate,omitempty"`
	Total          valueobject.Money `json:"total"`
	Status         string            `json:"status"`
	PriorStatus    *string           `json:"prior_status,omitempty"`
	DueDate        *time.Time        `json:"due_date,omitempty"`
	HasOutsourcing bool              `json:"has_outsourcing"`
	InvoiceID      *uuid.UUID        `json:"invoice_id,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Version        int               `json:"version"`
}

// ToJobResponse converts a domain job to a response
func ToJobResponse(j *production.Job) JobResponse {
	resp := JobResponse{
		ID:             j.ID,
		ClientID:       j.ClientID,
		JobCode:        j.JobCode,
		Title:          j.Title,
		ServiceType:    j.ServiceType,
		PricingType:    string(j.PricingType),
		Quantity:       j.Quantity,
		Rate:           j.Rate,
		Total:          j.Total(),
		Status:         j.Status.String(),
		DueDate:        j.DueDate,
		HasOutsourcing: j.HasOutsourcing,
		InvoiceID:      j.InvoiceID,
		Notes:          j.Notes,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
		Version:        j.Version,
	}
	if j.PriorStatus != nil {
		prior := j.PriorStatus.String()
		resp.PriorStatus = &prior
	}
	return resp
}

// =============================================================================
// Outsourcing DTOs
// =============================================================================

// OutsourcingTermsDTO carries the overridable subcontract terms
type OutsourcingTermsDTO struct {
	ServiceType   *string          `json:"service_type" binding:"omitempty,max=100"`
	Quantity      *decimal.Decimal `json:"quantity"`
	Unit          *string          `json:"unit" binding:"omitempty,max=50"`
	SupplierRate  *decimal.Decimal `json:"supplier_rate"`
	Currency      *string          `json:"supplier_currency" binding:"omitempty,len=3"`
	SupplierTotal *decimal.Decimal `json:"supplier_total"`
	StartDate     *time.Time       `json:"start_date"`
	DueDate       *time.Time       `json:"due_date"`
	Notes         *string          `json:"notes"`
}

// CreateOutsourcingRequest represents a request to outsource part of a job
type CreateOutsourcingRequest struct {
	JobID      uuid.UUID `json:"job_id" binding:"required"`
	SupplierID uuid.UUID `json:"supplier_id" binding:"required"`
	OutsourcingTermsDTO
}

// UpdateOutsourcingRequest represents an edit of subcontract terms
type UpdateOutsourcingRequest struct {
	OutsourcingTermsDTO
}

// SetOutsourcingStatusRequest moves an outsourcing record to a new status.
// MarkPaid is only meaningful for delivered.
type SetOutsourcingStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	MarkPaid bool   `json:"mark_paid"`
}

// ConfirmDeliveryRequest echoes the version from a delivery confirmation
type ConfirmDeliveryRequest struct {
	RecordVersion int  `json:"record_version" binding:"required,min=1"`
	MarkPaid      bool `json:"mark_paid"`
}

// OutsourcingListFilter is the query filter for listing outsourcing records
type OutsourcingListFilter struct {
	JobID      *uuid.UUID `form:"job_id"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Status     string     `form:"status"`
	Paid       *bool      `form:"paid"`
	ActiveOnly bool       `form:"active_only"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OutsourcingResponse represents an outsourcing record in API responses
type OutsourcingResponse struct {
	ID               uuid.UUID        `json:"id"`
	JobID            uuid.UUID        `json:"job_id"`
	SupplierID       uuid.UUID        `json:"supplier_id"`
	ServiceType      string           `json:"service_type,omitempty"`
	Quantity         *decimal.Decimal `json:"quantity,omitempty"`
	Unit             string           `json:"unit,omitempty"`
	SupplierRate     *decimal.Decimal `json:"supplier_rate,omitempty"`
	SupplierCurrency string           `json:"supplier_currency"`
	SupplierTotal    *decimal.Decimal `json:"supplier_total,omitempty"`
	Status           string           `json:"status"`
	Paid             bool             `json:"paid"`
	StartDate        *time.Time       `json:"start_date,omitempty"`
	DueDate          *time.Time       `json:"due_date,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	ExpenseID        *uuid.UUID       `json:"expense_id,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Version          int              `json:"version"`
}

// ToOutsourcingResponse converts a domain record to a response
func ToOutsourcingResponse(r *production.OutsourcingRecord) OutsourcingResponse {
	return OutsourcingResponse{
		ID:               r.ID,
		JobID:            r.JobID,
		SupplierID:       r.SupplierID,
		ServiceType:      r.ServiceType,
		Quantity:         r.Quantity,
		Unit:             r.Unit,
		SupplierRate:     r.SupplierRate,
		SupplierCurrency: r.SupplierCurrency.String(),
		SupplierTotal:    r.SupplierTotal,
		Status:           string(r.Status),
		Paid:             r.Paid,
		StartDate:        r.StartDate,
		DueDate:          r.DueDate,
		Notes:            r.Notes,
		ExpenseID:        r.ExpenseID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Version:          r.Version,
	}
}

// SetStatusResult is either an applied status change or, for delivered, the
// confirmation the caller must send back to book the supplier expense.
type SetStatusResult struct {
	Applied      bool                                   `json:"applied"`
	Record       *OutsourcingResponse                   `json:"record,omitempty"`
	Confirmation *production.PendingExpenseConfirmation `json:"confirmation,omitempty"`
}

// DeliveryResult is the outcome of a confirmed delivery
type DeliveryResult struct {
	Record    OutsourcingResponse `json:"record"`
	ExpenseID uuid.UUID           `json:"expense_id"`
	Amount    valueobject.Money   `json:"amount"`
}
