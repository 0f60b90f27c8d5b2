package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ===================== Expense DTOs =====================

// CreateExpenseRequest represents a request to record a manual expense
type CreateExpenseRequest struct {
	Category     string          `json:"category" binding:"required,oneof=outsourcing software office rent travel marketing equipment tax other"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Currency     string          `json:"currency" binding:"required,len=3"`
	Date         time.Time       `json:"date" binding:"required"`
	DueDate      *time.Time      `json:"due_date"`
	SupplierID   *uuid.UUID      `json:"supplier_id"`
	SupplierName string          `json:"supplier_name" binding:"max=200"`
	Notes        string          `json:"notes"`
	Paid         bool            `json:"paid"`
}

// UpdateExpenseRequest represents a partial expense update
type UpdateExpenseRequest struct {
	Category     *string          `json:"category" binding:"omitempty,oneof=outsourcing software office rent travel marketing equipment tax other"`
	Amount       *decimal.Decimal `json:"amount"`
	Currency     *string          `json:"currency" binding:"omitempty,len=3"`
	Date         *time.Time       `json:"date"`
	DueDate      *time.Time       `json:"due_date"`
	SupplierID   *uuid.UUID       `json:"supplier_id"`
	SupplierName *string          `json:"supplier_name" binding:"omitempty,max=200"`
	Notes        *string          `json:"notes"`
	Paid         *bool            `json:"paid"`
}

// ExpenseListFilter is the query filter for listing expenses
type ExpenseListFilter struct {
	Classification string     `form:"classification" binding:"omitempty,oneof=paid unpaid overdue"`
	SupplierID     *uuid.UUID `form:"supplier_id"`
	Category       string     `form:"category"`
	Source         string     `form:"source" binding:"omitempty,oneof=manual outsourcing_delivery"`
	Currency       string     `form:"currency"`
	DateFrom       *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo         *time.Time `form:"date_to" time_format:"2006-01-02"`
	Search         string     `form:"search"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BulkIDsRequest names the targets of a bulk operation
type BulkIDsRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// AttachReceiptRequest asks for an upload URL for an expense receipt
type AttachReceiptRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// ReceiptURLResponse carries a presigned receipt URL
type ReceiptURLResponse struct {
	ExpenseID uuid.UUID `json:"expense_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID             uuid.UUID         `json:"id"`
	Category       string            `json:"category"`
	Amount         valueobject.Money `json:"amount"`
	Date           time.Time         `json:"date"`
	DueDate        *time.Time        `json:"due_date,omitempty"`
	SupplierID     *uuid.UUID        `json:"supplier_id,omitempty"`
	SupplierName   string            `json:"supplier_name,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	Paid           bool              `json:"paid"`
	PaidAt         *time.Time        `json:"paid_at,omitempty"`
	Classification string            `json:"classification"`
	Source         string            `json:"source"`
	OutsourcingID  *uuid.UUID        `json:"outsourcing_id,omitempty"`
	HasReceipt     bool              `json:"has_receipt"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Version        int               `json:"version"`
}

// ToExpenseResponse converts a domain expense to a response classified as of today
func ToExpenseResponse(e *finance.ExpenseRecord, today time.Time) ExpenseResponse {
	return ExpenseResponse{
		ID:             e.ID,
		Category:       string(e.Category),
		Amount:         e.Money(),
		Date:           e.Date,
		DueDate:        e.DueDate,
		SupplierID:     e.SupplierID,
		SupplierName:   e.SupplierName,
		Notes:          e.Notes,
		Paid:           e.Paid,
		PaidAt:         e.PaidAt,
		Classification: string(e.Classify(today)),
		Source:         string(e.Source),
		OutsourcingID:  e.OutsourcingID,
		HasReceipt:     e.ReceiptKey != "",
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
		Version:        e.Version,
	}
}

// ===================== Invoice DTOs =====================

// GenerateInvoiceRequest selects the jobs to bill to one client
type GenerateInvoiceRequest struct {
	JobIDs   []uuid.UUID `json:"job_ids"`
	ClientID uuid.UUID   `json:"client_id" binding:"required"`
	Notes    string      `json:"notes"`
}

// SetInvoiceStatusRequest changes an invoice status
type SetInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft sent paid overdue"`
}

// BulkInvoiceStatusRequest applies one status to many invoices
type BulkInvoiceStatusRequest struct {
	IDs    []uuid.UUID `json:"ids" binding:"required,min=1"`
	Status string      `json:"status" binding:"required,oneof=draft sent paid overdue"`
}

// InvoiceListFilter is the query filter for listing invoices
type InvoiceListFilter struct {
	ClientID *uuid.UUID `form:"client_id"`
	Status   string     `form:"status" binding:"omitempty,oneof=draft sent paid overdue"`
	Currency string     `form:"currency"`
	Search   string     `form:"search"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LineItemDTO is one line of an invoice or quote
type LineItemDTO struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID         `json:"id"`
	ClientID      uuid.UUID         `json:"client_id"`
	InvoiceNumber string            `json:"invoice_number"`
	Items         []LineItemDTO     `json:"items,omitempty"`
	Subtotal      valueobject.Money `json:"subtotal"`
	TaxAmount     valueobject.Money `json:"tax_amount"`
	Total         valueobject.Money `json:"total"`
	Status        string            `json:"status"`
	Date          time.Time         `json:"date"`
	DueDate       *time.Time        `json:"due_date,omitempty"`
	PaidAt        *time.Time        `json:"paid_at,omitempty"`
	JobIDs        []uuid.UUID       `json:"job_ids"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Version       int               `json:"version"`
}

// ToInvoiceResponse converts a domain invoice to a response
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	jobIDs := inv.JobIDs
	if jobIDs == nil {
		jobIDs = make([]uuid.UUID, 0)
	}
	return InvoiceResponse{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		InvoiceNumber: inv.InvoiceNumber,
		Items:         toLineItemDTOs(inv.Items),
		Subtotal:      valueobject.MustNewMoney(inv.Subtotal, inv.Currency),
		TaxAmount:     valueobject.MustNewMoney(inv.TaxAmount, inv.Currency),
		Total:         inv.TotalMoney(),
		Status:        string(inv.Status),
		Date:          inv.Date,
		DueDate:       inv.DueDate,
		PaidAt:        inv.PaidAt,
		JobIDs:        jobIDs,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		Version:       inv.Version,
	}
}

// ===================== Quote DTOs =====================

// CreateQuoteRequest represents a request to draft a quote
type CreateQuoteRequest struct {
	ClientID   uuid.UUID        `json:"client_id" binding:"required"`
	Currency   string           `json:"currency" binding:"omitempty,len=3"`
	Items      []LineItemDTO    `json:"items" binding:"required,min=1,dive"`
	TaxAmount  *decimal.Decimal `json:"tax_amount"`
	ValidUntil *time.Time       `json:"valid_until"`
	Notes      string           `json:"notes"`
}

// UpdateQuoteRequest replaces the lines of a draft quote
type UpdateQuoteRequest struct {
	Items      []LineItemDTO    `json:"items" binding:"required,min=1,dive"`
	TaxAmount  *decimal.Decimal `json:"tax_amount"`
	ValidUntil *time.Time       `json:"valid_until"`
	Notes      *string          `json:"notes"`
}

// SetQuoteStatusRequest changes a quote status
type SetQuoteStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft sent accepted rejected"`
}

// QuoteListFilter is the query filter for listing quotes
type QuoteListFilter struct {
	ClientID *uuid.UUID `form:"client_id"`
	Status   string     `form:"status" binding:"omitempty,oneof=draft sent accepted rejected"`
	Search   string     `form:"search"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID          uuid.UUID         `json:"id"`
	ClientID    uuid.UUID         `json:"client_id"`
	QuoteNumber string            `json:"quote_number"`
	Items       []LineItemDTO     `json:"items,omitempty"`
	Subtotal    valueobject.Money `json:"subtotal"`
	TaxAmount   valueobject.Money `json:"tax_amount"`
	Total       valueobject.Money `json:"total"`
	Status      string            `json:"status"`
	Date        time.Time         `json:"date"`
	ValidUntil  *time.Time        `json:"valid_until,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Version     int               `json:"version"`
}

// ToQuoteResponse converts a domain quote to a response
func ToQuoteResponse(q *finance.Quote) QuoteResponse {
	return QuoteResponse{
		ID:          q.ID,
		ClientID:    q.ClientID,
		QuoteNumber: q.QuoteNumber,
		Items:       toLineItemDTOs(q.Items),
		Subtotal:    valueobject.MustNewMoney(q.Subtotal, q.Currency),
		TaxAmount:   valueobject.MustNewMoney(q.TaxAmount, q.Currency),
		Total:       q.TotalMoney(),
		Status:      string(q.Status),
		Date:        q.Date,
		ValidUntil:  q.ValidUntil,
		Notes:       q.Notes,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
		Version:     q.Version,
	}
}

func toLineItemDTOs(items []finance.LineItem) []LineItemDTO {
	out := make([]LineItemDTO, len(items))
	for i, it := range items {
		out[i] = LineItemDTO{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Amount:      it.Amount,
		}
	}
	return out
}
