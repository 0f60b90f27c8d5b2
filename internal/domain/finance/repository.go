package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
)

// ExpenseFilter narrows expense listings. Class is evaluated against AsOf.
type ExpenseFilter struct {
	shared.Filter
	Class      *PaymentClass
	AsOf       time.Time
	SupplierID *uuid.UUID
	Category   *ExpenseCategory
	Source     *ExpenseSource
	Currency   *valueobject.Currency
	DateFrom   *time.Time
	DateTo     *time.Time
}

// ExpenseRecordRepository defines the interface for expense persistence
type ExpenseRecordRepository interface {
	// FindByIDForOwner finds an expense by ID within an owner's books
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*ExpenseRecord, error)

	// FindAllForOwner lists expenses with pagination and returns the total count
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter ExpenseFilter) ([]ExpenseRecord, int64, error)

	// FindMatching returns every expense matching the filter, ignoring pagination
	FindMatching(ctx context.Context, ownerID uuid.UUID, filter ExpenseFilter) ([]ExpenseRecord, error)

	// Save inserts a new expense
	Save(ctx context.Context, expense *ExpenseRecord) error

	// SaveWithLock updates an expense if its stored version still matches
	SaveWithLock(ctx context.Context, expense *ExpenseRecord) error

	// DeleteForOwner deletes an expense
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	ClientID *uuid.UUID
	Status   *InvoiceStatus
	Currency *valueobject.Currency
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForOwner finds an invoice with its items
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Invoice, error)

	// FindAllForOwner lists invoices with pagination and returns the total count
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter InvoiceFilter) ([]Invoice, int64, error)

	// FindMatching returns every invoice header matching the filter, ignoring pagination
	FindMatching(ctx context.Context, ownerID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// Save inserts a new invoice and its items
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock updates an invoice header if its stored version still matches
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// DeleteForOwner deletes an invoice and its items
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// GenerateInvoiceNumber returns the next sequential invoice number for the owner
	GenerateInvoiceNumber(ctx context.Context, ownerID uuid.UUID) (string, error)
}

// QuoteFilter narrows quote listings
type QuoteFilter struct {
	shared.Filter
	ClientID *uuid.UUID
	Status   *QuoteStatus
}

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	// FindByIDForOwner finds a quote with its items
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Quote, error)

	// FindAllForOwner lists quotes with pagination and returns the total count
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter QuoteFilter) ([]Quote, int64, error)

	// Save inserts or fully replaces a quote and its items
	Save(ctx context.Context, quote *Quote) error

	// DeleteForOwner deletes a quote and its items
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// GenerateQuoteNumber returns the next quote number for the owner
	GenerateQuoteNumber(ctx context.Context, ownerID uuid.UUID) (string, error)
}
