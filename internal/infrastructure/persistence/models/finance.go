package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseRecordModel is the persistence model for the ExpenseRecord aggregate root.
type ExpenseRecordModel struct {
	OwnedAggregateModel
	Category      finance.ExpenseCategory `gorm:"type:varchar(30);not null;index"`
	Amount        decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Currency      valueobject.Currency    `gorm:"type:varchar(3);not null;index"`
	Date          time.Time               `gorm:"not null;index"`
	DueDate       *time.Time              `gorm:"index"`
	SupplierID    *uuid.UUID              `gorm:"type:uuid;index"`
	SupplierName  string                  `gorm:"type:varchar(200)"`
	Notes         string                  `gorm:"type:text"`
	Paid          bool                    `gorm:"not null;default:false;index"`
	PaidAt        *time.Time
	Source        finance.ExpenseSource `gorm:"type:varchar(30);not null;default:'manual'"`
	OutsourcingID *uuid.UUID            `gorm:"type:uuid;index"`
	ReceiptKey    string                `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ExpenseRecordModel) TableName() string {
	return "expense_records"
}

// ToDomain converts the persistence model to a domain ExpenseRecord entity.
func (m *ExpenseRecordModel) ToDomain() *finance.ExpenseRecord {
	return &finance.ExpenseRecord{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Category:           m.Category,
		Amount:             m.Amount,
		Currency:           m.Currency,
		Date:               m.Date,
		DueDate:            m.DueDate,
		SupplierID:         m.SupplierID,
		SupplierName:       m.SupplierName,
		Notes:              m.Notes,
		Paid:               m.Paid,
		PaidAt:             m.PaidAt,
		Source:             m.Source,
		OutsourcingID:      m.OutsourcingID,
		ReceiptKey:         m.ReceiptKey,
	}
}

// FromDomain populates the persistence model from a domain ExpenseRecord entity.
func (m *ExpenseRecordModel) FromDomain(e *finance.ExpenseRecord) {
	m.FromDomainOwnedAggregateRoot(e.OwnedAggregateRoot)
	m.Category = e.Category
	m.Amount = e.Amount
	m.Currency = e.Currency
	m.Date = e.Date
	m.DueDate = e.DueDate
	m.SupplierID = e.SupplierID
	m.SupplierName = e.SupplierName
	m.Notes = e.Notes
	m.Paid = e.Paid
	m.PaidAt = e.PaidAt
	m.Source = e.Source
	m.OutsourcingID = e.OutsourcingID
	m.ReceiptKey = e.ReceiptKey
}

// ExpenseRecordModelFromDomain creates a new persistence model from domain.
func ExpenseRecordModelFromDomain(e *finance.ExpenseRecord) *ExpenseRecordModel {
	m := &ExpenseRecordModel{}
	m.FromDomain(e)
	return m
}

// LineItemModel holds the columns shared by invoice and quote lines
type LineItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	Position    int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (m LineItemModel) toDomain() finance.LineItem {
	return finance.LineItem{
		Description: m.Description,
		Quantity:    m.Quantity,
		Rate:        m.Rate,
		Amount:      m.Amount,
	}
}

func lineItemModel(position int, item finance.LineItem) LineItemModel {
	return LineItemModel{
		ID:          uuid.New(),
		Position:    position,
		Description: item.Description,
		Quantity:    item.Quantity,
		Rate:        item.Rate,
		Amount:      item.Amount,
	}
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
// Linked jobs are read from jobs.invoice_id, not stored here.
type InvoiceModel struct {
	OwnedAggregateModel
	ClientID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	InvoiceNumber string                `gorm:"type:varchar(50);not null;index"`
	Currency      valueobject.Currency  `gorm:"type:varchar(3);not null;index"`
	Subtotal      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TaxAmount     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Status        finance.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Date          time.Time             `gorm:"not null;index"`
	DueDate       *time.Time
	PaidAt        *time.Time
	Notes         string             `gorm:"type:text"`
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is one line of an invoice
type InvoiceItemModel struct {
	LineItemModel
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain Invoice entity.
// JobIDs are left empty for the repository to fill.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	items := make([]finance.LineItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, it.toDomain())
	}
	return &finance.Invoice{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		ClientID:           m.ClientID,
		InvoiceNumber:      m.InvoiceNumber,
		Currency:           m.Currency,
		Items:              items,
		Subtotal:           m.Subtotal,
		TaxAmount:          m.TaxAmount,
		Total:              m.Total,
		Status:             m.Status,
		Date:               m.Date,
		DueDate:            m.DueDate,
		PaidAt:             m.PaidAt,
		JobIDs:             make([]uuid.UUID, 0),
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *finance.Invoice) {
	m.FromDomainOwnedAggregateRoot(inv.OwnedAggregateRoot)
	m.ClientID = inv.ClientID
	m.InvoiceNumber = inv.InvoiceNumber
	m.Currency = inv.Currency
	m.Subtotal = inv.Subtotal
	m.TaxAmount = inv.TaxAmount
	m.Total = inv.Total
	m.Status = inv.Status
	m.Date = inv.Date
	m.DueDate = inv.DueDate
	m.PaidAt = inv.PaidAt
	m.Notes = inv.Notes
	m.Items = make([]InvoiceItemModel, 0, len(inv.Items))
	for i, it := range inv.Items {
		m.Items = append(m.Items, InvoiceItemModel{LineItemModel: lineItemModel(i, it), InvoiceID: inv.ID})
	}
}

// InvoiceModelFromDomain creates a new persistence model from domain.
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// QuoteModel is the persistence model for the Quote aggregate root.
type QuoteModel struct {
	OwnedAggregateModel
	ClientID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	QuoteNumber string               `gorm:"type:varchar(50);not null;index"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null"`
	Subtotal    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	TaxAmount   decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Total       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Status      finance.QuoteStatus  `gorm:"type:varchar(20);not null;default:'draft';index"`
	Date        time.Time            `gorm:"not null"`
	ValidUntil  *time.Time
	Notes       string           `gorm:"type:text"`
	Items       []QuoteItemModel `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// QuoteItemModel is one line of a quote
type QuoteItemModel struct {
	LineItemModel
	QuoteID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (QuoteItemModel) TableName() string {
	return "quote_items"
}

// ToDomain converts the persistence model to a domain Quote entity.
func (m *QuoteModel) ToDomain() *finance.Quote {
	items := make([]finance.LineItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, it.toDomain())
	}
	return &finance.Quote{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		ClientID:           m.ClientID,
		QuoteNumber:        m.QuoteNumber,
		Currency:           m.Currency,
		Items:              items,
		Subtotal:           m.Subtotal,
		TaxAmount:          m.TaxAmount,
		Total:              m.Total,
		Status:             m.Status,
		Date:               m.Date,
		ValidUntil:         m.ValidUntil,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Quote entity.
func (m *QuoteModel) FromDomain(q *finance.Quote) {
	m.FromDomainOwnedAggregateRoot(q.OwnedAggregateRoot)
	m.ClientID = q.ClientID
	m.QuoteNumber = q.QuoteNumber
	m.Currency = q.Currency
	m.Subtotal = q.Subtotal
	m.TaxAmount = q.TaxAmount
	m.Total = q.Total
	m.Status = q.Status
	m.Date = q.Date
	m.ValidUntil = q.ValidUntil
	m.Notes = q.Notes
	m.Items = make([]QuoteItemModel, 0, len(q.Items))
	for i, it := range q.Items {
		m.Items = append(m.Items, QuoteItemModel{LineItemModel: lineItemModel(i, it), QuoteID: q.ID})
	}
}

// QuoteModelFromDomain creates a new persistence model from domain.
func QuoteModelFromDomain(q *finance.Quote) *QuoteModel {
	m := &QuoteModel{}
	m.FromDomain(q)
	return m
}

// AllModels lists every model for AutoMigrate in tests and tooling
func AllModels() []any {
	return []any{
		&ClientModel{},
		&SupplierModel{},
		&SupplierRateModel{},
		&JobModel{},
		&OutsourcingRecordModel{},
		&ExpenseRecordModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&QuoteModel{},
		&QuoteItemModel{},
	}
}
