package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseCategory represents the category of an expense
type ExpenseCategory string

const (
	ExpenseCategoryOutsourcing ExpenseCategory = "outsourcing"
	ExpenseCategorySoftware    ExpenseCategory = "software"
	ExpenseCategoryOffice      ExpenseCategory = "office"
	ExpenseCategoryRent        ExpenseCategory = "rent"
	ExpenseCategoryTravel      ExpenseCategory = "travel"
	ExpenseCategoryMarketing   ExpenseCategory = "marketing"
	ExpenseCategoryEquipment   ExpenseCategory = "equipment"
	ExpenseCategoryTax         ExpenseCategory = "tax"
	ExpenseCategoryOther       ExpenseCategory = "other"
)

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryOutsourcing, ExpenseCategorySoftware, ExpenseCategoryOffice,
		ExpenseCategoryRent, ExpenseCategoryTravel, ExpenseCategoryMarketing,
		ExpenseCategoryEquipment, ExpenseCategoryTax, ExpenseCategoryOther:
		return true
	}
	return false
}

// ExpenseSource records how an expense entered the ledger
type ExpenseSource string

const (
	ExpenseSourceManual              ExpenseSource = "manual"
	ExpenseSourceOutsourcingDelivery ExpenseSource = "outsourcing_delivery"
)

// IsValid checks if the source is valid
func (s ExpenseSource) IsValid() bool {
	return s == ExpenseSourceManual || s == ExpenseSourceOutsourcingDelivery
}

// PaymentClass is the derived paid / unpaid / overdue classification
type PaymentClass string

const (
	PaymentClassPaid    PaymentClass = "paid"
	PaymentClassUnpaid  PaymentClass = "unpaid"
	PaymentClassOverdue PaymentClass = "overdue"
)

// IsValid checks if the class is valid
func (c PaymentClass) IsValid() bool {
	return c == PaymentClassPaid || c == PaymentClassUnpaid || c == PaymentClassOverdue
}

// ExpenseRecord is a payable ledger row. Rows booked by an outsourcing delivery
// keep a reference to the record but are otherwise independent of it.
type ExpenseRecord struct {
	shared.OwnedAggregateRoot
	Category      ExpenseCategory
	Amount        decimal.Decimal
	Currency      valueobject.Currency
	Date          time.Time
	DueDate       *time.Time
	SupplierID    *uuid.UUID
	SupplierName  string
	Notes         string
	Paid          bool
	PaidAt        *time.Time
	Source        ExpenseSource
	OutsourcingID *uuid.UUID
	ReceiptKey    string
}

// ExpenseInput carries the fields of a manual expense
type ExpenseInput struct {
	Category     ExpenseCategory
	Amount       decimal.Decimal
	Currency     valueobject.Currency
	Date         time.Time
	DueDate      *time.Time
	SupplierID   *uuid.UUID
	SupplierName string
	Notes        string
	Paid         bool
}

// NewExpenseRecord creates a manual expense
func NewExpenseRecord(ownerID uuid.UUID, in ExpenseInput) (*ExpenseRecord, error) {
	e := &ExpenseRecord{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Source:             ExpenseSourceManual,
	}
	if err := e.apply(in); err != nil {
		return nil, err
	}
	if in.Paid {
		e.MarkPaid()
	}
	return e, nil
}

// NewDeliveryExpense books the payable for a delivered outsourcing record
func NewDeliveryExpense(ownerID, outsourcingID uuid.UUID, supplierID uuid.UUID, supplierName string,
	amount valueobject.Money, description string, paid bool, date time.Time) (*ExpenseRecord, error) {
	if amount.IsNegative() {
		return nil, shared.NewValidationError("amount", "Amount cannot be negative")
	}
	e := &ExpenseRecord{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Category:           ExpenseCategoryOutsourcing,
		Amount:             amount.Amount(),
		Currency:           amount.Currency(),
		Date:               dateOnly(date),
		SupplierID:         &supplierID,
		SupplierName:       supplierName,
		Notes:              description,
		Source:             ExpenseSourceOutsourcingDelivery,
		OutsourcingID:      &outsourcingID,
	}
	if paid {
		e.MarkPaid()
	}
	return e, nil
}

// Update replaces the editable fields of an expense
func (e *ExpenseRecord) Update(in ExpenseInput) error {
	if err := e.apply(in); err != nil {
		return err
	}
	if in.Paid && !e.Paid {
		e.MarkPaid()
	} else if !in.Paid && e.Paid {
		e.MarkUnpaid()
	}
	e.Touch()
	return nil
}

func (e *ExpenseRecord) apply(in ExpenseInput) error {
	if !in.Category.IsValid() {
		return shared.NewValidationError("category", "Invalid expense category: "+string(in.Category))
	}
	if !in.Amount.IsPositive() {
		return shared.NewValidationError("amount", "Amount must be positive")
	}
	if !in.Currency.IsValid() {
		return shared.NewValidationError("currency", "Unsupported currency: "+in.Currency.String())
	}
	if in.Date.IsZero() {
		return shared.NewValidationError("date", "Date is required")
	}
	if in.DueDate != nil && dateOnly(*in.DueDate).Before(dateOnly(in.Date)) {
		return shared.NewValidationError("due_date", "Due date cannot be before the expense date")
	}
	e.Category = in.Category
	e.Amount = in.Amount
	e.Currency = in.Currency
	e.Date = dateOnly(in.Date)
	e.DueDate = in.DueDate
	e.SupplierID = in.SupplierID
	e.SupplierName = strings.TrimSpace(in.SupplierName)
	e.Notes = in.Notes
	return nil
}

// Money returns the expense amount as Money
func (e *ExpenseRecord) Money() valueobject.Money {
	return valueobject.MustNewMoney(e.Amount, e.Currency)
}

// MarkPaid marks the expense as paid. It reports whether anything changed.
func (e *ExpenseRecord) MarkPaid() bool {
	if e.Paid {
		return false
	}
	now := time.Now()
	e.Paid = true
	e.PaidAt = &now
	e.Touch()
	return true
}

// MarkUnpaid clears the paid flag
func (e *ExpenseRecord) MarkUnpaid() {
	e.Paid = false
	e.PaidAt = nil
	e.Touch()
}

// AttachReceipt stores the object storage key of the receipt file
func (e *ExpenseRecord) AttachReceipt(key string) {
	e.ReceiptKey = key
	e.Touch()
}

// Classify derives the payment class of e as of today
func (e *ExpenseRecord) Classify(today time.Time) PaymentClass {
	return Classify(e.Paid, e.DueDate, today)
}

// Classify returns paid when paid, overdue when an unpaid due date lies
// strictly before today, and unpaid otherwise. Dates compare by calendar day.
func Classify(paid bool, dueDate *time.Time, today time.Time) PaymentClass {
	if paid {
		return PaymentClassPaid
	}
	if dueDate != nil && dateOnly(*dueDate).Before(dateOnly(today)) {
		return PaymentClassOverdue
	}
	return PaymentClassUnpaid
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
