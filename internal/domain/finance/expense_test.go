package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestClassify(t *testing.T) {
	today := day("2026-03-15")
	tests := []struct {
		name    string
		paid    bool
		dueDate *time.Time
		want    PaymentClass
	}{
		{"paid before due date", true, ptrTime(day("2026-04-01")), PaymentClassPaid},
		{"paid past due date", true, ptrTime(day("2026-01-01")), PaymentClassPaid},
		{"paid without due date", true, nil, PaymentClassPaid},
		{"unpaid past due", false, ptrTime(day("2026-03-14")), PaymentClassOverdue},
		{"unpaid due today", false, ptrTime(day("2026-03-15")), PaymentClassUnpaid},
		{"unpaid due later", false, ptrTime(day("2026-03-16")), PaymentClassUnpaid},
		{"unpaid without due date", false, nil, PaymentClassUnpaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.paid, tt.dueDate, today))
		})
	}
}

func TestClassify_IgnoresTimeOfDay(t *testing.T) {
	due := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	today := time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, PaymentClassUnpaid, Classify(false, &due, today))
}

func validExpenseInput() ExpenseInput {
	return ExpenseInput{
		Category: ExpenseCategorySoftware,
		Amount:   decimal.NewFromInt(49),
		Currency: valueobject.USD,
		Date:     day("2026-02-01"),
		DueDate:  ptrTime(day("2026-02-28")),
	}
}

func TestNewExpenseRecord(t *testing.T) {
	e, err := NewExpenseRecord(uuid.New(), validExpenseInput())
	require.NoError(t, err)
	assert.Equal(t, ExpenseSourceManual, e.Source)
	assert.False(t, e.Paid)
	assert.Equal(t, PaymentClassOverdue, e.Classify(day("2026-03-01")))

	t.Run("rejects missing currency", func(t *testing.T) {
		in := validExpenseInput()
		in.Currency = ""
		_, err := NewExpenseRecord(uuid.New(), in)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "currency", de.Field)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		in := validExpenseInput()
		in.Amount = decimal.Zero
		_, err := NewExpenseRecord(uuid.New(), in)
		assert.Error(t, err)
	})

	t.Run("paid on creation", func(t *testing.T) {
		in := validExpenseInput()
		in.Paid = true
		e, err := NewExpenseRecord(uuid.New(), in)
		require.NoError(t, err)
		assert.True(t, e.Paid)
		assert.NotNil(t, e.PaidAt)
	})
}

func TestNewDeliveryExpense(t *testing.T) {
	recordID, supplierID := uuid.New(), uuid.New()
	amount := valueobject.MustNewMoney(decimal.NewFromInt(100), valueobject.EUR)

	e, err := NewDeliveryExpense(uuid.New(), recordID, supplierID, "Babel Co", amount, "Translation", true, day("2026-02-02"))
	require.NoError(t, err)
	assert.Equal(t, ExpenseSourceOutsourcingDelivery, e.Source)
	assert.Equal(t, ExpenseCategoryOutsourcing, e.Category)
	assert.True(t, e.Money().Equals(amount))
	assert.True(t, e.Paid)
	assert.Equal(t, recordID, *e.OutsourcingID)
	assert.Equal(t, supplierID, *e.SupplierID)
}

func TestExpenseRecord_MarkPaid(t *testing.T) {
	e, err := NewExpenseRecord(uuid.New(), validExpenseInput())
	require.NoError(t, err)

	assert.True(t, e.MarkPaid())
	assert.False(t, e.MarkPaid(), "second call is a no-op")
	e.MarkUnpaid()
	assert.False(t, e.Paid)
	assert.Nil(t, e.PaidAt)
}
