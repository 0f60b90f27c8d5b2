package finance

import (
	"fmt"
	"strings"

	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineItem is one line of an invoice or quote; Amount is always Quantity * Rate.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// NewLineItem builds a line and computes its amount
func NewLineItem(description string, quantity, rate decimal.Decimal) (LineItem, error) {
	if strings.TrimSpace(description) == "" {
		return LineItem{}, shared.NewValidationError("items.description", "Item description cannot be empty")
	}
	if !quantity.IsPositive() {
		return LineItem{}, shared.NewValidationError("items.quantity", "Item quantity must be positive")
	}
	if rate.IsNegative() {
		return LineItem{}, shared.NewValidationError("items.rate", "Item rate cannot be negative")
	}
	return LineItem{
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		Rate:        rate,
		Amount:      quantity.Mul(rate),
	}, nil
}

// documentTotals holds the arithmetic shared by invoices and quotes
type documentTotals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

func computeTotals(items []LineItem, tax decimal.Decimal) documentTotals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount)
	}
	return documentTotals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

// validateTotals checks item amounts, subtotal and total against each other
func validateTotals(items []LineItem, t documentTotals) error {
	if len(items) == 0 {
		return shared.NewValidationError("items", "At least one item is required")
	}
	subtotal := decimal.Zero
	for i, it := range items {
		if !it.Amount.Equal(it.Quantity.Mul(it.Rate)) {
			return shared.NewDomainError("ITEM_AMOUNT_MISMATCH",
				fmt.Sprintf("Item %d amount %s does not equal quantity * rate", i+1, it.Amount))
		}
		subtotal = subtotal.Add(it.Amount)
	}
	if !t.Subtotal.Equal(subtotal) {
		return shared.NewDomainError("SUBTOTAL_MISMATCH", "Subtotal does not equal the sum of item amounts")
	}
	if !t.Total.Equal(t.Subtotal.Add(t.TaxAmount)) {
		return shared.NewDomainError("TOTAL_MISMATCH", "Total does not equal subtotal plus tax")
	}
	return nil
}
