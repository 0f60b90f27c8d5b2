package production

import (
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PricingType determines how a job's total is derived
type PricingType string

const (
	PricingPerWord PricingType = "per_word"
	PricingPerHour PricingType = "per_hour"
	PricingFlatFee PricingType = "flat_fee"
)

// IsValid checks if the pricing type is valid
func (p PricingType) IsValid() bool {
	switch p {
	case PricingPerWord, PricingPerHour, PricingFlatFee:
		return true
	}
	return false
}

// IsUnitPriced reports whether the total is quantity * rate
func (p PricingType) IsUnitPriced() bool {
	return p == PricingPerWord || p == PricingPerHour
}

// DefaultUnit is the unit a subcontract inherits from the job
func (p PricingType) DefaultUnit() string {
	switch p {
	case PricingPerWord:
		return "word"
	case PricingPerHour:
		return "hour"
	default:
		return "project"
	}
}

// Pricing holds the inputs to ComputeTotal. Quantity and rate are
// informational for flat fees.
type Pricing struct {
	Type       PricingType
	Quantity   *decimal.Decimal
	Rate       *decimal.Decimal
	FlatAmount *decimal.Decimal
	Currency   valueobject.Currency
}

// ComputeTotal derives a job's billable total.
// Unit pricing multiplies quantity by rate exactly; flat fees return the flat amount.
func ComputeTotal(p Pricing) (valueobject.Money, error) {
	if !p.Type.IsValid() {
		return valueobject.Money{}, shared.NewValidationError("pricing_type", "Invalid pricing type: "+string(p.Type))
	}
	if !p.Currency.IsValid() {
		return valueobject.Money{}, shared.NewValidationError("currency", "Unsupported currency: "+p.Currency.String())
	}
	if p.Quantity != nil && !p.Quantity.IsPositive() {
		return valueobject.Money{}, shared.NewValidationError("quantity", "Quantity must be positive")
	}
	if p.Rate != nil && p.Rate.IsNegative() {
		return valueobject.Money{}, shared.NewValidationError("rate", "Rate cannot be negative")
	}

	if p.Type.IsUnitPriced() {
		if p.Quantity == nil || p.Rate == nil {
			return valueobject.Money{}, shared.ErrInvalidPricingInput
		}
		return valueobject.MustNewMoney(p.Quantity.Mul(*p.Rate), p.Currency), nil
	}

	if p.FlatAmount == nil {
		return valueobject.Money{}, shared.NewValidationErrorWithCode(shared.ErrInvalidPricingInput.Code,
			"flat_amount", "Flat amount is required for flat fee pricing")
	}
	if p.FlatAmount.IsNegative() {
		return valueobject.Money{}, shared.NewValidationError("flat_amount", "Flat amount cannot be negative")
	}
	return valueobject.MustNewMoney(*p.FlatAmount, p.Currency), nil
}
