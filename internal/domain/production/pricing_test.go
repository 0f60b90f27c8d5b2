package production

import (
	"math/rand"
	"testing"

	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestComputeTotal_UnitPricing(t *testing.T) {
	total, err := ComputeTotal(Pricing{
		Type:     PricingPerWord,
		Quantity: dec("2000"),
		Rate:     dec("0.08"),
		Currency: valueobject.USD,
	})
	require.NoError(t, err)
	assert.True(t, total.Amount().Equal(decimal.NewFromInt(160)))
	assert.Equal(t, valueobject.USD, total.Currency())
}

func TestComputeTotal_UnitPricingIsExact(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		qty := decimal.New(rng.Int63n(1_000_000)+1, -int32(rng.Intn(3)))
		rate := decimal.New(rng.Int63n(100_000)+1, -int32(rng.Intn(4)))
		pt := PricingPerWord
		if i%2 == 0 {
			pt = PricingPerHour
		}

		total, err := ComputeTotal(Pricing{Type: pt, Quantity: &qty, Rate: &rate, Currency: valueobject.EUR})
		require.NoError(t, err)
		assert.True(t, total.Amount().Equal(qty.Mul(rate)), "qty=%s rate=%s", qty, rate)
	}
}

func TestComputeTotal_FlatFee(t *testing.T) {
	total, err := ComputeTotal(Pricing{
		Type:       PricingFlatFee,
		Quantity:   dec("10"),
		Rate:       dec("999"),
		FlatAmount: dec("750"),
		Currency:   valueobject.GBP,
	})
	require.NoError(t, err)
	assert.True(t, total.Amount().Equal(decimal.NewFromInt(750)), "quantity and rate are informational")
}

func TestComputeTotal_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		pricing Pricing
		code    string
		field   string
	}{
		{"missing rate", Pricing{Type: PricingPerHour, Quantity: dec("3"), Currency: valueobject.USD}, "INVALID_PRICING_INPUT", ""},
		{"missing quantity", Pricing{Type: PricingPerWord, Rate: dec("1"), Currency: valueobject.USD}, "INVALID_PRICING_INPUT", ""},
		{"zero quantity", Pricing{Type: PricingPerWord, Quantity: dec("0"), Rate: dec("1"), Currency: valueobject.USD}, "VALIDATION_ERROR", "quantity"},
		{"negative rate", Pricing{Type: PricingPerWord, Quantity: dec("1"), Rate: dec("-1"), Currency: valueobject.USD}, "VALIDATION_ERROR", "rate"},
		{"missing flat amount", Pricing{Type: PricingFlatFee, Currency: valueobject.USD}, "INVALID_PRICING_INPUT", "flat_amount"},
		{"missing currency", Pricing{Type: PricingFlatFee, FlatAmount: dec("1")}, "VALIDATION_ERROR", "currency"},
		{"unknown type", Pricing{Type: "per_page", Currency: valueobject.USD}, "VALIDATION_ERROR", "pricing_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeTotal(tt.pricing)
			de, ok := shared.AsDomainError(err)
			require.True(t, ok, "expected DomainError, got %v", err)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, shared.KindValidation, de.Kind)
			if tt.field != "" {
				assert.Equal(t, tt.field, de.Field)
			}
		})
	}
}
