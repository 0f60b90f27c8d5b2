package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	amount   decimal.Decimal
	currency Currency
}

func rowAmount(r row) decimal.Decimal { return r.amount }
func rowCurrency(r row) Currency      { return r.currency }

func TestAggregate_NeverMixesCurrencies(t *testing.T) {
	totals, err := Aggregate([]row{
		{decimal.NewFromInt(10), USD},
		{decimal.NewFromInt(5), EUR},
	}, rowAmount, rowCurrency)
	require.NoError(t, err)

	require.Len(t, totals, 2)
	assert.True(t, totals.Get(USD).Amount().Equal(decimal.NewFromInt(10)))
	assert.True(t, totals.Get(EUR).Amount().Equal(decimal.NewFromInt(5)))
}

func TestAggregate_SumsWithinCurrency(t *testing.T) {
	totals, err := Aggregate([]row{
		{decimal.NewFromInt(10), USD},
		{decimal.RequireFromString("2.5"), USD},
		{decimal.NewFromInt(7), MAD},
		{decimal.NewFromInt(3), MAD},
		{decimal.NewFromInt(1), GBP},
	}, rowAmount, rowCurrency)
	require.NoError(t, err)

	assert.True(t, totals.Get(USD).Amount().Equal(decimal.RequireFromString("12.5")))
	assert.True(t, totals.Get(MAD).Amount().Equal(decimal.NewFromInt(10)))
	assert.True(t, totals.Get(GBP).Amount().Equal(decimal.NewFromInt(1)))
	assert.True(t, totals.Get(CAD).IsZero())
}

func TestAggregate_Empty(t *testing.T) {
	totals, err := Aggregate([]row{}, rowAmount, rowCurrency)
	require.NoError(t, err)
	assert.Empty(t, totals)
	assert.Empty(t, totals.Sorted())
}

func TestAggregate_RejectsMissingCurrency(t *testing.T) {
	for _, cur := range []Currency{"", "XYZ"} {
		totals, err := Aggregate([]row{
			{decimal.NewFromInt(10), USD},
			{decimal.NewFromInt(5), cur},
		}, rowAmount, rowCurrency)
		assert.Error(t, err, "currency %q", cur)
		assert.Nil(t, totals)
	}
}

func TestCurrencyTotals_Sorted(t *testing.T) {
	totals := NewCurrencyTotals()
	totals.Add(MustNewMoney(decimal.NewFromInt(5), EUR))
	totals.Add(MustNewMoney(decimal.NewFromInt(50), MAD))
	totals.Add(MustNewMoney(decimal.NewFromInt(20), USD))
	totals.Add(MustNewMoney(decimal.NewFromInt(5), CAD))

	sorted := totals.Sorted()
	require.Len(t, sorted, 4)
	assert.Equal(t, MAD, sorted[0].Currency())
	assert.Equal(t, USD, sorted[1].Currency())
	assert.Equal(t, CAD, sorted[2].Currency())
	assert.Equal(t, EUR, sorted[3].Currency())
}

func TestCurrencyTotals_AddAllAndJSON(t *testing.T) {
	a := NewCurrencyTotals()
	a.Add(MustNewMoney(decimal.NewFromInt(1), USD))
	b := NewCurrencyTotals()
	b.Add(MustNewMoney(decimal.NewFromInt(2), USD))
	b.Add(MustNewMoney(decimal.NewFromInt(4), EUR))
	a.AddAll(b)

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"amount":"4.00","currency":"EUR"},{"amount":"3.00","currency":"USD"}]`, string(data))
	assert.Equal(t, []Currency{EUR, USD}, a.Currencies())

	var back CurrencyTotals
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Get(USD).Amount().Equal(decimal.NewFromInt(3)))
	assert.True(t, back.Get(EUR).Amount().Equal(decimal.NewFromInt(4)))
}
