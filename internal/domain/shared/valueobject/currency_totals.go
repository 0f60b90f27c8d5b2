package valueobject

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// CurrencyTotals holds one independent running sum per currency.
// Amounts in different currencies are never combined.
type CurrencyTotals map[Currency]decimal.Decimal

// NewCurrencyTotals returns an empty set of totals
func NewCurrencyTotals() CurrencyTotals {
	return make(CurrencyTotals)
}

// Add folds m into the total for its currency
func (t CurrencyTotals) Add(m Money) {
	t[m.currency] = t[m.currency].Add(m.amount)
}

// AddAll folds every currency of other into t
func (t CurrencyTotals) AddAll(other CurrencyTotals) {
	for cur, amount := range other {
		t[cur] = t[cur].Add(amount)
	}
}

// Get returns the total for cur, zero when absent
func (t CurrencyTotals) Get(cur Currency) Money {
	return Money{amount: t[cur], currency: cur}
}

// Currencies returns the currencies present, in code order
func (t CurrencyTotals) Currencies() []Currency {
	out := make([]Currency, 0, len(t))
	for cur := range t {
		out = append(out, cur)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Sorted returns the totals ordered by magnitude descending for display.
// Ties are ordered by currency code.
func (t CurrencyTotals) Sorted() []Money {
	out := make([]Money, 0, len(t))
	for cur, amount := range t {
		out = append(out, Money{amount: amount, currency: cur})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].amount.Abs().Cmp(out[j].amount.Abs()); c != 0 {
			return c > 0
		}
		return out[i].currency < out[j].currency
	})
	return out
}

// MarshalJSON renders the totals as the display-ordered list
func (t CurrencyTotals) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Sorted())
}

// UnmarshalJSON reads the list form written by MarshalJSON
func (t *CurrencyTotals) UnmarshalJSON(data []byte) error {
	var list []Money
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	out := NewCurrencyTotals()
	for _, m := range list {
		out.Add(m)
	}
	*t = out
	return nil
}

// Aggregate folds records into per-currency totals using the supplied accessors.
// A record with a missing or unsupported currency fails the whole fold.
func Aggregate[T any](records []T, amountOf func(T) decimal.Decimal, currencyOf func(T) Currency) (CurrencyTotals, error) {
	totals := NewCurrencyTotals()
	for i, r := range records {
		cur := currencyOf(r)
		if !cur.IsValid() {
			return nil, fmt.Errorf("record %d: unsupported currency %q", i, cur)
		}
		totals[cur] = totals[cur].Add(amountOf(r))
	}
	return totals, nil
}

// AggregateMoney folds records that expose a Money value
func AggregateMoney[T any](records []T, moneyOf func(T) Money) CurrencyTotals {
	totals := NewCurrencyTotals()
	for _, r := range records {
		totals.Add(moneyOf(r))
	}
	return totals
}
