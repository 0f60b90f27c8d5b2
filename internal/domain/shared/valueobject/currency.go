package valueobject

import (
	"fmt"
	"strings"
)

// Currency is one of the ISO 4217 codes the books may be kept in.
// There is no implicit default; every monetary field carries its own currency.
type Currency string

const (
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	CAD Currency = "CAD" // Canadian Dollar
	MAD Currency = "MAD" // Moroccan Dirham
)

// SupportedCurrencies lists every accepted currency in display order
var SupportedCurrencies = []Currency{USD, EUR, GBP, CAD, MAD}

// IsValid reports whether c is a supported currency
func (c Currency) IsValid() bool {
	switch c {
	case USD, EUR, GBP, CAD, MAD:
		return true
	}
	return false
}

// String returns the ISO code
func (c Currency) String() string {
	return string(c)
}

// ParseCurrency normalises and validates a currency code.
// An empty code is an error.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if c == "" {
		return "", fmt.Errorf("currency is required")
	}
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported currency: %s", code)
	}
	return c, nil
}
