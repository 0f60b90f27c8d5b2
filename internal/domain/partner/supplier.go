package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// RateCardEntry is a supplier's standing price for one service type
type RateCardEntry struct {
	ServiceType string
	Unit        string
	Rate        decimal.Decimal
	Currency    valueobject.Currency
}

// Price returns the entry rate as Money
func (e RateCardEntry) Price() valueobject.Money {
	return valueobject.MustNewMoney(e.Rate, e.Currency)
}

// Supplier is a subcontractor jobs can be outsourced to
type Supplier struct {
	shared.OwnedAggregateRoot
	Name            string
	Email           string
	Phone           string
	DefaultCurrency valueobject.Currency
	Notes           string
	RateCard        []RateCardEntry
}

// NewSupplier creates a new supplier
func NewSupplier(ownerID uuid.UUID, name string, currency valueobject.Currency) (*Supplier, error) {
	if err := validatePartyName(name); err != nil {
		return nil, err
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError("default_currency", "Unsupported currency: "+currency.String())
	}

	return &Supplier{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               strings.TrimSpace(name),
		DefaultCurrency:    currency,
		RateCard:           make([]RateCardEntry, 0),
	}, nil
}

// Update replaces the supplier's descriptive fields
func (s *Supplier) Update(name, email, phone, notes string) error {
	if err := validatePartyName(name); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.Email = strings.TrimSpace(email)
	s.Phone = phone
	s.Notes = notes
	s.UpdatedAt = time.Now()
	return nil
}

// SetDefaultCurrency sets the currency used when no rate card entry applies
func (s *Supplier) SetDefaultCurrency(currency valueobject.Currency) error {
	if !currency.IsValid() {
		return shared.NewValidationError("default_currency", "Unsupported currency: "+currency.String())
	}
	s.DefaultCurrency = currency
	s.UpdatedAt = time.Now()
	return nil
}

// SetRateCard replaces the rate card. Service types must be unique ignoring case.
func (s *Supplier) SetRateCard(entries []RateCardEntry) error {
	seen := make(map[string]struct{}, len(entries))
	card := make([]RateCardEntry, 0, len(entries))
	for _, e := range entries {
		e.ServiceType = strings.TrimSpace(e.ServiceType)
		if e.ServiceType == "" {
			return shared.NewValidationError("rate_card.service_type", "Service type cannot be empty")
		}
		if !e.Rate.IsPositive() {
			return shared.NewValidationError("rate_card.rate", "Rate must be positive")
		}
		if !e.Currency.IsValid() {
			return shared.NewValidationError("rate_card.currency", "Unsupported currency: "+e.Currency.String())
		}
		key := foldServiceType(e.ServiceType)
		if _, dup := seen[key]; dup {
			return shared.NewValidationErrorWithCode("DUPLICATE_SERVICE_TYPE", "rate_card.service_type",
				"Duplicate rate card entry for service type: "+e.ServiceType)
		}
		seen[key] = struct{}{}
		card = append(card, e)
	}
	s.RateCard = card
	s.UpdatedAt = time.Now()
	return nil
}

// MatchRate finds the rate card entry for serviceType, ignoring case
func (s *Supplier) MatchRate(serviceType string) (RateCardEntry, bool) {
	key := foldServiceType(serviceType)
	if key == "" {
		return RateCardEntry{}, false
	}
	for _, e := range s.RateCard {
		if foldServiceType(e.ServiceType) == key {
			return e, true
		}
	}
	return RateCardEntry{}, false
}

func foldServiceType(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
