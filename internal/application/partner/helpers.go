package partner

import (
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
)

func parseCurrency(field, raw string) (valueobject.Currency, error) {
	c, err := valueobject.ParseCurrency(raw)
	if err != nil {
		return "", shared.NewValidationError(field, err.Error())
	}
	return c, nil
}

func toRateCard(entries []RateCardEntryDTO) ([]partner.RateCardEntry, error) {
	card := make([]partner.RateCardEntry, 0, len(entries))
	for _, e := range entries {
		cur, err := parseCurrency("rate_card.currency", e.Currency)
		if err != nil {
			return nil, err
		}
		card = append(card, partner.RateCardEntry{
			ServiceType: e.ServiceType,
			Unit:        e.Unit,
			Rate:        e.Rate,
			Currency:    cur,
		})
	}
	return card, nil
}
