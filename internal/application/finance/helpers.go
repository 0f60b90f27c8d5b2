package finance

import (
	"time"

	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

func parseCurrency(field, raw string) (valueobject.Currency, error) {
	c, err := valueobject.ParseCurrency(raw)
	if err != nil {
		return "", shared.NewValidationError(field, err.Error())
	}
	return c, nil
}

func toLineItems(dtos []LineItemDTO) ([]finance.LineItem, error) {
	items := make([]finance.LineItem, 0, len(dtos))
	for _, d := range dtos {
		item, err := finance.NewLineItem(d.Description, d.Quantity, d.Rate)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func today(now func() time.Time) time.Time {
	y, m, d := now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
