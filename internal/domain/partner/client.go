package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
)

// DefaultPaymentTermsDays is used when a client is created without terms
const DefaultPaymentTermsDays = 30

// Client is a party work is billed to. Jobs, invoices and quotes reference it.
type Client struct {
	shared.OwnedAggregateRoot
	Name             string
	Email            string
	Phone            string
	Address          string
	DefaultCurrency  valueobject.Currency
	PaymentTermsDays int
	Notes            string
}

// NewClient creates a new client
func NewClient(ownerID uuid.UUID, name string, currency valueobject.Currency) (*Client, error) {
	if err := validatePartyName(name); err != nil {
		return nil, err
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError("default_currency", "Unsupported currency: "+currency.String())
	}

	return &Client{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               strings.TrimSpace(name),
		DefaultCurrency:    currency,
		PaymentTermsDays:   DefaultPaymentTermsDays,
	}, nil
}

// Update replaces the client's descriptive fields
func (c *Client) Update(name, email, phone, address, notes string) error {
	if err := validatePartyName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Email = strings.TrimSpace(email)
	c.Phone = phone
	c.Address = address
	c.Notes = notes
	c.UpdatedAt = time.Now()
	return nil
}

// SetDefaultCurrency sets the currency new jobs for this client start in
func (c *Client) SetDefaultCurrency(currency valueobject.Currency) error {
	if !currency.IsValid() {
		return shared.NewValidationError("default_currency", "Unsupported currency: "+currency.String())
	}
	c.DefaultCurrency = currency
	c.UpdatedAt = time.Now()
	return nil
}

// SetPaymentTerms sets the number of days between invoice date and due date
func (c *Client) SetPaymentTerms(days int) error {
	if days < 0 || days > 365 {
		return shared.NewValidationError("payment_terms_days", "Payment terms must be between 0 and 365 days")
	}
	c.PaymentTermsDays = days
	c.UpdatedAt = time.Now()
	return nil
}

// DueDateFrom returns the payment due date for a document issued on issued
func (c *Client) DueDateFrom(issued time.Time) time.Time {
	return issued.AddDate(0, 0, c.PaymentTermsDays)
}

func validatePartyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("name", "Name cannot exceed 200 characters")
	}
	return nil
}
