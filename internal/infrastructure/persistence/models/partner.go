package models

import (
	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	OwnedAggregateModel
	Name             string               `gorm:"type:varchar(200);not null;index"`
	Email            string               `gorm:"type:varchar(200)"`
	Phone            string               `gorm:"type:varchar(50)"`
	Address          string               `gorm:"type:text"`
	DefaultCurrency  valueobject.Currency `gorm:"type:varchar(3);not null"`
	PaymentTermsDays int                  `gorm:"not null;default:30"`
	Notes            string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            m.Address,
		DefaultCurrency:    m.DefaultCurrency,
		PaymentTermsDays:   m.PaymentTermsDays,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainOwnedAggregateRoot(c.OwnedAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.DefaultCurrency = c.DefaultCurrency
	m.PaymentTermsDays = c.PaymentTermsDays
	m.Notes = c.Notes
}

// ClientModelFromDomain creates a new persistence model from domain.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// SupplierModel is the persistence model for the Supplier domain entity.
type SupplierModel struct {
	OwnedAggregateModel
	Name            string               `gorm:"type:varchar(200);not null;index"`
	Email           string               `gorm:"type:varchar(200)"`
	Phone           string               `gorm:"type:varchar(50)"`
	DefaultCurrency valueobject.Currency `gorm:"type:varchar(3);not null"`
	Notes           string               `gorm:"type:text"`
	Rates           []SupplierRateModel  `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	card := make([]partner.RateCardEntry, 0, len(m.Rates))
	for _, r := range m.Rates {
		card = append(card, r.ToDomain())
	}
	return &partner.Supplier{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		DefaultCurrency:    m.DefaultCurrency,
		Notes:              m.Notes,
		RateCard:           card,
	}
}

// FromDomain populates the persistence model from a domain Supplier entity.
// Rate rows get fresh ids; the card is always replaced as a whole.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.FromDomainOwnedAggregateRoot(s.OwnedAggregateRoot)
	m.Name = s.Name
	m.Email = s.Email
	m.Phone = s.Phone
	m.DefaultCurrency = s.DefaultCurrency
	m.Notes = s.Notes
	m.Rates = make([]SupplierRateModel, 0, len(s.RateCard))
	for i, e := range s.RateCard {
		m.Rates = append(m.Rates, SupplierRateModel{
			ID:          uuid.New(),
			SupplierID:  s.ID,
			Position:    i,
			ServiceType: e.ServiceType,
			Unit:        e.Unit,
			Rate:        e.Rate,
			Currency:    e.Currency,
		})
	}
}

// SupplierModelFromDomain creates a new persistence model from domain.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}

// SupplierRateModel is one rate card entry of a supplier
type SupplierRateModel struct {
	ID          uuid.UUID            `gorm:"type:uuid;primary_key"`
	SupplierID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Position    int                  `gorm:"not null;default:0"`
	ServiceType string               `gorm:"type:varchar(100);not null"`
	Unit        string               `gorm:"type:varchar(30)"`
	Rate        decimal.Decimal      `gorm:"type:decimal(20,6);not null"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null"`
}

// TableName returns the table name for GORM
func (SupplierRateModel) TableName() string {
	return "supplier_rates"
}

// ToDomain converts the row to a rate card entry
func (m SupplierRateModel) ToDomain() partner.RateCardEntry {
	return partner.RateCardEntry{
		ServiceType: m.ServiceType,
		Unit:        m.Unit,
		Rate:        m.Rate,
		Currency:    m.Currency,
	}
}
