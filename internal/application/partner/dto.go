package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	Name             string `json:"name" binding:"required,min=1,max=200"`
	Email            string `json:"email" binding:"omitempty,email,max=200"`
	Phone            string `json:"phone" binding:"max=50"`
	Address          string `json:"address" binding:"max=500"`
	DefaultCurrency  string `json:"default_currency" binding:"required,len=3"`
	PaymentTermsDays *int   `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	Notes            string `json:"notes"`
}

// UpdateClientRequest represents a partial client update
type UpdateClientRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email            *string `json:"email" binding:"omitempty,email,max=200"`
	Phone            *string `json:"phone" binding:"omitempty,max=50"`
	Address          *string `json:"address" binding:"omitempty,max=500"`
	DefaultCurrency  *string `json:"default_currency" binding:"omitempty,len=3"`
	PaymentTermsDays *int    `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	Notes            *string `json:"notes"`
}

// ClientListFilter is the query filter for listing clients
type ClientListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	DefaultCurrency  string    `json:"default_currency"`
	PaymentTermsDays int       `json:"payment_terms_days"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Version          int       `json:"version"`
}

// ToClientResponse converts a domain client to a response
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		DefaultCurrency:  c.DefaultCurrency.String(),
		PaymentTermsDays: c.PaymentTermsDays,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}

// =============================================================================
// Supplier DTOs
// =============================================================================

// RateCardEntryDTO is one rate card line
type RateCardEntryDTO struct {
	ServiceType string          `json:"service_type" binding:"required,max=100"`
	Unit        string          `json:"unit" binding:"required,max=50"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
	Currency    string          `json:"currency" binding:"required,len=3"`
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Name            string             `json:"name" binding:"required,min=1,max=200"`
	Email           string             `json:"email" binding:"omitempty,email,max=200"`
	Phone           string             `json:"phone" binding:"max=50"`
	DefaultCurrency string             `json:"default_currency" binding:"required,len=3"`
	Notes           string             `json:"notes"`
	RateCard        []RateCardEntryDTO `json:"rate_card" binding:"omitempty,dive"`
}

// UpdateSupplierRequest represents a partial supplier update
type UpdateSupplierRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email           *string `json:"email" binding:"omitempty,email,max=200"`
	Phone           *string `json:"phone" binding:"omitempty,max=50"`
	DefaultCurrency *string `json:"default_currency" binding:"omitempty,len=3"`
	Notes           *string `json:"notes"`
}

// SetRateCardRequest replaces a supplier's rate card
type SetRateCardRequest struct {
	Entries []RateCardEntryDTO `json:"entries" binding:"dive"`
}

// SupplierListFilter is the query filter for listing suppliers
type SupplierListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Email           string             `json:"email,omitempty"`
	Phone           string             `json:"phone,omitempty"`
	DefaultCurrency string             `json:"default_currency"`
	Notes           string             `json:"notes,omitempty"`
	RateCard        []RateCardEntryDTO `json:"rate_card"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Version         int                `json:"version"`
}

// ToSupplierResponse converts a domain supplier to a response
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	card := make([]RateCardEntryDTO, len(s.RateCard))
	for i, e := range s.RateCard {
		card[i] = RateCardEntryDTO{
			ServiceType: e.ServiceType,
			Unit:        e.Unit,
			Rate:        e.Rate,
			Currency:    e.Currency.String(),
		}
	}
	return SupplierResponse{
		ID:              s.ID,
		Name:            s.Name,
		Email:           s.Email,
		Phone:           s.Phone,
		DefaultCurrency: s.DefaultCurrency.String(),
		Notes:           s.Notes,
		RateCard:        card,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Version:         s.Version,
	}
}
