package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/shared"
)

// QuoteService manages client quotes
type QuoteService struct {
	quoteRepo  finance.QuoteRepository
	clientRepo partner.ClientRepository
	now        func() time.Time
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(quoteRepo finance.QuoteRepository, clientRepo partner.ClientRepository) *QuoteService {
	return &QuoteService{
		quoteRepo:  quoteRepo,
		clientRepo: clientRepo,
		now:        time.Now,
	}
}

// Create drafts a quote. The currency defaults to the client's.
func (s *QuoteService) Create(ctx context.Context, ownerID uuid.UUID, req CreateQuoteRequest) (*QuoteResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	client, err := s.clientRepo.FindByIDForOwner(ctx, ownerID, req.ClientID)
	if err != nil {
		return nil, changes, err
	}
	currency := client.DefaultCurrency
	if req.Currency != "" {
		if currency, err = parseCurrency("currency", req.Currency); err != nil {
			return nil, changes, err
		}
	}
	items, err := toLineItems(req.Items)
	if err != nil {
		return nil, changes, err
	}

	number, err := s.quoteRepo.GenerateQuoteNumber(ctx, ownerID)
	if err != nil {
		return nil, changes, err
	}
	quote, err := finance.NewQuote(ownerID, client.ID, number, currency, items, taxOrZero(req.TaxAmount), today(s.now), req.ValidUntil)
	if err != nil {
		return nil, changes, err
	}
	quote.Notes = req.Notes

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, changes, err
	}
	changes.TouchQuote(quote.ID)

	response := ToQuoteResponse(quote)
	return &response, changes, nil
}

// GetByID retrieves a quote
func (s *QuoteService) GetByID(ctx context.Context, ownerID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForOwner(ctx, ownerID, quoteID)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// List retrieves quotes with filtering and pagination
func (s *QuoteService) List(ctx context.Context, ownerID uuid.UUID, filter QuoteListFilter) ([]QuoteResponse, int64, error) {
	domainFilter := finance.QuoteFilter{
		Filter:   shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		ClientID: filter.ClientID,
	}
	if filter.Status != "" {
		status := finance.QuoteStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("status", "Invalid quote status: "+filter.Status)
		}
		domainFilter.Status = &status
	}

	quotes, total, err := s.quoteRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToQuoteResponse(&quotes[i])
	}
	return responses, total, nil
}

// Update replaces the lines of a draft quote
func (s *QuoteService) Update(ctx context.Context, ownerID, quoteID uuid.UUID, req UpdateQuoteRequest) (*QuoteResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	quote, err := s.quoteRepo.FindByIDForOwner(ctx, ownerID, quoteID)
	if err != nil {
		return nil, changes, err
	}
	items, err := toLineItems(req.Items)
	if err != nil {
		return nil, changes, err
	}
	tax := quote.TaxAmount
	if req.TaxAmount != nil {
		tax = *req.TaxAmount
	}
	if err := quote.ReplaceItems(items, tax); err != nil {
		return nil, changes, err
	}
	if req.ValidUntil != nil {
		quote.ValidUntil = req.ValidUntil
	}
	if req.Notes != nil {
		quote.Notes = *req.Notes
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, changes, err
	}
	changes.TouchQuote(quote.ID)

	response := ToQuoteResponse(quote)
	return &response, changes, nil
}

// SetStatus moves a quote along its lifecycle
func (s *QuoteService) SetStatus(ctx context.Context, ownerID, quoteID uuid.UUID, req SetQuoteStatusRequest) (*QuoteResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	quote, err := s.quoteRepo.FindByIDForOwner(ctx, ownerID, quoteID)
	if err != nil {
		return nil, changes, err
	}
	changed, err := quote.SetStatus(finance.QuoteStatus(req.Status))
	if err != nil {
		return nil, changes, err
	}
	if changed {
		if err := s.quoteRepo.Save(ctx, quote); err != nil {
			return nil, changes, err
		}
		changes.TouchQuote(quote.ID)
	}

	response := ToQuoteResponse(quote)
	return &response, changes, nil
}

// Delete deletes a quote
func (s *QuoteService) Delete(ctx context.Context, ownerID, quoteID uuid.UUID) (shared.ChangeSet, error) {
	var changes shared.ChangeSet

	if _, err := s.quoteRepo.FindByIDForOwner(ctx, ownerID, quoteID); err != nil {
		return changes, err
	}
	if err := s.quoteRepo.DeleteForOwner(ctx, ownerID, quoteID); err != nil {
		return changes, err
	}
	changes.TouchQuote(quoteID)
	return changes, nil
}

func taxOrZero(tax *decimal.Decimal) decimal.Decimal {
	if tax == nil {
		return decimal.Zero
	}
	return *tax
}
