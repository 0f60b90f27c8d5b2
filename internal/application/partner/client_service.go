package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/shared"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo partner.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, ownerID uuid.UUID, req CreateClientRequest) (*ClientResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	currency, err := parseCurrency("default_currency", req.DefaultCurrency)
	if err != nil {
		return nil, changes, err
	}
	client, err := partner.NewClient(ownerID, req.Name, currency)
	if err != nil {
		return nil, changes, err
	}
	if err := client.Update(req.Name, req.Email, req.Phone, req.Address, req.Notes); err != nil {
		return nil, changes, err
	}
	if req.PaymentTermsDays != nil {
		if err := client.SetPaymentTerms(*req.PaymentTermsDays); err != nil {
			return nil, changes, err
		}
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, changes, err
	}
	changes.TouchClient(client.ID)

	response := ToClientResponse(client)
	return &response, changes, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, ownerID, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForOwner(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves clients with pagination
func (s *ClientService) List(ctx context.Context, ownerID uuid.UUID, filter ClientListFilter) ([]ClientResponse, int64, error) {
	domainFilter := partner.ClientFilter{
		Filter: shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
	}
	clients, total, err := s.clientRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a client
func (s *ClientService) Update(ctx context.Context, ownerID, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	client, err := s.clientRepo.FindByIDForOwner(ctx, ownerID, clientID)
	if err != nil {
		return nil, changes, err
	}

	name, email, phone, address, notes := client.Name, client.Email, client.Phone, client.Address, client.Notes
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := client.Update(name, email, phone, address, notes); err != nil {
		return nil, changes, err
	}

	if req.DefaultCurrency != nil {
		currency, err := parseCurrency("default_currency", *req.DefaultCurrency)
		if err != nil {
			return nil, changes, err
		}
		if err := client.SetDefaultCurrency(currency); err != nil {
			return nil, changes, err
		}
	}
	if req.PaymentTermsDays != nil {
		if err := client.SetPaymentTerms(*req.PaymentTermsDays); err != nil {
			return nil, changes, err
		}
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, changes, err
	}
	changes.TouchClient(client.ID)

	response := ToClientResponse(client)
	return &response, changes, nil
}

// Delete deletes a client that no job, invoice or quote references
func (s *ClientService) Delete(ctx context.Context, ownerID, clientID uuid.UUID) (shared.ChangeSet, error) {
	var changes shared.ChangeSet

	if _, err := s.clientRepo.FindByIDForOwner(ctx, ownerID, clientID); err != nil {
		return changes, err
	}
	inUse, err := s.clientRepo.IsReferenced(ctx, ownerID, clientID)
	if err != nil {
		return changes, err
	}
	if inUse {
		return changes, shared.NewDomainError("CLIENT_IN_USE", "Client is referenced by jobs, invoices or quotes")
	}

	if err := s.clientRepo.DeleteForOwner(ctx, ownerID, clientID); err != nil {
		return changes, err
	}
	changes.TouchClient(clientID)
	return changes, nil
}
