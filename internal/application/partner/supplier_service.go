package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/shared"
)

// SupplierService handles supplier and rate card operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// Create creates a new supplier, optionally with its rate card
func (s *SupplierService) Create(ctx context.Context, ownerID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	currency, err := parseCurrency("default_currency", req.DefaultCurrency)
	if err != nil {
		return nil, changes, err
	}
	supplier, err := partner.NewSupplier(ownerID, req.Name, currency)
	if err != nil {
		return nil, changes, err
	}
	if err := supplier.Update(req.Name, req.Email, req.Phone, req.Notes); err != nil {
		return nil, changes, err
	}
	if len(req.RateCard) > 0 {
		card, err := toRateCard(req.RateCard)
		if err != nil {
			return nil, changes, err
		}
		if err := supplier.SetRateCard(card); err != nil {
			return nil, changes, err
		}
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, changes, err
	}
	changes.TouchSupplier(supplier.ID)

	response := ToSupplierResponse(supplier)
	return &response, changes, nil
}

// GetByID retrieves a supplier with its rate card
func (s *SupplierService) GetByID(ctx context.Context, ownerID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForOwner(ctx, ownerID, supplierID)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers with pagination
func (s *SupplierService) List(ctx context.Context, ownerID uuid.UUID, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	domainFilter := partner.SupplierFilter{
		Filter: shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
	}
	suppliers, total, err := s.supplierRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a supplier
func (s *SupplierService) Update(ctx context.Context, ownerID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	supplier, err := s.supplierRepo.FindByIDForOwner(ctx, ownerID, supplierID)
	if err != nil {
		return nil, changes, err
	}

	name, email, phone, notes := supplier.Name, supplier.Email, supplier.Phone, supplier.Notes
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := supplier.Update(name, email, phone, notes); err != nil {
		return nil, changes, err
	}
	if req.DefaultCurrency != nil {
		currency, err := parseCurrency("default_currency", *req.DefaultCurrency)
		if err != nil {
			return nil, changes, err
		}
		if err := supplier.SetDefaultCurrency(currency); err != nil {
			return nil, changes, err
		}
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, changes, err
	}
	changes.TouchSupplier(supplier.ID)

	response := ToSupplierResponse(supplier)
	return &response, changes, nil
}

// SetRateCard replaces the supplier's rate card
func (s *SupplierService) SetRateCard(ctx context.Context, ownerID, supplierID uuid.UUID, req SetRateCardRequest) (*SupplierResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	supplier, err := s.supplierRepo.FindByIDForOwner(ctx, ownerID, supplierID)
	if err != nil {
		return nil, changes, err
	}
	card, err := toRateCard(req.Entries)
	if err != nil {
		return nil, changes, err
	}
	if err := supplier.SetRateCard(card); err != nil {
		return nil, changes, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, changes, err
	}
	changes.TouchSupplier(supplier.ID)

	response := ToSupplierResponse(supplier)
	return &response, changes, nil
}

// Delete deletes a supplier no outsourcing record references
func (s *SupplierService) Delete(ctx context.Context, ownerID, supplierID uuid.UUID) (shared.ChangeSet, error) {
	var changes shared.ChangeSet

	if _, err := s.supplierRepo.FindByIDForOwner(ctx, ownerID, supplierID); err != nil {
		return changes, err
	}
	inUse, err := s.supplierRepo.IsReferenced(ctx, ownerID, supplierID)
	if err != nil {
		return changes, err
	}
	if inUse {
		return changes, shared.NewDomainError("SUPPLIER_IN_USE", "Supplier is referenced by outsourcing records")
	}

	if err := s.supplierRepo.DeleteForOwner(ctx, ownerID, supplierID); err != nil {
		return changes, err
	}
	changes.TouchSupplier(supplierID)
	return changes, nil
}
