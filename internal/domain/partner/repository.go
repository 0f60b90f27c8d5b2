package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
)

// ClientFilter narrows client listings
type ClientFilter struct {
	shared.Filter
}

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByIDForOwner finds a client by ID within an owner's books
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Client, error)

	// FindAllForOwner lists clients
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter ClientFilter) ([]Client, int64, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error

	// DeleteForOwner deletes a client
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// IsReferenced reports whether any job, invoice or quote references the client
	IsReferenced(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
}

// SupplierFilter narrows supplier listings
type SupplierFilter struct {
	shared.Filter
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByIDForOwner finds a supplier (with its rate card) within an owner's books
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Supplier, error)

	// FindAllForOwner lists suppliers
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter SupplierFilter) ([]Supplier, int64, error)

	// Save creates or updates a supplier and replaces its rate card
	Save(ctx context.Context, supplier *Supplier) error

	// DeleteForOwner deletes a supplier
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// IsReferenced reports whether any outsourcing record references the supplier
	IsReferenced(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
}
