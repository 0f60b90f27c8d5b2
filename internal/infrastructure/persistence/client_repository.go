package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByIDForOwner finds a client by ID within an owner's books
func (r *GormClientRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*partner.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForOwner lists clients with pagination and returns the total count
func (r *GormClientRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter partner.ClientFilter) ([]partner.Client, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		return db.Scopes(OwnerScope(ownerID), searchScope(filter.Search, "name", "email"))
	}
	rows, total, err := findPage[models.ClientModel](r.db.WithContext(ctx), where,
		orderClause(filter.Filter, ClientSortFields, "name"), filter.Filter)
	if err != nil {
		return nil, 0, err
	}

	clients := make([]partner.Client, len(rows))
	for i := range rows {
		clients[i] = *rows[i].ToDomain()
	}
	return clients, total, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return r.db.WithContext(ctx).Save(models.ClientModelFromDomain(client)).Error
}

// DeleteForOwner deletes a client
func (r *GormClientRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.ClientModel{}, ownerID, id)
}

// IsReferenced reports whether any job, invoice or quote references the client
func (r *GormClientRepository) IsReferenced(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	for _, model := range []any{&models.JobModel{}, &models.InvoiceModel{}, &models.QuoteModel{}} {
		var count int64
		if err := r.db.WithContext(ctx).Model(model).
			Scopes(OwnerScope(ownerID)).
			Where("client_id = ?", id).
			Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

var _ partner.ClientRepository = (*GormClientRepository)(nil)
