package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSupplierRepository implements SupplierRepository using GORM.
// The rate card is stored in supplier_rates and loaded with the supplier.
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

func preloadRates(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByIDForOwner finds a supplier with its rate card
func (r *GormSupplierRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := r.db.WithContext(ctx).
		Preload("Rates", preloadRates).
		Scopes(OwnerScope(ownerID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForOwner lists suppliers with their rate cards
func (r *GormSupplierRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter partner.SupplierFilter) ([]partner.Supplier, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		return db.Scopes(OwnerScope(ownerID), searchScope(filter.Search, "name", "email"))
	}
	withRates := func(db *gorm.DB) *gorm.DB { return db.Preload("Rates", preloadRates) }
	rows, total, err := findPage[models.SupplierModel](r.db.WithContext(ctx), where,
		orderClause(filter.Filter, SupplierSortFields, "name"), filter.Filter, withRates)
	if err != nil {
		return nil, 0, err
	}

	suppliers := make([]partner.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = *rows[i].ToDomain()
	}
	return suppliers, total, nil
}

// Save upserts the supplier row and replaces its rate card
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	model := models.SupplierModelFromDomain(supplier)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("supplier_id = ?", supplier.ID).Delete(&models.SupplierRateModel{}).Error; err != nil {
			return err
		}
		if len(model.Rates) == 0 {
			return nil
		}
		return tx.Create(&model.Rates).Error
	})
}

// DeleteForOwner deletes a supplier and its rate card
func (r *GormSupplierRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteOwned(tx, &models.SupplierModel{}, ownerID, id); err != nil {
			return err
		}
		return tx.Where("supplier_id = ?", id).Delete(&models.SupplierRateModel{}).Error
	})
}

// IsReferenced reports whether any outsourcing record references the supplier
func (r *GormSupplierRepository) IsReferenced(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OutsourcingRecordModel{}).
		Scopes(OwnerScope(ownerID)).
		Where("supplier_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
