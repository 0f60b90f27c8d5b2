package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOutsourcingRepository implements OutsourcingRepository using GORM
type GormOutsourcingRepository struct {
	db *gorm.DB
}

// NewGormOutsourcingRepository creates a new GormOutsourcingRepository
func NewGormOutsourcingRepository(db *gorm.DB) *GormOutsourcingRepository {
	return &GormOutsourcingRepository{db: db}
}

// FindByIDForOwner finds a record by ID within an owner's books
func (r *GormOutsourcingRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*production.OutsourcingRecord, error) {
	var model models.OutsourcingRecordModel
	if err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByJob lists all records of a job, cancelled included
func (r *GormOutsourcingRepository) FindByJob(ctx context.Context, ownerID, jobID uuid.UUID) ([]production.OutsourcingRecord, error) {
	var rows []models.OutsourcingRecordModel
	if err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Where("job_id = ?", jobID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return outsourcingToDomain(rows), nil
}

// FindAllForOwner lists records with pagination and returns the total count
func (r *GormOutsourcingRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter production.OutsourcingFilter) ([]production.OutsourcingRecord, int64, error) {
	rows, total, err := findPage[models.OutsourcingRecordModel](r.db.WithContext(ctx), outsourcingFilterScope(ownerID, filter),
		orderClause(filter.Filter, OutsourcingSortFields, "created_at"), filter.Filter)
	if err != nil {
		return nil, 0, err
	}
	return outsourcingToDomain(rows), total, nil
}

// FindMatching returns every record matching the filter, ignoring pagination
func (r *GormOutsourcingRepository) FindMatching(ctx context.Context, ownerID uuid.UUID, filter production.OutsourcingFilter) ([]production.OutsourcingRecord, error) {
	var rows []models.OutsourcingRecordModel
	if err := r.db.WithContext(ctx).
		Scopes(outsourcingFilterScope(ownerID, filter)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return outsourcingToDomain(rows), nil
}

func outsourcingFilterScope(ownerID uuid.UUID, filter production.OutsourcingFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(OwnerScope(ownerID), searchScope(filter.Search, "service_type", "notes"))
		if filter.JobID != nil {
			db = db.Where("job_id = ?", *filter.JobID)
		}
		if filter.SupplierID != nil {
			db = db.Where("supplier_id = ?", *filter.SupplierID)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		if filter.Paid != nil {
			db = db.Where("paid = ?", *filter.Paid)
		}
		if filter.ActiveOnly {
			db = db.Where("status <> ?", production.OutsourcingCancelled)
		}
		return db
	}
}

// Save inserts a new record
func (r *GormOutsourcingRepository) Save(ctx context.Context, record *production.OutsourcingRecord) error {
	return r.db.WithContext(ctx).Create(models.OutsourcingRecordModelFromDomain(record)).Error
}

// SaveWithLock updates a record if its stored version still matches
func (r *GormOutsourcingRepository) SaveWithLock(ctx context.Context, record *production.OutsourcingRecord) error {
	model := models.OutsourcingRecordModelFromDomain(record)
	model.Version = record.Version + 1
	if err := lockedUpdate(r.db.WithContext(ctx), model, record.OwnerID, record.ID, record.Version); err != nil {
		return err
	}
	record.IncrementVersion()
	return nil
}

// DeleteForOwner deletes a record
func (r *GormOutsourcingRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.OutsourcingRecordModel{}, ownerID, id)
}

// DeleteByJob deletes every record of a job and returns the deleted IDs
func (r *GormOutsourcingRepository) DeleteByJob(ctx context.Context, ownerID, jobID uuid.UUID) ([]uuid.UUID, error) {
	db := r.db.WithContext(ctx)
	var ids []uuid.UUID
	if err := db.Model(&models.OutsourcingRecordModel{}).
		Scopes(OwnerScope(ownerID)).
		Where("job_id = ?", jobID).
		Order("created_at ASC, id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}
	if err := db.Scopes(OwnerScope(ownerID)).
		Where("id IN ?", ids).
		Delete(&models.OutsourcingRecordModel{}).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func outsourcingToDomain(rows []models.OutsourcingRecordModel) []production.OutsourcingRecord {
	records := make([]production.OutsourcingRecord, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records
}

var _ production.OutsourcingRepository = (*GormOutsourcingRepository)(nil)
