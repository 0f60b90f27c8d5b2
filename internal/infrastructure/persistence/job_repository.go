package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormJobRepository implements JobRepository using GORM
type GormJobRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db, now: time.Now}
}

// FindByIDForOwner finds a job by ID within an owner's books
func (r *GormJobRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*production.Job, error) {
	var model models.JobModel
	if err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDsForOwner finds the jobs with the given IDs; missing IDs are simply absent
func (r *GormJobRepository) FindByIDsForOwner(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]production.Job, error) {
	if len(ids) == 0 {
		return []production.Job{}, nil
	}
	var rows []models.JobModel
	if err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return jobsToDomain(rows), nil
}

// FindAllForOwner lists jobs with pagination and returns the total count
func (r *GormJobRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter production.JobFilter) ([]production.Job, int64, error) {
	rows, total, err := findPage[models.JobModel](r.db.WithContext(ctx), jobFilterScope(ownerID, filter),
		orderClause(filter.Filter, JobSortFields, "created_at"), filter.Filter)
	if err != nil {
		return nil, 0, err
	}
	return jobsToDomain(rows), total, nil
}

func jobFilterScope(ownerID uuid.UUID, filter production.JobFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(OwnerScope(ownerID), searchScope(filter.Search, "title", "job_code"))
		if filter.ClientID != nil {
			db = db.Where("client_id = ?", *filter.ClientID)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		if filter.Currency != nil {
			db = db.Where("currency = ?", *filter.Currency)
		}
		if filter.InvoiceID != nil {
			db = db.Where("invoice_id = ?", *filter.InvoiceID)
		}
		if filter.Uninvoiced {
			db = db.Where("invoice_id IS NULL")
		}
		if filter.DueDateFrom != nil {
			db = db.Where("due_date >= ?", *filter.DueDateFrom)
		}
		if filter.DueDateTo != nil {
			db = db.Where("due_date <= ?", *filter.DueDateTo)
		}
		return db
	}
}

// FindByInvoice finds the jobs consumed by an invoice
func (r *GormJobRepository) FindByInvoice(ctx context.Context, ownerID, invoiceID uuid.UUID) ([]production.Job, error) {
	var rows []models.JobModel
	if err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Where("invoice_id = ?", invoiceID).
		Order("job_code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return jobsToDomain(rows), nil
}

// Save inserts a new job
func (r *GormJobRepository) Save(ctx context.Context, job *production.Job) error {
	return r.db.WithContext(ctx).Create(models.JobModelFromDomain(job)).Error
}

// SaveWithLock updates a job if its stored version still matches
func (r *GormJobRepository) SaveWithLock(ctx context.Context, job *production.Job) error {
	model := models.JobModelFromDomain(job)
	model.Version = job.Version + 1
	if err := lockedUpdate(r.db.WithContext(ctx), model, job.OwnerID, job.ID, job.Version); err != nil {
		return err
	}
	job.IncrementVersion()
	return nil
}

// DeleteForOwner deletes a job
func (r *GormJobRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.JobModel{}, ownerID, id)
}

// GenerateJobCode returns the next job code for the owner, e.g. JOB-202610-00001
func (r *GormJobRepository) GenerateJobCode(ctx context.Context, ownerID uuid.UUID) (string, error) {
	return nextNumber(r.db.WithContext(ctx), "jobs", "job_code", "JOB", ownerID, r.now())
}

func jobsToDomain(rows []models.JobModel) []production.Job {
	jobs := make([]production.Job, len(rows))
	for i := range rows {
		jobs[i] = *rows[i].ToDomain()
	}
	return jobs
}

var _ production.JobRepository = (*GormJobRepository)(nil)
