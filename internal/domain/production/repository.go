package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
)

// JobFilter narrows job listings
type JobFilter struct {
	shared.Filter
	ClientID    *uuid.UUID
	Status      *JobStatus
	Currency    *valueobject.Currency
	InvoiceID   *uuid.UUID
	Uninvoiced  bool
	DueDateFrom *time.Time
	DueDateTo   *time.Time
}

// JobRepository defines the interface for job persistence
type JobRepository interface {
	// FindByIDForOwner finds a job by ID within an owner's books
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Job, error)

	// FindByIDsForOwner finds the jobs with the given IDs; missing IDs are simply absent
	FindByIDsForOwner(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]Job, error)

	// FindAllForOwner lists jobs with pagination and returns the total count
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter JobFilter) ([]Job, int64, error)

	// FindByInvoice finds the jobs consumed by an invoice
	FindByInvoice(ctx context.Context, ownerID, invoiceID uuid.UUID) ([]Job, error)

	// Save inserts a new job
	Save(ctx context.Context, job *Job) error

	// SaveWithLock updates a job if its stored version still matches
	SaveWithLock(ctx context.Context, job *Job) error

	// DeleteForOwner deletes a job
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// GenerateJobCode returns the next job code for the owner
	GenerateJobCode(ctx context.Context, ownerID uuid.UUID) (string, error)
}

// OutsourcingFilter narrows outsourcing listings
type OutsourcingFilter struct {
	shared.Filter
	JobID      *uuid.UUID
	SupplierID *uuid.UUID
	Status     *OutsourcingStatus
	Paid       *bool
	ActiveOnly bool
}

// OutsourcingRepository defines the interface for outsourcing persistence
type OutsourcingRepository interface {
	// FindByIDForOwner finds a record by ID within an owner's books
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*OutsourcingRecord, error)

	// FindByJob lists all records of a job, cancelled included
	FindByJob(ctx context.Context, ownerID, jobID uuid.UUID) ([]OutsourcingRecord, error)

	// FindAllForOwner lists records with pagination and returns the total count
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter OutsourcingFilter) ([]OutsourcingRecord, int64, error)

	// FindMatching returns every record matching the filter, ignoring pagination
	FindMatching(ctx context.Context, ownerID uuid.UUID, filter OutsourcingFilter) ([]OutsourcingRecord, error)

	// Save inserts a new record
	Save(ctx context.Context, record *OutsourcingRecord) error

	// SaveWithLock updates a record if its stored version still matches
	SaveWithLock(ctx context.Context, record *OutsourcingRecord) error

	// DeleteForOwner deletes a record
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// DeleteByJob deletes every record of a job and returns the deleted IDs
	DeleteByJob(ctx context.Context, ownerID, jobID uuid.UUID) ([]uuid.UUID, error)
}
