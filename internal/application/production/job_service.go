package production

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobledger/backend/internal/application/transaction"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/domain/shared"
)

// JobService handles job lifecycle operations
type JobService struct {
	jobRepo    production.JobRepository
	clientRepo partner.ClientRepository
	scope      transaction.Scope
	logger     *zap.Logger
}

// NewJobService creates a new JobService
func NewJobService(
	jobRepo production.JobRepository,
	clientRepo partner.ClientRepository,
	scope transaction.Scope,
	logger *zap.Logger,
) *JobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobService{
		jobRepo:    jobRepo,
		clientRepo: clientRepo,
		scope:      scope,
		logger:     logger,
	}
}

// Create creates a job for an existing client
func (s *JobService) Create(ctx context.Context, ownerID uuid.UUID, req CreateJobRequest) (*JobResponse, shared.ChangeSet, error) {
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

	code, err := s.jobRepo.GenerateJobCode(ctx, ownerID)
	if err != nil {
		return nil, changes, err
	}

	job, err := production.NewJob(ownerID, client.ID, code, req.Title, req.ServiceType, production.Pricing{
		Type:       production.PricingType(req.PricingType),
		Quantity:   req.Quantity,
		Rate:       req.Rate,
		FlatAmount: req.FlatAmount,
		Currency:   currency,
	})
	if err != nil {
		return nil, changes, err
	}
	job.DueDate = req.DueDate
	job.Notes = req.Notes

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, changes, err
	}
	changes.TouchJob(job.ID)

	s.logger.Info("job created",
		zap.String("job_id", job.ID.String()),
		zap.String("job_code", job.JobCode),
		zap.String("total", job.Total().String()),
	)

	response := ToJobResponse(job)
	return &response, changes, nil
}

// GetByID retrieves a job
func (s *JobService) GetByID(ctx context.Context, ownerID, jobID uuid.UUID) (*JobResponse, error) {
	job, err := s.jobRepo.FindByIDForOwner(ctx, ownerID, jobID)
	if err != nil {
		return nil, err
	}
	response := ToJobResponse(job)
	return &response, nil
}

// List retrieves jobs with filtering and pagination
func (s *JobService) List(ctx context.Context, ownerID uuid.UUID, filter JobListFilter) ([]JobResponse, int64, error) {
	domainFilter := production.JobFilter{
		Filter:      shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		ClientID:    filter.ClientID,
		Uninvoiced:  filter.Uninvoiced,
		DueDateFrom: filter.DueDateFrom,
		DueDateTo:   filter.DueDateTo,
	}
	if filter.Status != "" {
		status := production.JobStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("status", "Invalid job status: "+filter.Status)
		}
		domainFilter.Status = &status
	}
	if filter.Currency != "" {
		currency, err := parseCurrency("currency", filter.Currency)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Currency = &currency
	}

	jobs, total, err := s.jobRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]JobResponse, len(jobs))
	for i := range jobs {
		responses[i] = ToJobResponse(&jobs[i])
	}
	return responses, total, nil
}

// Update applies a partial update. Invoiced jobs refuse every change.
func (s *JobService) Update(ctx context.Context, ownerID, jobID uuid.UUID, req UpdateJobRequest) (*JobResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	job, err := s.jobRepo.FindByIDForOwner(ctx, ownerID, jobID)
	if err != nil {
		return nil, changes, err
	}

	if req.touchesDetails() {
		details := production.JobDetails{
			ClientID:    job.ClientID,
			Title:       job.Title,
			ServiceType: job.ServiceType,
			DueDate:     job.DueDate,
			Notes:       job.Notes,
		}
		if req.ClientID != nil && *req.ClientID != job.ClientID {
			if _, err := s.clientRepo.FindByIDForOwner(ctx, ownerID, *req.ClientID); err != nil {
				return nil, changes, err
			}
			details.ClientID = *req.ClientID
		}
		if req.Title != nil {
			details.Title = *req.Title
		}
		if req.ServiceType != nil {
			details.ServiceType = *req.ServiceType
		}
		if req.DueDate != nil {
			details.DueDate = req.DueDate
		}
		if req.Notes != nil {
			details.Notes = *req.Notes
		}
		if err := job.UpdateDetails(details); err != nil {
			return nil, changes, err
		}
	}

	if req.touchesPricing() {
		pricing, err := mergePricing(job, req)
		if err != nil {
			return nil, changes, err
		}
		if err := job.UpdatePricing(pricing); err != nil {
			return nil, changes, err
		}
	}

	if err := s.jobRepo.SaveWithLock(ctx, job); err != nil {
		return nil, changes, err
	}
	changes.TouchJob(job.ID)

	response := ToJobResponse(job)
	return &response, changes, nil
}

// Transition moves a job to a new status. Cancelling a job cancels its open
// outsourcing records in the same transaction.
func (s *JobService) Transition(ctx context.Context, ownerID, jobID uuid.UUID, req TransitionJobRequest) (*JobResponse, shared.ChangeSet, error) {
	target := production.JobStatus(req.Status)
	var (
		job     *production.Job
		changes shared.ChangeSet
		from    production.JobStatus
	)

	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		found, err := repos.Jobs().FindByIDForOwner(ctx, ownerID, jobID)
		if err != nil {
			return err
		}
		job, from = found, found.Status

		moved, err := job.Transition(target)
		if err != nil || !moved {
			return err
		}
		if target == production.JobStatusCancelled {
			cancelled, err := cancelJobOutsourcing(ctx, repos, job)
			if err != nil {
				return err
			}
			changes.TouchOutsourcing(cancelled...)
		}
		if err := repos.Jobs().SaveWithLock(ctx, job); err != nil {
			return err
		}
		changes.TouchJob(job.ID)
		return nil
	})
	if err != nil {
		return nil, shared.ChangeSet{}, err
	}

	if !changes.IsEmpty() {
		s.logger.Info("job status changed",
			zap.String("job_id", job.ID.String()),
			zap.String("from", from.String()),
			zap.String("to", job.Status.String()),
			zap.Int("outsourcing_cancelled", len(changes.OutsourcingIDs)),
		)
	}

	response := ToJobResponse(job)
	return &response, changes, nil
}

// BulkSetStatus applies Transition to each job independently
func (s *JobService) BulkSetStatus(ctx context.Context, ownerID uuid.UUID, req BulkJobStatusRequest) (*shared.BulkResult, error) {
	ids := shared.DedupeIDs(req.IDs)
	if len(ids) == 0 {
		return nil, shared.NewValidationError("ids", "At least one job is required")
	}

	result := shared.NewBulkResult()
	for _, id := range ids {
		_, changes, err := s.Transition(ctx, ownerID, id, TransitionJobRequest{Status: req.Status})
		if err != nil {
			result.Fail(id, err)
			continue
		}
		result.Succeed(id, changes)
	}
	return result, nil
}

// Delete deletes a job and its outsourcing records. Invoiced jobs are refused.
func (s *JobService) Delete(ctx context.Context, ownerID, jobID uuid.UUID) (shared.ChangeSet, error) {
	var changes shared.ChangeSet

	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		job, err := repos.Jobs().FindByIDForOwner(ctx, ownerID, jobID)
		if err != nil {
			return err
		}
		if err := job.EnsureDeletable(); err != nil {
			return err
		}
		removed, err := repos.Outsourcing().DeleteByJob(ctx, ownerID, jobID)
		if err != nil {
			return err
		}
		if err := repos.Jobs().DeleteForOwner(ctx, ownerID, jobID); err != nil {
			return err
		}
		changes.TouchJob(jobID)
		changes.TouchOutsourcing(removed...)
		return nil
	})
	if err != nil {
		return shared.ChangeSet{}, err
	}

	s.logger.Info("job deleted",
		zap.String("job_id", jobID.String()),
		zap.Int("outsourcing_removed", len(changes.OutsourcingIDs)),
	)
	return changes, nil
}

// BulkDelete applies Delete to each job independently
func (s *JobService) BulkDelete(ctx context.Context, ownerID uuid.UUID, req BulkIDsRequest) (*shared.BulkResult, error) {
	ids := shared.DedupeIDs(req.IDs)
	if len(ids) == 0 {
		return nil, shared.NewValidationError("ids", "At least one job is required")
	}

	result := shared.NewBulkResult()
	for _, id := range ids {
		changes, err := s.Delete(ctx, ownerID, id)
		if err != nil {
			result.Fail(id, err)
			continue
		}
		result.Succeed(id, changes)
	}
	return result, nil
}

// mergePricing overlays the request's pricing fields on the job's current ones
func mergePricing(job *production.Job, req UpdateJobRequest) (production.Pricing, error) {
	pricing := production.Pricing{
		Type:     job.PricingType,
		Quantity: job.Quantity,
		Rate:     job.Rate,
		Currency: job.Currency,
	}
	if req.PricingType != nil {
		pricing.Type = production.PricingType(*req.PricingType)
	}
	if req.Quantity != nil {
		pricing.Quantity = req.Quantity
	}
	if req.Rate != nil {
		pricing.Rate = req.Rate
	}
	if req.Currency != nil {
		currency, err := parseCurrency("currency", *req.Currency)
		if err != nil {
			return pricing, err
		}
		pricing.Currency = currency
	}

	switch {
	case req.FlatAmount != nil:
		pricing.FlatAmount = req.FlatAmount
	case pricing.Type == production.PricingFlatFee && job.PricingType == production.PricingFlatFee:
		flat := job.TotalAmount
		pricing.FlatAmount = &flat
	}
	return pricing, nil
}
