package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobledger/backend/internal/application/transaction"
	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/domain/shared"
)

// OutsourcingService handles subcontracting of jobs to suppliers, including
// the two-step delivery that books the supplier expense.
type OutsourcingService struct {
	jobRepo         production.JobRepository
	outsourcingRepo production.OutsourcingRepository
	supplierRepo    partner.SupplierRepository
	scope           transaction.Scope
	logger          *zap.Logger
	now             func() time.Time
}

// NewOutsourcingService creates a new OutsourcingService
func NewOutsourcingService(
	jobRepo production.JobRepository,
	outsourcingRepo production.OutsourcingRepository,
	supplierRepo partner.SupplierRepository,
	scope transaction.Scope,
	logger *zap.Logger,
) *OutsourcingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutsourcingService{
		jobRepo:         jobRepo,
		outsourcingRepo: outsourcingRepo,
		supplierRepo:    supplierRepo,
		scope:           scope,
		logger:          logger,
		now:             time.Now,
	}
}

// Create outsources part of a job and raises the job's has_outsourcing flag
func (s *OutsourcingService) Create(ctx context.Context, ownerID uuid.UUID, req CreateOutsourcingRequest) (*OutsourcingResponse, shared.ChangeSet, error) {
	var (
		record  *production.OutsourcingRecord
		changes shared.ChangeSet
	)

	terms, err := req.toDomain()
	if err != nil {
		return nil, changes, err
	}
	supplier, err := s.supplierRepo.FindByIDForOwner(ctx, ownerID, req.SupplierID)
	if err != nil {
		return nil, changes, err
	}

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		job, err := repos.Jobs().FindByIDForOwner(ctx, ownerID, req.JobID)
		if err != nil {
			return err
		}
		record, err = production.NewOutsourcingRecord(job, supplier, terms)
		if err != nil {
			return err
		}
		if err := repos.Outsourcing().Save(ctx, record); err != nil {
			return err
		}
		changes.TouchOutsourcing(record.ID)

		jobWritten, err := syncOutsourcingFlag(ctx, repos, ownerID, job.ID)
		if err != nil {
			return err
		}
		if jobWritten {
			changes.TouchJob(job.ID)
		}
		return nil
	})
	if err != nil {
		return nil, shared.ChangeSet{}, err
	}

	s.logger.Info("outsourcing created",
		zap.String("outsourcing_id", record.ID.String()),
		zap.String("job_id", record.JobID.String()),
		zap.String("supplier_id", record.SupplierID.String()),
	)

	response := ToOutsourcingResponse(record)
	return &response, changes, nil
}

// GetByID retrieves an outsourcing record
func (s *OutsourcingService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*OutsourcingResponse, error) {
	record, err := s.outsourcingRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	response := ToOutsourcingResponse(record)
	return &response, nil
}

// ListByJob lists every outsourcing record of a job, cancelled included
func (s *OutsourcingService) ListByJob(ctx context.Context, ownerID, jobID uuid.UUID) ([]OutsourcingResponse, error) {
	if _, err := s.jobRepo.FindByIDForOwner(ctx, ownerID, jobID); err != nil {
		return nil, err
	}
	records, err := s.outsourcingRepo.FindByJob(ctx, ownerID, jobID)
	if err != nil {
		return nil, err
	}
	responses := make([]OutsourcingResponse, len(records))
	for i := range records {
		responses[i] = ToOutsourcingResponse(&records[i])
	}
	return responses, nil
}

// List retrieves outsourcing records with filtering and pagination
func (s *OutsourcingService) List(ctx context.Context, ownerID uuid.UUID, filter OutsourcingListFilter) ([]OutsourcingResponse, int64, error) {
	domainFilter := production.OutsourcingFilter{
		Filter:     shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, ""),
		JobID:      filter.JobID,
		SupplierID: filter.SupplierID,
		Paid:       filter.Paid,
		ActiveOnly: filter.ActiveOnly,
	}
	if filter.Status != "" {
		status := production.OutsourcingStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("status", "Invalid outsourcing status: "+filter.Status)
		}
		domainFilter.Status = &status
	}

	records, total, err := s.outsourcingRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]OutsourcingResponse, len(records))
	for i := range records {
		responses[i] = ToOutsourcingResponse(&records[i])
	}
	return responses, total, nil
}

// Update edits the subcontract terms and recomputes the supplier total
func (s *OutsourcingService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateOutsourcingRequest) (*OutsourcingResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	terms, err := req.toDomain()
	if err != nil {
		return nil, changes, err
	}
	record, err := s.outsourcingRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, changes, err
	}
	if err := record.Update(terms); err != nil {
		return nil, changes, err
	}
	if err := s.outsourcingRepo.SaveWithLock(ctx, record); err != nil {
		return nil, changes, err
	}
	changes.TouchOutsourcing(record.ID)

	response := ToOutsourcingResponse(record)
	return &response, changes, nil
}

// SetStatus applies a status change. Delivered is never written here: the
// result carries a confirmation that must be passed to ConfirmDelivery.
func (s *OutsourcingService) SetStatus(ctx context.Context, ownerID, id uuid.UUID, req SetOutsourcingStatusRequest) (*SetStatusResult, shared.ChangeSet, error) {
	target := production.OutsourcingStatus(req.Status)
	if target == production.OutsourcingDelivered {
		confirmation, err := s.prepareDelivery(ctx, ownerID, id, req.MarkPaid)
		if err != nil {
			return nil, shared.ChangeSet{}, err
		}
		return &SetStatusResult{Confirmation: confirmation}, shared.ChangeSet{}, nil
	}

	var (
		record  *production.OutsourcingRecord
		moved   bool
		changes shared.ChangeSet
	)
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		found, err := repos.Outsourcing().FindByIDForOwner(ctx, ownerID, id)
		if err != nil {
			return err
		}
		record = found
		if moved, err = record.SetStatus(target); err != nil || !moved {
			return err
		}
		if err := repos.Outsourcing().SaveWithLock(ctx, record); err != nil {
			return err
		}
		changes.TouchOutsourcing(record.ID)

		if target == production.OutsourcingCancelled {
			jobWritten, err := syncOutsourcingFlag(ctx, repos, ownerID, record.JobID)
			if err != nil {
				return err
			}
			if jobWritten {
				changes.TouchJob(record.JobID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, shared.ChangeSet{}, err
	}

	response := ToOutsourcingResponse(record)
	return &SetStatusResult{Applied: moved, Record: &response}, changes, nil
}

func (s *OutsourcingService) prepareDelivery(ctx context.Context, ownerID, id uuid.UUID, markPaid bool) (*production.PendingExpenseConfirmation, error) {
	record, err := s.outsourcingRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindByIDForOwner(ctx, ownerID, record.JobID)
	if err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByIDForOwner(ctx, ownerID, record.SupplierID)
	if err != nil {
		return nil, err
	}
	return record.PrepareDelivery(job, supplier.Name, markPaid)
}

// ConfirmDelivery writes the delivered status and books the supplier expense
// atomically. The record must be unchanged since the confirmation was issued.
func (s *OutsourcingService) ConfirmDelivery(ctx context.Context, ownerID uuid.UUID, token production.PendingExpenseConfirmation, markPaid bool) (*DeliveryResult, shared.ChangeSet, error) {
	result, changes, err := s.confirmDelivery(ctx, ownerID, token, markPaid)
	if err != nil {
		s.logger.Warn("delivery confirmation failed",
			zap.String("outsourcing_id", token.RecordID.String()),
			zap.Error(err),
		)
		return nil, shared.ChangeSet{}, err
	}

	s.logger.Info("delivery confirmed",
		zap.String("outsourcing_id", result.Record.ID.String()),
		zap.String("expense_id", result.ExpenseID.String()),
		zap.String("amount", result.Amount.String()),
		zap.Bool("paid", markPaid),
	)
	return result, changes, nil
}

func (s *OutsourcingService) confirmDelivery(ctx context.Context, ownerID uuid.UUID, token production.PendingExpenseConfirmation, markPaid bool) (*DeliveryResult, shared.ChangeSet, error) {
	var (
		record  *production.OutsourcingRecord
		expense *finance.ExpenseRecord
		changes shared.ChangeSet
	)

	// Suppliers are read outside the transaction; the record is re-checked inside it.
	current, err := s.outsourcingRepo.FindByIDForOwner(ctx, ownerID, token.RecordID)
	if err != nil {
		return nil, changes, err
	}
	if !current.MatchesToken(&token) {
		return nil, changes, shared.ErrConcurrencyConflict
	}
	supplier, err := s.supplierRepo.FindByIDForOwner(ctx, ownerID, current.SupplierID)
	if err != nil {
		return nil, changes, err
	}

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		found, err := repos.Outsourcing().FindByIDForOwner(ctx, ownerID, token.RecordID)
		if err != nil {
			return err
		}
		record = found
		if !record.MatchesToken(&token) {
			return shared.ErrConcurrencyConflict
		}

		job, err := repos.Jobs().FindByIDForOwner(ctx, ownerID, record.JobID)
		if err != nil {
			return err
		}
		pending, err := record.PrepareDelivery(job, supplier.Name, markPaid)
		if err != nil {
			return err
		}

		expense, err = finance.NewDeliveryExpense(ownerID, record.ID, record.SupplierID, supplier.Name,
			pending.Amount, pending.Description, markPaid, s.now())
		if err != nil {
			return err
		}
		if err := record.MarkDelivered(markPaid, expense.ID); err != nil {
			return err
		}
		if err := repos.Outsourcing().SaveWithLock(ctx, record); err != nil {
			return err
		}
		if err := repos.Expenses().Save(ctx, expense); err != nil {
			return shared.NewAtomicityFailure(shared.ErrExpenseCreationFailed.Code, shared.ErrExpenseCreationFailed.Message, err)
		}
		changes.TouchOutsourcing(record.ID)
		changes.TouchExpense(expense.ID)
		return nil
	})
	if err != nil {
		return nil, shared.ChangeSet{}, err
	}

	return &DeliveryResult{Record: ToOutsourcingResponse(record), ExpenseID: expense.ID, Amount: expense.Money()}, changes, nil
}

// TogglePaid flips the supplier paid flag. The booked expense is left alone.
func (s *OutsourcingService) TogglePaid(ctx context.Context, ownerID, id uuid.UUID) (*OutsourcingResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	record, err := s.outsourcingRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, changes, err
	}
	record.TogglePaid()
	if err := s.outsourcingRepo.SaveWithLock(ctx, record); err != nil {
		return nil, changes, err
	}
	changes.TouchOutsourcing(record.ID)

	response := ToOutsourcingResponse(record)
	return &response, changes, nil
}

// Delete removes a record and recomputes the job's flag. Expenses booked by
// an earlier delivery stay in the ledger.
func (s *OutsourcingService) Delete(ctx context.Context, ownerID, id uuid.UUID) (shared.ChangeSet, error) {
	var changes shared.ChangeSet

	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		record, err := repos.Outsourcing().FindByIDForOwner(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if err := repos.Outsourcing().DeleteForOwner(ctx, ownerID, id); err != nil {
			return err
		}
		changes.TouchOutsourcing(id)

		jobWritten, err := syncOutsourcingFlag(ctx, repos, ownerID, record.JobID)
		if err != nil {
			return err
		}
		if jobWritten {
			changes.TouchJob(record.JobID)
		}
		return nil
	})
	if err != nil {
		return shared.ChangeSet{}, err
	}
	return changes, nil
}
