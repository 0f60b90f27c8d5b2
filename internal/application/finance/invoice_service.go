package finance

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

// InvoiceService generates invoices from finished jobs and manages their status
type InvoiceService struct {
	invoiceRepo finance.InvoiceRepository
	clientRepo  partner.ClientRepository
	scope       transaction.Scope
	logger      *zap.Logger
	now         func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	clientRepo partner.ClientRepository,
	scope transaction.Scope,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		scope:       scope,
		logger:      logger,
		now:         time.Now,
	}
}

// Generate consolidates the selected jobs into one draft invoice for the client.
// The invoice insert and every job lock commit together or not at all.
func (s *InvoiceService) Generate(ctx context.Context, ownerID uuid.UUID, req GenerateInvoiceRequest) (*InvoiceResponse, shared.ChangeSet, error) {
	if len(req.JobIDs) == 0 {
		return nil, shared.ChangeSet{}, shared.NewValidationError("job_ids", "At least one job is required")
	}
	if len(shared.DedupeIDs(req.JobIDs)) != len(req.JobIDs) {
		return nil, shared.ChangeSet{}, shared.NewValidationError("job_ids", "Job ids must not repeat")
	}

	var (
		invoice *finance.Invoice
		changes shared.ChangeSet
	)
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		jobs, err := loadSelection(ctx, repos, ownerID, req.JobIDs)
		if err != nil {
			return err
		}
		if err := checkSelection(jobs, req.ClientID); err != nil {
			return err
		}

		client, err := s.clientRepo.FindByIDForOwner(ctx, ownerID, req.ClientID)
		if err != nil {
			return err
		}

		items := make([]finance.LineItem, 0, len(jobs))
		for _, job := range jobs {
			item, err := finance.NewLineItem(job.Label(), one, job.TotalAmount)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		number, err := repos.Invoices().GenerateInvoiceNumber(ctx, ownerID)
		if err != nil {
			return err
		}
		issued := today(s.now)
		due := client.DueDateFrom(issued)
		invoice, err = finance.NewInvoice(ownerID, client.ID, number, jobs[0].Currency, items, issued, &due)
		if err != nil {
			return err
		}
		invoice.Notes = req.Notes
		if err := repos.Invoices().Save(ctx, invoice); err != nil {
			return err
		}
		changes.TouchInvoice(invoice.ID)

		for _, job := range jobs {
			if err := job.MarkInvoiced(invoice.ID); err != nil {
				return err
			}
			if err := repos.Jobs().SaveWithLock(ctx, job); err != nil {
				return err
			}
			invoice.LinkJob(job.ID)
			changes.TouchJob(job.ID)
		}
		return nil
	})
	if err != nil {
		return nil, shared.ChangeSet{}, err
	}

	s.logger.Info("invoice generated",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Int("jobs", len(invoice.JobIDs)),
		zap.String("total", invoice.TotalMoney().String()),
	)

	response := ToInvoiceResponse(invoice)
	return &response, changes, nil
}

// GetByID retrieves an invoice with its items and linked jobs
func (s *InvoiceService) GetByID(ctx context.Context, ownerID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, ownerID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := finance.InvoiceFilter{
		Filter:   shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		ClientID: filter.ClientID,
	}
	if filter.Status != "" {
		status := finance.InvoiceStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("status", "Invalid invoice status: "+filter.Status)
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

	invoices, total, err := s.invoiceRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// SetStatus changes an invoice's status. Setting the current status is a no-op.
func (s *InvoiceService) SetStatus(ctx context.Context, ownerID, invoiceID uuid.UUID, req SetInvoiceStatusRequest) (*InvoiceResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	invoice, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, changes, err
	}
	changed, err := invoice.SetStatus(finance.InvoiceStatus(req.Status))
	if err != nil {
		return nil, changes, err
	}
	if changed {
		if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
			return nil, changes, err
		}
		changes.TouchInvoice(invoice.ID)
	}

	response := ToInvoiceResponse(invoice)
	return &response, changes, nil
}

// BulkSetStatus applies SetStatus to each invoice independently
func (s *InvoiceService) BulkSetStatus(ctx context.Context, ownerID uuid.UUID, req BulkInvoiceStatusRequest) (*shared.BulkResult, error) {
	ids := shared.DedupeIDs(req.IDs)
	if len(ids) == 0 {
		return nil, shared.NewValidationError("ids", "At least one invoice is required")
	}

	result := shared.NewBulkResult()
	for _, id := range ids {
		_, changes, err := s.SetStatus(ctx, ownerID, id, SetInvoiceStatusRequest{Status: req.Status})
		if err != nil {
			result.Fail(id, err)
			continue
		}
		result.Succeed(id, changes)
	}
	return result, nil
}

// Delete removes an invoice and returns its jobs to finished in the same transaction
func (s *InvoiceService) Delete(ctx context.Context, ownerID, invoiceID uuid.UUID) (shared.ChangeSet, error) {
	var changes shared.ChangeSet

	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if _, err := repos.Invoices().FindByIDForOwner(ctx, ownerID, invoiceID); err != nil {
			return err
		}
		jobs, err := repos.Jobs().FindByInvoice(ctx, ownerID, invoiceID)
		if err != nil {
			return err
		}
		for i := range jobs {
			job := &jobs[i]
			if err := job.UnlinkInvoice(invoiceID); err != nil {
				return err
			}
			if err := repos.Jobs().SaveWithLock(ctx, job); err != nil {
				return err
			}
			changes.TouchJob(job.ID)
		}
		if err := repos.Invoices().DeleteForOwner(ctx, ownerID, invoiceID); err != nil {
			return err
		}
		changes.TouchInvoice(invoiceID)
		return nil
	})
	if err != nil {
		return shared.ChangeSet{}, err
	}

	s.logger.Info("invoice deleted",
		zap.String("invoice_id", invoiceID.String()),
		zap.Int("jobs_unlinked", len(changes.JobIDs)),
	)
	return changes, nil
}

// BulkDelete applies Delete to each invoice independently
func (s *InvoiceService) BulkDelete(ctx context.Context, ownerID uuid.UUID, req BulkIDsRequest) (*shared.BulkResult, error) {
	ids := shared.DedupeIDs(req.IDs)
	if len(ids) == 0 {
		return nil, shared.NewValidationError("ids", "At least one invoice is required")
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

// loadSelection returns the jobs in request order, or NotFound for the first
// id the owner does not have.
func loadSelection(ctx context.Context, repos transaction.Repositories, ownerID uuid.UUID, ids []uuid.UUID) ([]*production.Job, error) {
	found, err := repos.Jobs().FindByIDsForOwner(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*production.Job, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	jobs := make([]*production.Job, 0, len(ids))
	for _, id := range ids {
		job, ok := byID[id]
		if !ok {
			return nil, shared.NewNotFoundError("job", id)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// checkSelection validates the selection as a whole (client, then currency
// homogeneity) before the state of each job
func checkSelection(jobs []*production.Job, clientID uuid.UUID) error {
	for _, job := range jobs {
		if job.ClientID != clientID {
			return shared.ErrMixedClientSelection
		}
	}
	for _, job := range jobs[1:] {
		if job.Currency != jobs[0].Currency {
			return shared.ErrMixedCurrencySelection
		}
	}
	for _, job := range jobs {
		if !job.IsInvoiceable() {
			return shared.NewDomainError("JOB_NOT_INVOICEABLE",
				"Job "+job.JobCode+" cannot be invoiced in status "+job.Status.String())
		}
	}
	return nil
}
