package finance

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/shared"
)

// AllowedReceiptTypes is the whitelist of receipt upload content types
var AllowedReceiptTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/heic":      true,
	"application/pdf": true,
}

// ReceiptStorage issues presigned URLs against the object store holding receipts.
// Implemented by infrastructure/storage.
type ReceiptStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// ExpenseServiceConfig holds receipt URL lifetimes
type ExpenseServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultExpenseServiceConfig returns the default configuration
func DefaultExpenseServiceConfig() ExpenseServiceConfig {
	return ExpenseServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// ExpenseService handles the payables ledger
type ExpenseService struct {
	expenseRepo  finance.ExpenseRecordRepository
	supplierRepo partner.SupplierRepository
	storage      ReceiptStorage
	config       ExpenseServiceConfig
	logger       *zap.Logger
	now          func() time.Time
}

// NewExpenseService creates a new ExpenseService. storage may be nil, in which
// case receipt operations fail with RECEIPTS_DISABLED.
func NewExpenseService(
	expenseRepo finance.ExpenseRecordRepository,
	supplierRepo partner.SupplierRepository,
	storage ReceiptStorage,
	config ExpenseServiceConfig,
	logger *zap.Logger,
) *ExpenseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		supplierRepo: supplierRepo,
		storage:      storage,
		config:       config,
		logger:       logger,
		now:          time.Now,
	}
}

// Create records a manual expense. A known supplier fills the supplier name.
func (s *ExpenseService) Create(ctx context.Context, ownerID uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	currency, err := parseCurrency("currency", req.Currency)
	if err != nil {
		return nil, changes, err
	}
	in := finance.ExpenseInput{
		Category:     finance.ExpenseCategory(req.Category),
		Amount:       req.Amount,
		Currency:     currency,
		Date:         req.Date,
		DueDate:      req.DueDate,
		SupplierID:   req.SupplierID,
		SupplierName: req.SupplierName,
		Notes:        req.Notes,
		Paid:         req.Paid,
	}
	if err := s.resolveSupplier(ctx, ownerID, &in); err != nil {
		return nil, changes, err
	}

	expense, err := finance.NewExpenseRecord(ownerID, in)
	if err != nil {
		return nil, changes, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, changes, err
	}
	changes.TouchExpense(expense.ID)

	response := ToExpenseResponse(expense, s.now())
	return &response, changes, nil
}

// GetByID retrieves an expense
func (s *ExpenseService) GetByID(ctx context.Context, ownerID, expenseID uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForOwner(ctx, ownerID, expenseID)
	if err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense, s.now())
	return &response, nil
}

// List retrieves expenses. The classification filter is evaluated as of today.
func (s *ExpenseService) List(ctx context.Context, ownerID uuid.UUID, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter, err := s.toDomainFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	expenses, total, err := s.expenseRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i], domainFilter.AsOf)
	}
	return responses, total, nil
}

// Update applies a partial update to an expense
func (s *ExpenseService) Update(ctx context.Context, ownerID, expenseID uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	expense, err := s.expenseRepo.FindByIDForOwner(ctx, ownerID, expenseID)
	if err != nil {
		return nil, changes, err
	}

	in := finance.ExpenseInput{
		Category:     expense.Category,
		Amount:       expense.Amount,
		Currency:     expense.Currency,
		Date:         expense.Date,
		DueDate:      expense.DueDate,
		SupplierID:   expense.SupplierID,
		SupplierName: expense.SupplierName,
		Notes:        expense.Notes,
		Paid:         expense.Paid,
	}
	if req.Category != nil {
		in.Category = finance.ExpenseCategory(*req.Category)
	}
	if req.Amount != nil {
		in.Amount = *req.Amount
	}
	if req.Currency != nil {
		if in.Currency, err = parseCurrency("currency", *req.Currency); err != nil {
			return nil, changes, err
		}
	}
	if req.Date != nil {
		in.Date = *req.Date
	}
	if req.DueDate != nil {
		in.DueDate = req.DueDate
	}
	if req.SupplierName != nil {
		in.SupplierName = *req.SupplierName
	}
	if req.SupplierID != nil && (expense.SupplierID == nil || *req.SupplierID != *expense.SupplierID) {
		in.SupplierID = req.SupplierID
		if req.SupplierName == nil {
			in.SupplierName = ""
		}
		if err := s.resolveSupplier(ctx, ownerID, &in); err != nil {
			return nil, changes, err
		}
	}
	if req.Notes != nil {
		in.Notes = *req.Notes
	}
	if req.Paid != nil {
		in.Paid = *req.Paid
	}

	if err := expense.Update(in); err != nil {
		return nil, changes, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, changes, err
	}
	changes.TouchExpense(expense.ID)

	response := ToExpenseResponse(expense, s.now())
	return &response, changes, nil
}

// MarkPaid marks one expense as paid. Already paid expenses are left alone.
func (s *ExpenseService) MarkPaid(ctx context.Context, ownerID, expenseID uuid.UUID) (*ExpenseResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	expense, err := s.expenseRepo.FindByIDForOwner(ctx, ownerID, expenseID)
	if err != nil {
		return nil, changes, err
	}
	if expense.MarkPaid() {
		if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
			return nil, changes, err
		}
		changes.TouchExpense(expense.ID)
	}

	response := ToExpenseResponse(expense, s.now())
	return &response, changes, nil
}

// BulkMarkPaid applies MarkPaid to each expense independently
func (s *ExpenseService) BulkMarkPaid(ctx context.Context, ownerID uuid.UUID, req BulkIDsRequest) (*shared.BulkResult, error) {
	ids := shared.DedupeIDs(req.IDs)
	if len(ids) == 0 {
		return nil, shared.NewValidationError("ids", "At least one expense is required")
	}

	result := shared.NewBulkResult()
	for _, id := range ids {
		_, changes, err := s.MarkPaid(ctx, ownerID, id)
		if err != nil {
			result.Fail(id, err)
			continue
		}
		result.Succeed(id, changes)
	}
	return result, nil
}

// Delete deletes an expense. The outsourcing record that booked it, if any,
// is not touched.
func (s *ExpenseService) Delete(ctx context.Context, ownerID, expenseID uuid.UUID) (shared.ChangeSet, error) {
	var changes shared.ChangeSet

	if _, err := s.expenseRepo.FindByIDForOwner(ctx, ownerID, expenseID); err != nil {
		return changes, err
	}
	if err := s.expenseRepo.DeleteForOwner(ctx, ownerID, expenseID); err != nil {
		return changes, err
	}
	changes.TouchExpense(expenseID)
	return changes, nil
}

// BulkDelete applies Delete to each expense independently
func (s *ExpenseService) BulkDelete(ctx context.Context, ownerID uuid.UUID, req BulkIDsRequest) (*shared.BulkResult, error) {
	ids := shared.DedupeIDs(req.IDs)
	if len(ids) == 0 {
		return nil, shared.NewValidationError("ids", "At least one expense is required")
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

// AttachReceipt stores a new receipt key on the expense and returns a presigned
// upload URL for it. A previous receipt key is replaced.
func (s *ExpenseService) AttachReceipt(ctx context.Context, ownerID, expenseID uuid.UUID, req AttachReceiptRequest) (*ReceiptURLResponse, shared.ChangeSet, error) {
	var changes shared.ChangeSet

	if s.storage == nil {
		return nil, changes, shared.NewDomainError("RECEIPTS_DISABLED", "Receipt storage is not configured")
	}
	if !AllowedReceiptTypes[strings.ToLower(req.ContentType)] {
		return nil, changes, shared.NewValidationError("content_type",
			fmt.Sprintf("Content type '%s' is not allowed. Allowed types: images and PDF.", req.ContentType))
	}

	expense, err := s.expenseRepo.FindByIDForOwner(ctx, ownerID, expenseID)
	if err != nil {
		return nil, changes, err
	}

	key := receiptKey(ownerID, expenseID, req.FileName)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("failed to generate receipt upload URL",
			zap.String("expense_id", expenseID.String()),
			zap.Error(err),
		)
		return nil, changes, err
	}

	expense.AttachReceipt(key)
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, changes, err
	}
	changes.TouchExpense(expense.ID)

	return &ReceiptURLResponse{ExpenseID: expense.ID, URL: url, ExpiresAt: expiresAt}, changes, nil
}

// ReceiptURL returns a presigned download URL for the expense's receipt
func (s *ExpenseService) ReceiptURL(ctx context.Context, ownerID, expenseID uuid.UUID) (*ReceiptURLResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("RECEIPTS_DISABLED", "Receipt storage is not configured")
	}
	expense, err := s.expenseRepo.FindByIDForOwner(ctx, ownerID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptKey == "" {
		return nil, shared.NewNotFoundError("receipt", expenseID)
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, expense.ReceiptKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, err
	}
	return &ReceiptURLResponse{ExpenseID: expense.ID, URL: url, ExpiresAt: expiresAt}, nil
}

func (s *ExpenseService) resolveSupplier(ctx context.Context, ownerID uuid.UUID, in *finance.ExpenseInput) error {
	if in.SupplierID == nil {
		return nil
	}
	supplier, err := s.supplierRepo.FindByIDForOwner(ctx, ownerID, *in.SupplierID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(in.SupplierName) == "" {
		in.SupplierName = supplier.Name
	}
	return nil
}

func (s *ExpenseService) toDomainFilter(filter ExpenseListFilter) (finance.ExpenseFilter, error) {
	out := finance.ExpenseFilter{
		Filter:     shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		AsOf:       today(s.now),
		SupplierID: filter.SupplierID,
		DateFrom:   filter.DateFrom,
		DateTo:     filter.DateTo,
	}
	if filter.Classification != "" {
		class := finance.PaymentClass(filter.Classification)
		if !class.IsValid() {
			return out, shared.NewValidationError("classification", "Invalid classification: "+filter.Classification)
		}
		out.Class = &class
	}
	if filter.Category != "" {
		category := finance.ExpenseCategory(filter.Category)
		if !category.IsValid() {
			return out, shared.NewValidationError("category", "Invalid expense category: "+filter.Category)
		}
		out.Category = &category
	}
	if filter.Source != "" {
		source := finance.ExpenseSource(filter.Source)
		if !source.IsValid() {
			return out, shared.NewValidationError("source", "Invalid expense source: "+filter.Source)
		}
		out.Source = &source
	}
	if filter.Currency != "" {
		currency, err := parseCurrency("currency", filter.Currency)
		if err != nil {
			return out, err
		}
		out.Currency = &currency
	}
	return out, nil
}

// receiptKey builds owners/{owner}/expenses/{expense}/{uuid}{ext}
func receiptKey(ownerID, expenseID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("owners/%s/expenses/%s/%s%s", ownerID, expenseID, uuid.New(), ext)
}
