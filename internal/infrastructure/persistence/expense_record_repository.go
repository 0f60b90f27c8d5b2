package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExpenseRecordRepository implements ExpenseRecordRepository using GORM
type GormExpenseRecordRepository struct {
	db *gorm.DB
}

// NewGormExpenseRecordRepository creates a new GormExpenseRecordRepository
func NewGormExpenseRecordRepository(db *gorm.DB) *GormExpenseRecordRepository {
	return &GormExpenseRecordRepository{db: db}
}

// FindByIDForOwner finds an expense by ID within an owner's books
func (r *GormExpenseRecordRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*finance.ExpenseRecord, error) {
	var model models.ExpenseRecordModel
	if err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForOwner lists expenses with pagination and returns the total count
func (r *GormExpenseRecordRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter finance.ExpenseFilter) ([]finance.ExpenseRecord, int64, error) {
	rows, total, err := findPage[models.ExpenseRecordModel](r.db.WithContext(ctx), expenseFilterScope(ownerID, filter),
		orderClause(filter.Filter, ExpenseRecordSortFields, "date"), filter.Filter)
	if err != nil {
		return nil, 0, err
	}
	return expensesToDomain(rows), total, nil
}

// FindMatching returns every expense matching the filter, ignoring pagination
func (r *GormExpenseRecordRepository) FindMatching(ctx context.Context, ownerID uuid.UUID, filter finance.ExpenseFilter) ([]finance.ExpenseRecord, error) {
	var rows []models.ExpenseRecordModel
	if err := r.db.WithContext(ctx).
		Scopes(expenseFilterScope(ownerID, filter)).
		Order("date ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return expensesToDomain(rows), nil
}

// expenseFilterScope mirrors finance.Classify in SQL: an unpaid expense is
// overdue once its due date lies before AsOf.
func expenseFilterScope(ownerID uuid.UUID, filter finance.ExpenseFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(OwnerScope(ownerID), searchScope(filter.Search, "supplier_name", "notes"))
		if filter.Class != nil {
			switch *filter.Class {
			case finance.PaymentClassPaid:
				db = db.Where("paid = ?", true)
			case finance.PaymentClassUnpaid:
				db = db.Where("paid = ? AND (due_date IS NULL OR due_date >= ?)", false, filter.AsOf)
			case finance.PaymentClassOverdue:
				db = db.Where("paid = ? AND due_date IS NOT NULL AND due_date < ?", false, filter.AsOf)
			}
		}
		if filter.SupplierID != nil {
			db = db.Where("supplier_id = ?", *filter.SupplierID)
		}
		if filter.Category != nil {
			db = db.Where("category = ?", *filter.Category)
		}
		if filter.Source != nil {
			db = db.Where("source = ?", *filter.Source)
		}
		if filter.Currency != nil {
			db = db.Where("currency = ?", *filter.Currency)
		}
		if filter.DateFrom != nil {
			db = db.Where("date >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			db = db.Where("date <= ?", *filter.DateTo)
		}
		return db
	}
}

// Save inserts a new expense
func (r *GormExpenseRecordRepository) Save(ctx context.Context, expense *finance.ExpenseRecord) error {
	return r.db.WithContext(ctx).Create(models.ExpenseRecordModelFromDomain(expense)).Error
}

// SaveWithLock updates an expense if its stored version still matches
func (r *GormExpenseRecordRepository) SaveWithLock(ctx context.Context, expense *finance.ExpenseRecord) error {
	model := models.ExpenseRecordModelFromDomain(expense)
	model.Version = expense.Version + 1
	if err := lockedUpdate(r.db.WithContext(ctx), model, expense.OwnerID, expense.ID, expense.Version); err != nil {
		return err
	}
	expense.IncrementVersion()
	return nil
}

// DeleteForOwner deletes an expense
func (r *GormExpenseRecordRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.ExpenseRecordModel{}, ownerID, id)
}

func expensesToDomain(rows []models.ExpenseRecordModel) []finance.ExpenseRecord {
	expenses := make([]finance.ExpenseRecord, len(rows))
	for i := range rows {
		expenses[i] = *rows[i].ToDomain()
	}
	return expenses
}

var _ finance.ExpenseRecordRepository = (*GormExpenseRecordRepository)(nil)
