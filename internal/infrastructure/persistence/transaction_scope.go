package persistence

import (
	"context"

	"github.com/jobledger/backend/internal/application/transaction"
	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/production"
	"gorm.io/gorm"
)

// GormTransactionScope implements transaction.Scope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos transaction.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Jobs returns the job repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Jobs() production.JobRepository {
	return NewGormJobRepository(r.tx)
}

// Outsourcing returns the outsourcing repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Outsourcing() production.OutsourcingRepository {
	return NewGormOutsourcingRepository(r.tx)
}

// Expenses returns the expense repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Expenses() finance.ExpenseRecordRepository {
	return NewGormExpenseRecordRepository(r.tx)
}

// Invoices returns the invoice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Invoices() finance.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Ensure GormTransactionScope implements transaction.Scope
var _ transaction.Scope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements transaction.Repositories
var _ transaction.Repositories = (*gormTransactionalRepositories)(nil)
