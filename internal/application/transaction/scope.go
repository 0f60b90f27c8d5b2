// Package transaction defines the unit of work shared by the use cases whose
// writes span more than one aggregate: invoice generation, delivery
// confirmation, job cancellation and outsourcing create/delete.
package transaction

import (
	"context"

	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/production"
)

// Scope runs fn inside one database transaction. If fn returns an error the
// transaction is rolled back and nothing fn wrote is persisted.
type Scope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories exposes the repositories bound to the running transaction
type Repositories interface {
	Jobs() production.JobRepository
	Outsourcing() production.OutsourcingRepository
	Expenses() finance.ExpenseRecordRepository
	Invoices() finance.InvoiceRepository
}

// NoOpScope calls fn with plain repositories and no transaction.
// It is meant for unit tests where the repositories are fakes.
type NoOpScope struct {
	jobs        production.JobRepository
	outsourcing production.OutsourcingRepository
	expenses    finance.ExpenseRecordRepository
	invoices    finance.InvoiceRepository
}

// NewNoOpScope creates a NoOpScope over the given repositories
func NewNoOpScope(
	jobs production.JobRepository,
	outsourcing production.OutsourcingRepository,
	expenses finance.ExpenseRecordRepository,
	invoices finance.InvoiceRepository,
) *NoOpScope {
	return &NoOpScope{jobs: jobs, outsourcing: outsourcing, expenses: expenses, invoices: invoices}
}

// Execute calls fn directly
func (s *NoOpScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

func (s *NoOpScope) Jobs() production.JobRepository {
	return s.jobs
}

func (s *NoOpScope) Outsourcing() production.OutsourcingRepository {
	return s.outsourcing
}

func (s *NoOpScope) Expenses() finance.ExpenseRecordRepository {
	return s.expenses
}

func (s *NoOpScope) Invoices() finance.InvoiceRepository {
	return s.invoices
}

var (
	_ Scope        = (*NoOpScope)(nil)
	_ Repositories = (*NoOpScope)(nil)
)
