package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM.
// Invoice lines live in invoice_items; linked jobs are read back from jobs.invoice_id.
type GormInvoiceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db, now: time.Now}
}

func preloadInvoiceItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// FindByIDForOwner finds an invoice with its items and linked jobs
func (r *GormInvoiceRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*finance.Invoice, error) {
	db := r.db.WithContext(ctx)
	var model models.InvoiceModel
	if err := db.Scopes(preloadInvoiceItems, OwnerScope(ownerID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}

	invoice := model.ToDomain()
	links, err := r.jobLinks(db, ownerID, []uuid.UUID{invoice.ID})
	if err != nil {
		return nil, err
	}
	invoice.JobIDs = append(invoice.JobIDs, links[invoice.ID]...)
	return invoice, nil
}

// FindAllForOwner lists invoices with items and linked jobs
func (r *GormInvoiceRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, int64, error) {
	db := r.db.WithContext(ctx)
	rows, total, err := findPage[models.InvoiceModel](db, invoiceFilterScope(ownerID, filter),
		orderClause(filter.Filter, InvoiceSortFields, "date"), filter.Filter, preloadInvoiceItems)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	links, err := r.jobLinks(db, ownerID, ids)
	if err != nil {
		return nil, 0, err
	}

	invoices := make([]finance.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
		invoices[i].JobIDs = append(invoices[i].JobIDs, links[rows[i].ID]...)
	}
	return invoices, total, nil
}

// FindMatching returns every invoice header matching the filter, ignoring pagination.
// Items and job links are not loaded.
func (r *GormInvoiceRepository) FindMatching(ctx context.Context, ownerID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(invoiceFilterScope(ownerID, filter)).
		Order("date ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]finance.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

func invoiceFilterScope(ownerID uuid.UUID, filter finance.InvoiceFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(OwnerScope(ownerID), searchScope(filter.Search, "invoice_number", "notes"))
		if filter.ClientID != nil {
			db = db.Where("client_id = ?", *filter.ClientID)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		if filter.Currency != nil {
			db = db.Where("currency = ?", *filter.Currency)
		}
		return db
	}
}

type jobLink struct {
	ID        uuid.UUID
	InvoiceID uuid.UUID
}

// jobLinks maps each invoice id to the ids of the jobs it consumed, ordered by job code
func (r *GormInvoiceRepository) jobLinks(db *gorm.DB, ownerID uuid.UUID, invoiceIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	links := make(map[uuid.UUID][]uuid.UUID, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return links, nil
	}
	var rows []jobLink
	if err := db.Model(&models.JobModel{}).
		Scopes(OwnerScope(ownerID)).
		Select("id, invoice_id").
		Where("invoice_id IN ?", invoiceIDs).
		Order("job_code ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, l := range rows {
		links[l.InvoiceID] = append(links[l.InvoiceID], l.ID)
	}
	return links, nil
}

// Save inserts a new invoice and its items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	return r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(invoice)).Error
}

// SaveWithLock updates an invoice header if its stored version still matches
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	model.Version = invoice.Version + 1
	if err := lockedUpdate(r.db.WithContext(ctx), model, invoice.OwnerID, invoice.ID, invoice.Version); err != nil {
		return err
	}
	invoice.IncrementVersion()
	return nil
}

// DeleteForOwner deletes an invoice and its items
func (r *GormInvoiceRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteOwned(tx, &models.InvoiceModel{}, ownerID, id); err != nil {
			return err
		}
		return tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error
	})
}

// GenerateInvoiceNumber returns the next sequential invoice number, e.g. INV-202610-00001
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, ownerID uuid.UUID) (string, error) {
	return nextNumber(r.db.WithContext(ctx), "invoices", "invoice_number", "INV", ownerID, r.now())
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
