package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuoteRepository implements QuoteRepository using GORM
type GormQuoteRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db, now: time.Now}
}

func preloadQuoteItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// FindByIDForOwner finds a quote with its items
func (r *GormQuoteRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*finance.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Scopes(preloadQuoteItems, OwnerScope(ownerID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForOwner lists quotes with pagination and returns the total count
func (r *GormQuoteRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter finance.QuoteFilter) ([]finance.Quote, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(OwnerScope(ownerID), searchScope(filter.Search, "quote_number", "notes"))
		if filter.ClientID != nil {
			db = db.Where("client_id = ?", *filter.ClientID)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		return db
	}
	rows, total, err := findPage[models.QuoteModel](r.db.WithContext(ctx), where,
		orderClause(filter.Filter, QuoteSortFields, "date"), filter.Filter, preloadQuoteItems)
	if err != nil {
		return nil, 0, err
	}
	quotes := make([]finance.Quote, len(rows))
	for i := range rows {
		quotes[i] = *rows[i].ToDomain()
	}
	return quotes, total, nil
}

// Save inserts or fully replaces a quote and its items
func (r *GormQuoteRepository) Save(ctx context.Context, quote *finance.Quote) error {
	model := models.QuoteModelFromDomain(quote)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// DeleteForOwner deletes a quote and its items
func (r *GormQuoteRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteOwned(tx, &models.QuoteModel{}, ownerID, id); err != nil {
			return err
		}
		return tx.Where("quote_id = ?", id).Delete(&models.QuoteItemModel{}).Error
	})
}

// GenerateQuoteNumber returns the next quote number, e.g. QUO-202610-00001
func (r *GormQuoteRepository) GenerateQuoteNumber(ctx context.Context, ownerID uuid.UUID) (string, error) {
	return nextNumber(r.db.WithContext(ctx), "quotes", "quote_number", "QUO", ownerID, r.now())
}

var _ finance.QuoteRepository = (*GormQuoteRepository)(nil)
