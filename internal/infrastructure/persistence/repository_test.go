package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/finance"
	"github.com/jobledger/backend/internal/domain/partner"
	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/domain/shared"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/jobledger/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with every table migrated.
// A single connection keeps the in-memory database alive across transactions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func seedClient(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *partner.Client {
	t.Helper()
	client, err := partner.NewClient(ownerID, "Acme Publishing", valueobject.USD)
	require.NoError(t, err)
	require.NoError(t, NewGormClientRepository(db).Save(context.Background(), client))
	return client
}

func seedJob(t *testing.T, db *gorm.DB, client *partner.Client, code string) *production.Job {
	t.Helper()
	job, err := production.NewJob(client.OwnerID, client.ID, code, "Manual translation", "translation", production.Pricing{
		Type:     production.PricingPerWord,
		Quantity: dec("5000"),
		Rate:     dec("0.10"),
		Currency: valueobject.USD,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormJobRepository(db).Save(context.Background(), job))
	return job
}

func TestGormClientRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormClientRepository(db)
	ownerID := uuid.New()

	client := seedClient(t, db, ownerID)
	require.NoError(t, client.SetPaymentTerms(45))
	require.NoError(t, repo.Save(ctx, client))

	t.Run("finds within owner", func(t *testing.T) {
		found, err := repo.FindByIDForOwner(ctx, ownerID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Publishing", found.Name)
		assert.Equal(t, 45, found.PaymentTermsDays)
		assert.Equal(t, valueobject.USD, found.DefaultCurrency)
	})

	t.Run("other owners see nothing", func(t *testing.T) {
		_, err := repo.FindByIDForOwner(ctx, uuid.New(), client.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		list, total, err := repo.FindAllForOwner(ctx, uuid.New(), partner.ClientFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Zero(t, total)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		list, total, err := repo.FindAllForOwner(ctx, ownerID, partner.ClientFilter{
			Filter: shared.NewFilter(1, 10, "name", "asc", "acme"),
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Len(t, list, 1)
	})

	t.Run("referenced by a job", func(t *testing.T) {
		referenced, err := repo.IsReferenced(ctx, ownerID, client.ID)
		require.NoError(t, err)
		assert.False(t, referenced)

		seedJob(t, db, client, "JOB-202610-00001")
		referenced, err = repo.IsReferenced(ctx, ownerID, client.ID)
		require.NoError(t, err)
		assert.True(t, referenced)
	})

	t.Run("delete of missing client", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteForOwner(ctx, ownerID, uuid.New()), shared.ErrNotFound)
	})
}

func TestGormSupplierRepository_RateCardReplaced(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormSupplierRepository(db)
	ownerID := uuid.New()

	supplier, err := partner.NewSupplier(ownerID, "Lingua Freelance", valueobject.EUR)
	require.NoError(t, err)
	require.NoError(t, supplier.SetRateCard([]partner.RateCardEntry{
		{ServiceType: "translation", Unit: "word", Rate: decimal.RequireFromString("0.06"), Currency: valueobject.EUR},
		{ServiceType: "proofreading", Unit: "hour", Rate: decimal.RequireFromString("30"), Currency: valueobject.EUR},
	}))
	require.NoError(t, repo.Save(ctx, supplier))

	require.NoError(t, supplier.SetRateCard([]partner.RateCardEntry{
		{ServiceType: "Translation", Unit: "word", Rate: decimal.RequireFromString("0.07"), Currency: valueobject.EUR},
	}))
	require.NoError(t, repo.Save(ctx, supplier))

	found, err := repo.FindByIDForOwner(ctx, ownerID, supplier.ID)
	require.NoError(t, err)
	require.Len(t, found.RateCard, 1)
	entry, ok := found.MatchRate("translation")
	require.True(t, ok)
	assert.True(t, entry.Rate.Equal(decimal.RequireFromString("0.07")))

	var rows int64
	require.NoError(t, db.Model(&models.SupplierRateModel{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	require.NoError(t, repo.DeleteForOwner(ctx, ownerID, supplier.ID))
	require.NoError(t, db.Model(&models.SupplierRateModel{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestGormJobRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormJobRepository(db)
	repo.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }
	ownerID := uuid.New()
	client := seedClient(t, db, ownerID)

	t.Run("job codes are sequential per month", func(t *testing.T) {
		code, err := repo.GenerateJobCode(ctx, ownerID)
		require.NoError(t, err)
		assert.Equal(t, "JOB-202610-00001", code)

		seedJob(t, db, client, code)
		seedJob(t, db, client, "JOB-202610-00007")
		code, err = repo.GenerateJobCode(ctx, ownerID)
		require.NoError(t, err)
		assert.Equal(t, "JOB-202610-00008", code)

		code, err = repo.GenerateJobCode(ctx, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "JOB-202610-00001", code)
	})

	t.Run("save with lock bumps version and rejects stale copies", func(t *testing.T) {
		job := seedJob(t, db, client, "JOB-202610-00020")
		stale, err := repo.FindByIDForOwner(ctx, ownerID, job.ID)
		require.NoError(t, err)

		_, err = job.Transition(production.JobStatusInProgress)
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, job))
		assert.Equal(t, 2, job.Version)

		_, err = stale.Transition(production.JobStatusCancelled)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)

		found, err := repo.FindByIDForOwner(ctx, ownerID, job.ID)
		require.NoError(t, err)
		assert.Equal(t, production.JobStatusInProgress, found.Status)
		assert.Equal(t, 2, found.Version)
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(500)))
	})

	t.Run("uninvoiced and status filters", func(t *testing.T) {
		status := production.JobStatusInProgress
		list, total, err := repo.FindAllForOwner(ctx, ownerID, production.JobFilter{
			Filter:     shared.DefaultFilter(),
			Status:     &status,
			Uninvoiced: true,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "JOB-202610-00020", list[0].JobCode)
	})

	t.Run("find by ids skips unknown ids", func(t *testing.T) {
		job := seedJob(t, db, client, "JOB-202610-00030")
		jobs, err := repo.FindByIDsForOwner(ctx, ownerID, []uuid.UUID{job.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})
}

func TestGormOutsourcingRepository_DeleteByJob(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormOutsourcingRepository(db)
	ownerID := uuid.New()
	client := seedClient(t, db, ownerID)
	job := seedJob(t, db, client, "JOB-202610-00001")
	other := seedJob(t, db, client, "JOB-202610-00002")

	supplier, err := partner.NewSupplier(ownerID, "Lingua Freelance", valueobject.EUR)
	require.NoError(t, err)

	var ids []uuid.UUID
	for _, j := range []*production.Job{job, job, other} {
		record, err := production.NewOutsourcingRecord(j, supplier, production.OutsourcingTerms{SupplierRate: dec("0.05")})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, record))
		if j == job {
			ids = append(ids, record.ID)
		}
	}

	deleted, err := repo.DeleteByJob(ctx, ownerID, job.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, deleted)

	remaining, err := repo.FindByJob(ctx, ownerID, other.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
	require.NotNil(t, remaining[0].SupplierTotal)
	assert.True(t, remaining[0].SupplierTotal.Equal(decimal.NewFromInt(250)))

	deleted, err = repo.DeleteByJob(ctx, ownerID, job.ID)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestGormExpenseRecordRepository_ClassFilter(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormExpenseRecordRepository(db)
	ownerID := uuid.New()
	today := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	add := func(notes string, due *time.Time, paid bool) {
		e, err := finance.NewExpenseRecord(ownerID, finance.ExpenseInput{
			Category: finance.ExpenseCategorySoftware,
			Amount:   decimal.NewFromInt(20),
			Currency: valueobject.USD,
			Date:     today.AddDate(0, -1, 0),
			DueDate:  due,
			Notes:    notes,
			Paid:     paid,
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, e))
	}
	yesterday := today.AddDate(0, 0, -1)
	sameDay := today
	add("open", nil, false)
	add("due today", &sameDay, false)
	add("late", &yesterday, false)
	add("settled", &yesterday, true)

	notesFor := func(class finance.PaymentClass) []string {
		rows, err := repo.FindMatching(ctx, ownerID, finance.ExpenseFilter{Class: &class, AsOf: today})
		require.NoError(t, err)
		out := make([]string, len(rows))
		for i, r := range rows {
			assert.Equal(t, class, r.Classify(today))
			out[i] = r.Notes
		}
		return out
	}

	assert.ElementsMatch(t, []string{"open", "due today"}, notesFor(finance.PaymentClassUnpaid))
	assert.ElementsMatch(t, []string{"late"}, notesFor(finance.PaymentClassOverdue))
	assert.ElementsMatch(t, []string{"settled"}, notesFor(finance.PaymentClassPaid))

	page, total, err := repo.FindAllForOwner(ctx, ownerID, finance.ExpenseFilter{
		Filter: shared.NewFilter(1, 2, "date", "desc", ""),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, page, 2)
}

func TestGormInvoiceRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormInvoiceRepository(db)
	jobRepo := NewGormJobRepository(db)
	ownerID := uuid.New()
	client := seedClient(t, db, ownerID)
	job := seedJob(t, db, client, "JOB-202610-00001")

	item, err := finance.NewLineItem(job.Label(), decimal.NewFromInt(1), job.TotalAmount)
	require.NoError(t, err)
	number, err := repo.GenerateInvoiceNumber(ctx, ownerID)
	require.NoError(t, err)
	invoice, err := finance.NewInvoice(ownerID, client.ID, number, valueobject.USD, []finance.LineItem{item}, time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, invoice))

	require.NoError(t, job.MarkInvoiced(invoice.ID))
	require.NoError(t, jobRepo.SaveWithLock(ctx, job))

	t.Run("loads items and job links", func(t *testing.T) {
		found, err := repo.FindByIDForOwner(ctx, ownerID, invoice.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "JOB-202610-00001 - Manual translation", found.Items[0].Description)
		assert.True(t, found.Total.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, []uuid.UUID{job.ID}, found.JobIDs)

		list, total, err := repo.FindAllForOwner(ctx, ownerID, finance.InvoiceFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, []uuid.UUID{job.ID}, list[0].JobIDs)
	})

	t.Run("status update is version checked", func(t *testing.T) {
		_, err := invoice.SetStatus(finance.InvoiceStatusPaid)
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, invoice))

		paid := finance.InvoiceStatusPaid
		matching, err := repo.FindMatching(ctx, ownerID, finance.InvoiceFilter{Status: &paid})
		require.NoError(t, err)
		require.Len(t, matching, 1)
		assert.NotNil(t, matching[0].PaidAt)
	})

	t.Run("delete removes items", func(t *testing.T) {
		require.NoError(t, repo.DeleteForOwner(ctx, ownerID, invoice.ID))
		var items int64
		require.NoError(t, db.Model(&models.InvoiceItemModel{}).Count(&items).Error)
		assert.Zero(t, items)
	})
}

func TestGormQuoteRepository_ReplacesItems(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ownerID := uuid.New()
	client := seedClient(t, db, ownerID)

	first, err := finance.NewLineItem("Translation", decimal.NewFromInt(1000), decimal.RequireFromString("0.12"))
	require.NoError(t, err)
	second, err := finance.NewLineItem("Review", decimal.NewFromInt(2), decimal.NewFromInt(40))
	require.NoError(t, err)

	number, err := repo.GenerateQuoteNumber(ctx, ownerID)
	require.NoError(t, err)
	quote, err := finance.NewQuote(ownerID, client.ID, number, valueobject.USD,
		[]finance.LineItem{first, second}, decimal.Zero, time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, quote))

	require.NoError(t, quote.ReplaceItems([]finance.LineItem{second}, decimal.NewFromInt(8)))
	require.NoError(t, repo.Save(ctx, quote))

	found, err := repo.FindByIDForOwner(ctx, ownerID, quote.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Review", found.Items[0].Description)
	assert.True(t, found.Total.Equal(decimal.NewFromInt(88)))
	assert.NoError(t, found.Validate())
}
