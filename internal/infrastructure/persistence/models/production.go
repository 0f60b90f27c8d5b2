package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/production"
	"github.com/jobledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// JobModel is the persistence model for the Job aggregate root.
type JobModel struct {
	OwnedAggregateModel
	ClientID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	Title          string                 `gorm:"type:varchar(300);not null"`
	JobCode        string                 `gorm:"type:varchar(50);not null;index"`
	ServiceType    string                 `gorm:"type:varchar(100)"`
	PricingType    production.PricingType `gorm:"type:varchar(20);not null"`
	Quantity       *decimal.Decimal       `gorm:"type:decimal(20,6)"`
	Rate           *decimal.Decimal       `gorm:"type:decimal(20,6)"`
	Currency       valueobject.Currency   `gorm:"type:varchar(3);not null;index"`
	TotalAmount    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Status         production.JobStatus   `gorm:"type:varchar(20);not null;default:'created';index"`
	PriorStatus    *production.JobStatus  `gorm:"type:varchar(20)"`
	DueDate        *time.Time             `gorm:"index"`
	HasOutsourcing bool                   `gorm:"not null;default:false"`
	InvoiceID      *uuid.UUID             `gorm:"type:uuid;index"`
	Notes          string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (JobModel) TableName() string {
	return "jobs"
}

// ToDomain converts the persistence model to a domain Job entity.
func (m *JobModel) ToDomain() *production.Job {
	return &production.Job{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		ClientID:           m.ClientID,
		Title:              m.Title,
		JobCode:            m.JobCode,
		ServiceType:        m.ServiceType,
		PricingType:        m.PricingType,
		Quantity:           m.Quantity,
		Rate:               m.Rate,
		Currency:           m.Currency,
		TotalAmount:        m.TotalAmount,
		Status:             m.Status,
		PriorStatus:        m.PriorStatus,
		DueDate:            m.DueDate,
		HasOutsourcing:     m.HasOutsourcing,
		InvoiceID:          m.InvoiceID,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Job entity.
func (m *JobModel) FromDomain(j *production.Job) {
	m.FromDomainOwnedAggregateRoot(j.OwnedAggregateRoot)
	m.ClientID = j.ClientID
	m.Title = j.Title
	m.JobCode = j.JobCode
	m.ServiceType = j.ServiceType
	m.PricingType = j.PricingType
	m.Quantity = j.Quantity
	m.Rate = j.Rate
	m.Currency = j.Currency
	m.TotalAmount = j.TotalAmount
	m.Status = j.Status
	m.PriorStatus = j.PriorStatus
	m.DueDate = j.DueDate
	m.HasOutsourcing = j.HasOutsourcing
	m.InvoiceID = j.InvoiceID
	m.Notes = j.Notes
}

// JobModelFromDomain creates a new persistence model from domain.
func JobModelFromDomain(j *production.Job) *JobModel {
	m := &JobModel{}
	m.FromDomain(j)
	return m
}

// OutsourcingRecordModel is the persistence model for the OutsourcingRecord aggregate root.
type OutsourcingRecordModel struct {
	OwnedAggregateModel
	JobID            uuid.UUID                    `gorm:"type:uuid;not null;index"`
	SupplierID       uuid.UUID                    `gorm:"type:uuid;not null;index"`
	ServiceType      string                       `gorm:"type:varchar(100)"`
	Quantity         *decimal.Decimal             `gorm:"type:decimal(20,6)"`
	Unit             string                       `gorm:"type:varchar(30)"`
	SupplierRate     *decimal.Decimal             `gorm:"type:decimal(20,6)"`
	SupplierCurrency valueobject.Currency         `gorm:"type:varchar(3);not null"`
	SupplierTotal    *decimal.Decimal             `gorm:"type:decimal(18,4)"`
	Status           production.OutsourcingStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Paid             bool                         `gorm:"not null;default:false;index"`
	StartDate        *time.Time
	DueDate          *time.Time
	Notes            string     `gorm:"type:text"`
	ExpenseID        *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (OutsourcingRecordModel) TableName() string {
	return "outsourcing_records"
}

// ToDomain converts the persistence model to a domain OutsourcingRecord entity.
func (m *OutsourcingRecordModel) ToDomain() *production.OutsourcingRecord {
	return &production.OutsourcingRecord{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		JobID:              m.JobID,
		SupplierID:         m.SupplierID,
		ServiceType:        m.ServiceType,
		Quantity:           m.Quantity,
		Unit:               m.Unit,
		SupplierRate:       m.SupplierRate,
		SupplierCurrency:   m.SupplierCurrency,
		SupplierTotal:      m.SupplierTotal,
		Status:             m.Status,
		Paid:               m.Paid,
		StartDate:          m.StartDate,
		DueDate:            m.DueDate,
		Notes:              m.Notes,
		ExpenseID:          m.ExpenseID,
	}
}

// FromDomain populates the persistence model from a domain OutsourcingRecord entity.
func (m *OutsourcingRecordModel) FromDomain(r *production.OutsourcingRecord) {
	m.FromDomainOwnedAggregateRoot(r.OwnedAggregateRoot)
	m.JobID = r.JobID
	m.SupplierID = r.SupplierID
	m.ServiceType = r.ServiceType
	m.Quantity = r.Quantity
	m.Unit = r.Unit
	m.SupplierRate = r.SupplierRate
	m.SupplierCurrency = r.SupplierCurrency
	m.SupplierTotal = r.SupplierTotal
	m.Status = r.Status
	m.Paid = r.Paid
	m.StartDate = r.StartDate
	m.DueDate = r.DueDate
	m.Notes = r.Notes
	m.ExpenseID = r.ExpenseID
}

// OutsourcingRecordModelFromDomain creates a new persistence model from domain.
func OutsourcingRecordModelFromDomain(r *production.OutsourcingRecord) *OutsourcingRecordModel {
	m := &OutsourcingRecordModel{}
	m.FromDomain(r)
	return m
}
