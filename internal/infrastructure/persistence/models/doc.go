// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Every owned table carries owner_id and a version column used by optimistic locking.
// Per-owner document numbers are unique in the SQL migrations only.
// Line items and rate card entries are child rows that are always replaced as a whole
// with their parent.
//
// Structure:
// - base.go: OwnedAggregateModel, the id/owner/version/timestamp columns
// - partner.go: Client, Supplier and rate card entries
// - production.go: Job and OutsourcingRecord
// - finance.go: ExpenseRecord, Invoice, Quote and their line items
package models
