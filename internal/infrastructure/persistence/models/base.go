package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
)

// OwnedAggregateModel holds the columns every ledger table shares.
// Version is compared and bumped by the locked update in one statement.
type OwnedAggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Version   int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *OwnedAggregateModel) FromDomainOwnedAggregateRoot(o shared.OwnedAggregateRoot) {
	m.ID = o.ID
	m.OwnerID = o.OwnerID
	m.Version = o.Version
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
}

func (m *OwnedAggregateModel) ToDomainOwnedAggregateRoot() shared.OwnedAggregateRoot {
	var o shared.OwnedAggregateRoot
	o.ID = m.ID
	o.OwnerID = m.OwnerID
	o.Version = m.Version
	o.CreatedAt = m.CreatedAt
	o.UpdatedAt = m.UpdatedAt
	return o
}
