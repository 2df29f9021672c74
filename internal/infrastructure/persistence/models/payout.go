package models

import (
	"time"

	"github.com/creatorhub/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutModel is the persistence model for the Payout ledger entry.
type PayoutModel struct {
	BaseModel
	UserID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Reason      string              `gorm:"type:varchar(200);not null"`
	Status      ledger.PayoutStatus `gorm:"type:varchar(20);not null;index"`
	AdminID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (PayoutModel) TableName() string {
	return "payouts"
}

// ToDomain converts the persistence model to a domain Payout entity.
func (m *PayoutModel) ToDomain() *ledger.Payout {
	return &ledger.Payout{
		BaseEntity:  m.BaseModel.ToDomain(),
		UserID:      m.UserID,
		Amount:      m.Amount,
		Reason:      m.Reason,
		Status:      m.Status,
		AdminID:     m.AdminID,
		CompletedAt: m.CompletedAt,
	}
}

// PayoutModelFromDomain creates a persistence model from a domain Payout entity.
func PayoutModelFromDomain(p *ledger.Payout) *PayoutModel {
	model := &PayoutModel{
		UserID:      p.UserID,
		Amount:      p.Amount,
		Reason:      p.Reason,
		Status:      p.Status,
		AdminID:     p.AdminID,
		CompletedAt: p.CompletedAt,
	}
	model.FromDomainBaseEntity(p.BaseEntity)
	return model
}
