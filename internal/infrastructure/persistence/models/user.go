package models

import (
	"time"

	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// UserModel is the persistence model for the User domain aggregate.
type UserModel struct {
	AggregateModel
	ExternalID       string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_external_id"`
	Nickname         string          `gorm:"type:varchar(100);not null"`
	Balance          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Role             identity.Role   `gorm:"type:varchar(20);not null;default:'USER';index"`
	Banned           bool            `gorm:"not null;default:false"`
	LastSubmissionAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User aggregate.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ExternalID:        m.ExternalID,
		Nickname:          m.Nickname,
		Balance:           m.Balance,
		Role:              m.Role,
		Banned:            m.Banned,
		LastSubmissionAt:  m.LastSubmissionAt,
	}
}

// UserModelFromDomain creates a persistence model from a domain User aggregate.
func UserModelFromDomain(u *identity.User) *UserModel {
	model := &UserModel{
		ExternalID:       u.ExternalID,
		Nickname:         u.Nickname,
		Balance:          u.Balance,
		Role:             u.Role,
		Banned:           u.Banned,
		LastSubmissionAt: u.LastSubmissionAt,
	}
	model.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return model
}
