package models

import (
	"github.com/creatorhub/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AdminLogModel is the persistence model for the AdminLog entry.
type AdminLogModel struct {
	BaseModel
	AdminID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Action    string    `gorm:"type:varchar(50);not null;index"`
	Details   string    `gorm:"type:jsonb"`
	IP        string    `gorm:"type:varchar(45)"`
	UserAgent string    `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (AdminLogModel) TableName() string {
	return "admin_logs"
}

// ToDomain converts the persistence model to a domain AdminLog entity.
func (m *AdminLogModel) ToDomain() *audit.AdminLog {
	return &audit.AdminLog{
		BaseEntity: m.BaseModel.ToDomain(),
		AdminID:    m.AdminID,
		Action:     m.Action,
		Details:    m.Details,
		IP:         m.IP,
		UserAgent:  m.UserAgent,
	}
}

// AdminLogModelFromDomain creates a persistence model from a domain AdminLog entity.
func AdminLogModelFromDomain(l *audit.AdminLog) *AdminLogModel {
	model := &AdminLogModel{
		AdminID:   l.AdminID,
		Action:    l.Action,
		Details:   l.Details,
		IP:        l.IP,
		UserAgent: l.UserAgent,
	}
	model.FromDomainBaseEntity(l.BaseEntity)
	return model
}
