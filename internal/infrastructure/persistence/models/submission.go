package models

import (
	"time"

	"github.com/creatorhub/backend/internal/domain/submission"
	"github.com/google/uuid"
)

// SubmissionModel is the persistence model for the Submission domain aggregate.
// The file reference is flattened into the submissions table.
type SubmissionModel struct {
	AggregateModel
	UserID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	FileURL          string              `gorm:"type:text;not null"`
	FileStorageKey   string              `gorm:"type:varchar(255);not null"`
	FileOriginalName string              `gorm:"type:varchar(255)"`
	FileType         submission.FileType `gorm:"type:varchar(10);not null"`
	FileSizeBytes    int64               `gorm:"not null"`
	Category         string              `gorm:"type:varchar(50);not null;index"`
	Description      string              `gorm:"type:varchar(500)"`
	Status           submission.Status   `gorm:"type:varchar(10);not null;default:'PENDING';index"`
	RejectReason     string              `gorm:"type:varchar(200)"`
	ReviewerID       *uuid.UUID          `gorm:"type:uuid;index"`
	ReviewedAt       *time.Time
}

// TableName returns the table name for GORM
func (SubmissionModel) TableName() string {
	return "submissions"
}

// ToDomain converts the persistence model to a domain Submission aggregate.
func (m *SubmissionModel) ToDomain() *submission.Submission {
	return &submission.Submission{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		File: submission.FileReference{
			URL:          m.FileURL,
			StorageKey:   m.FileStorageKey,
			OriginalName: m.FileOriginalName,
			Type:         m.FileType,
			SizeBytes:    m.FileSizeBytes,
		},
		Category:     m.Category,
		Description:  m.Description,
		Status:       m.Status,
		RejectReason: m.RejectReason,
		ReviewerID:   m.ReviewerID,
		ReviewedAt:   m.ReviewedAt,
	}
}

// SubmissionModelFromDomain creates a persistence model from a domain Submission aggregate.
func SubmissionModelFromDomain(s *submission.Submission) *SubmissionModel {
	model := &SubmissionModel{
		UserID:           s.UserID,
		FileURL:          s.File.URL,
		FileStorageKey:   s.File.StorageKey,
		FileOriginalName: s.File.OriginalName,
		FileType:         s.File.Type,
		FileSizeBytes:    s.File.SizeBytes,
		Category:         s.Category,
		Description:      s.Description,
		Status:           s.Status,
		RejectReason:     s.RejectReason,
		ReviewerID:       s.ReviewerID,
		ReviewedAt:       s.ReviewedAt,
	}
	model.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return model
}
