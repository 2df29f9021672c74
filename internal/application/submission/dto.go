package submission

import (
	"time"

	"github.com/creatorhub/backend/internal/domain/submission"
	"github.com/google/uuid"
)

// FileResponse represents the stored file behind a submission
type FileResponse struct {
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
	Type         string `json:"type"`
	SizeBytes    int64  `json:"size_bytes"`
}

// SubmissionResponse represents a submission in API responses
type SubmissionResponse struct {
	ID           uuid.UUID    `json:"id"`
	UserID       uuid.UUID    `json:"user_id"`
	File         FileResponse `json:"file"`
	Category     string       `json:"category"`
	Description  string       `json:"description,omitempty"`
	Status       string       `json:"status"`
	RejectReason string       `json:"reject_reason,omitempty"`
	ReviewerID   *uuid.UUID   `json:"reviewer_id,omitempty"`
	ReviewedAt   *time.Time   `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ToSubmissionResponse converts a domain submission to a response DTO
func ToSubmissionResponse(sub *submission.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:     sub.ID,
		UserID: sub.UserID,
		File: FileResponse{
			URL:          sub.File.URL,
			OriginalName: sub.File.OriginalName,
			Type:         string(sub.File.Type),
			SizeBytes:    sub.File.SizeBytes,
		},
		Category:     sub.Category,
		Description:  sub.Description,
		Status:       sub.Status.String(),
		RejectReason: sub.RejectReason,
		ReviewerID:   sub.ReviewerID,
		ReviewedAt:   sub.ReviewedAt,
		CreatedAt:    sub.CreatedAt,
		UpdatedAt:    sub.UpdatedAt,
	}
}

// ToSubmissionResponses converts a slice of domain submissions to response DTOs
func ToSubmissionResponses(subs []*submission.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, len(subs))
	for i, sub := range subs {
		responses[i] = ToSubmissionResponse(sub)
	}
	return responses
}
