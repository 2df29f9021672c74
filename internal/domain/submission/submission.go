package submission

import (
	"strings"
	"time"

	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the moderation state of a submission
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is one of the known states
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal returns true for states that allow no further transition
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// FileType represents the media kind of an uploaded file
type FileType string

const (
	FileTypeImage FileType = "IMAGE"
	FileTypeVideo FileType = "VIDEO"
)

// IsValid returns true if the file type is known
func (t FileType) IsValid() bool {
	return t == FileTypeImage || t == FileTypeVideo
}

// FileReference describes the uploaded blob backing a submission
type FileReference struct {
	URL          string
	StorageKey   string
	OriginalName string
	Type         FileType
	SizeBytes    int64
}

// Validation limits
const (
	MinCategoryLength    = 2
	MaxCategoryLength    = 50
	MaxDescriptionLength = 500
	MaxRejectReasonLen   = 200
)

// Submission represents a user-uploaded media item awaiting or having received
// a moderation decision. It is the aggregate root of the review state machine:
// PENDING -> APPROVED or PENDING -> REJECTED, with no transition out of a
// terminal state.
type Submission struct {
	shared.BaseAggregateRoot
	UserID       uuid.UUID
	File         FileReference
	Category     string
	Description  string
	Status       Status
	RejectReason string
	ReviewerID   *uuid.UUID
	ReviewedAt   *time.Time
}

// NewSubmission creates a pending submission after validating its metadata
func NewSubmission(userID uuid.UUID, file FileReference, category, description string) (*Submission, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User id cannot be empty")
	}
	if err := validateFile(file); err != nil {
		return nil, err
	}
	if err := ValidateCategory(category); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	return &Submission{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		File:              file,
		Category:          strings.TrimSpace(category),
		Description:       strings.TrimSpace(description),
		Status:            StatusPending,
	}, nil
}

func validateFile(file FileReference) error {
	if file.StorageKey == "" {
		return shared.NewDomainError("INVALID_FILE", "File storage key cannot be empty")
	}
	if !file.Type.IsValid() {
		return shared.NewDomainError("INVALID_FILE_TYPE", "File type must be IMAGE or VIDEO")
	}
	if file.SizeBytes <= 0 {
		return shared.NewDomainError("INVALID_FILE_SIZE", "File size must be positive")
	}
	return nil
}

// ValidateCategory checks the category length bounds
func ValidateCategory(category string) error {
	category = strings.TrimSpace(category)
	if len(category) < MinCategoryLength {
		return shared.NewDomainError("INVALID_CATEGORY", "Category must be at least 2 characters")
	}
	if len(category) > MaxCategoryLength {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 50 characters")
	}
	return nil
}

// ValidateDescription checks the description length bound
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	return nil
}

// ValidateRejectReason checks a reject reason for presence and length
func ValidateRejectReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REJECT_REASON", "Reject reason is required")
	}
	if len(reason) > MaxRejectReasonLen {
		return shared.NewDomainError("INVALID_REJECT_REASON", "Reject reason cannot exceed 200 characters")
	}
	return nil
}

// Approve transitions the submission to APPROVED, recording the reviewer.
// Only a PENDING submission may be approved.
func (s *Submission) Approve(reviewerID uuid.UUID) error {
	if s.Status != StatusPending {
		return shared.ErrInvalidState
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer id cannot be empty")
	}

	now := time.Now()
	s.Status = StatusApproved
	s.ReviewerID = &reviewerID
	s.ReviewedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// Reject transitions the submission to REJECTED with a mandatory reason.
// Only a PENDING submission may be rejected.
func (s *Submission) Reject(reviewerID uuid.UUID, reason string) error {
	if s.Status != StatusPending {
		return shared.ErrInvalidState
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer id cannot be empty")
	}
	if err := ValidateRejectReason(reason); err != nil {
		return err
	}

	now := time.Now()
	s.Status = StatusRejected
	s.RejectReason = strings.TrimSpace(reason)
	s.ReviewerID = &reviewerID
	s.ReviewedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// CanBeDeletedBy reports whether the given user may delete this submission.
// Only the owner may delete, and only while the submission is still PENDING.
func (s *Submission) CanBeDeletedBy(userID uuid.UUID) error {
	if s.UserID != userID {
		// Ownership is not disclosed to other users
		return shared.ErrNotFound
	}
	if s.Status != StatusPending {
		return shared.ErrInvalidState
	}
	return nil
}
