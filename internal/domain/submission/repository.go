package submission

import (
	"context"
	"time"

	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubmissionFilter holds filter options for listing submissions
type SubmissionFilter struct {
	shared.Filter
	UserID   *uuid.UUID
	Status   *Status
	Category string
	DateFrom *time.Time
	DateTo   *time.Time
}

// SubmissionRepository defines the persistence interface for submissions.
//
// Review writes are conditional on the row still being PENDING so that two
// concurrent reviewers cannot both take effect: the losing writer sees zero
// affected rows and reports shared.ErrInvalidState upstream.
type SubmissionRepository interface {
	// Create persists a new submission
	Create(ctx context.Context, sub *Submission) error

	// FindByID finds a submission by id
	FindByID(ctx context.Context, id uuid.UUID) (*Submission, error)

	// UpdateReviewIfPending persists the review fields (status, reject reason,
	// reviewer, review timestamp) of an already-transitioned aggregate, guarded
	// by "status = PENDING" in the database. Returns the number of rows
	// affected: 0 means another reviewer won the race.
	UpdateReviewIfPending(ctx context.Context, sub *Submission) (int64, error)

	// BulkReviewPending applies one terminal decision to every submission in
	// ids that is still PENDING, as a single conditional update. Terminal
	// submissions are skipped silently. Returns the number of rows changed.
	BulkReviewPending(ctx context.Context, ids []uuid.UUID, status Status, rejectReason string, reviewerID uuid.UUID, reviewedAt time.Time) (int64, error)

	// Delete removes a submission row
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns submissions matching the filter, newest first, with the
	// total count
	List(ctx context.Context, filter SubmissionFilter) ([]*Submission, int64, error)
}
