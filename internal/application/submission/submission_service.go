package submission

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	appaudit "github.com/creatorhub/backend/internal/application/audit"
	appledger "github.com/creatorhub/backend/internal/application/ledger"
	"github.com/creatorhub/backend/internal/domain/audit"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/domain/submission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Limits holds the runtime-tunable bounds the submission flows enforce
type Limits struct {
	MaxFileSizeBytes int64
	BonusCap         decimal.Decimal
	MaxPageSize      int
}

// DefaultLimits returns the limits used when no stored settings exist
func DefaultLimits() Limits {
	return Limits{
		MaxFileSizeBytes: 50 << 20, // 50 MiB
		BonusCap:         decimal.NewFromInt(1000),
		MaxPageSize:      100,
	}
}

// SubmissionService handles the submission lifecycle: upload, moderation and
// deletion
type SubmissionService struct {
	submissionRepo submission.SubmissionRepository
	userRepo       identity.UserRepository
	storage        ObjectStorage
	txScope        appledger.TransactionScope
	policy         identity.AccessPolicy
	auditor        appaudit.Recorder
	limits         Limits
	logger         *zap.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	submissionRepo submission.SubmissionRepository,
	userRepo identity.UserRepository,
	storage ObjectStorage,
	txScope appledger.TransactionScope,
	policy identity.AccessPolicy,
	auditor appaudit.Recorder,
	limits Limits,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		storage:        storage,
		txScope:        txScope,
		policy:         policy,
		auditor:        auditor,
		limits:         limits,
		logger:         logger,
	}
}

// CreateInput contains input for creating a submission
type CreateInput struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
	Category    string
	Description string
}

// Create validates the upload, stores the blob and persists a PENDING
// submission. If the database insert fails the stored blob is removed on a
// best-effort basis.
func (s *SubmissionService) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*SubmissionResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanSubmit() {
		return nil, shared.NewDomainError("USER_BANNED", "Banned users cannot submit")
	}

	fileType, err := fileTypeFromContentType(input.ContentType)
	if err != nil {
		return nil, err
	}
	if input.SizeBytes <= 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size must be positive")
	}
	if input.SizeBytes > s.limits.MaxFileSizeBytes {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("File exceeds the maximum size of %d bytes", s.limits.MaxFileSizeBytes))
	}
	if err := submission.ValidateCategory(input.Category); err != nil {
		return nil, err
	}
	if err := submission.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	storageKey := buildStorageKey(input.FileName)
	url, err := s.storage.Store(ctx, storageKey, input.ContentType, input.Body, input.SizeBytes)
	if err != nil {
		s.logger.Error("Failed to store submission file",
			zap.String("storage_key", storageKey),
			zap.Error(err))
		return nil, shared.ErrStorage
	}

	sub, err := submission.NewSubmission(userID, submission.FileReference{
		URL:          url,
		StorageKey:   storageKey,
		OriginalName: input.FileName,
		Type:         fileType,
		SizeBytes:    input.SizeBytes,
	}, input.Category, input.Description)
	if err != nil {
		s.cleanupBlob(ctx, storageKey)
		return nil, err
	}

	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		s.cleanupBlob(ctx, storageKey)
		return nil, err
	}

	user.RecordSubmission(sub.CreatedAt)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Warn("Failed to record last submission time",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	s.logger.Info("Submission created",
		zap.String("submission_id", sub.ID.String()),
		zap.String("user_id", userID.String()))

	response := ToSubmissionResponse(sub)
	return &response, nil
}

func (s *SubmissionService) cleanupBlob(ctx context.Context, storageKey string) {
	if err := s.storage.Delete(ctx, storageKey); err != nil {
		s.logger.Warn("Failed to clean up orphaned blob",
			zap.String("storage_key", storageKey),
			zap.Error(err))
	}
}

func fileTypeFromContentType(contentType string) (submission.FileType, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return submission.FileTypeImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return submission.FileTypeVideo, nil
	default:
		return "", shared.NewDomainError("INVALID_FILE_TYPE", "Only image and video uploads are accepted")
	}
}

func buildStorageKey(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return "submissions/" + uuid.NewString() + ext
}

// ReviewInput contains input for a single review decision
type ReviewInput struct {
	Approve      bool
	RejectReason string
	Bonus        decimal.Decimal
}

// Review applies a terminal moderation decision to one submission. The review
// fields, the optional bonus credit and its payout row are written in a single
// transaction; a concurrent reviewer losing the conditional update gets
// shared.ErrInvalidState and no balance change.
func (s *SubmissionService) Review(ctx context.Context, actorID, submissionID uuid.UUID, input ReviewInput, reqCtx audit.RequestContext) (*SubmissionResponse, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanReviewSubmissions(actor) {
		return nil, shared.ErrForbidden
	}

	if input.Approve && input.Bonus.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Bonus cannot be negative")
	}
	if input.Approve && input.Bonus.GreaterThan(s.limits.BonusCap) {
		return nil, shared.NewDomainError("BONUS_TOO_LARGE",
			fmt.Sprintf("Bonus exceeds the cap of %s", s.limits.BonusCap.String()))
	}

	sub, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if input.Approve {
		if err := sub.Approve(actorID); err != nil {
			return nil, err
		}
	} else {
		if err := sub.Reject(actorID, input.RejectReason); err != nil {
			return nil, err
		}
	}

	err = s.txScope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		affected, err := repos.SubmissionRepo().UpdateReviewIfPending(ctx, sub)
		if err != nil {
			return err
		}
		if affected == 0 {
			// Another reviewer decided first
			return shared.ErrInvalidState
		}

		if input.Approve && input.Bonus.IsPositive() {
			reason := fmt.Sprintf("Approved submission %s", sub.ID)
			if _, err := appledger.CreditInTx(ctx, repos, sub.UserID, input.Bonus, reason, actorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := audit.ActionSubmissionApproved
	if !input.Approve {
		action = audit.ActionSubmissionRejected
	}
	details := map[string]string{
		"submission_id": sub.ID.String(),
		"user_id":       sub.UserID.String(),
	}
	if input.Approve && input.Bonus.IsPositive() {
		details["bonus"] = input.Bonus.String()
	}
	if !input.Approve {
		details["reject_reason"] = sub.RejectReason
	}
	s.auditor.Record(ctx, actorID, action, details, reqCtx)

	s.logger.Info("Submission reviewed",
		zap.String("submission_id", sub.ID.String()),
		zap.String("status", sub.Status.String()),
		zap.String("reviewer_id", actorID.String()))

	response := ToSubmissionResponse(sub)
	return &response, nil
}

// BulkReviewInput contains input for a bulk review decision
type BulkReviewInput struct {
	IDs          []uuid.UUID
	Approve      bool
	RejectReason string
}

// BulkReview applies one decision to every submission in the batch that is
// still PENDING. Already-reviewed submissions are skipped, not failed. Bulk
// decisions never carry a bonus.
func (s *SubmissionService) BulkReview(ctx context.Context, actorID uuid.UUID, input BulkReviewInput, reqCtx audit.RequestContext) (int64, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return 0, err
	}
	if !s.policy.CanReviewSubmissions(actor) {
		return 0, shared.ErrForbidden
	}

	if len(input.IDs) == 0 {
		return 0, shared.NewDomainError("EMPTY_BATCH", "No submission ids given")
	}

	status := submission.StatusApproved
	reason := ""
	if !input.Approve {
		if err := submission.ValidateRejectReason(input.RejectReason); err != nil {
			return 0, err
		}
		status = submission.StatusRejected
		reason = strings.TrimSpace(input.RejectReason)
	}

	var affected int64
	err = s.txScope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		affected, err = repos.SubmissionRepo().BulkReviewPending(ctx, input.IDs, status, reason, actorID, time.Now())
		return err
	})
	if err != nil {
		return 0, err
	}

	s.auditor.Record(ctx, actorID, audit.ActionSubmissionBulkReviewed, map[string]any{
		"requested": len(input.IDs),
		"affected":  affected,
		"status":    status.String(),
	}, reqCtx)

	s.logger.Info("Submissions bulk reviewed",
		zap.Int("requested", len(input.IDs)),
		zap.Int64("affected", affected),
		zap.String("status", status.String()))

	return affected, nil
}

// Delete removes a submission and its blob. Only the owner may delete, and
// only while the submission is still PENDING.
func (s *SubmissionService) Delete(ctx context.Context, actorID, submissionID uuid.UUID) error {
	sub, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return err
	}
	if err := sub.CanBeDeletedBy(actorID); err != nil {
		return err
	}

	if err := s.submissionRepo.Delete(ctx, submissionID); err != nil {
		return err
	}

	// The row is gone; a leaked blob is only logged
	s.cleanupBlob(ctx, sub.File.StorageKey)

	s.logger.Info("Submission deleted",
		zap.String("submission_id", submissionID.String()),
		zap.String("user_id", actorID.String()))

	return nil
}

// Get returns one submission. Owners see their own; staff see everything.
func (s *SubmissionService) Get(ctx context.Context, actorID, submissionID uuid.UUID) (*SubmissionResponse, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	sub, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != actorID && !actor.Role.IsStaff() {
		// Existence is not disclosed to other users
		return nil, shared.ErrNotFound
	}

	response := ToSubmissionResponse(sub)
	return &response, nil
}

// ListInput contains filter input for listing submissions
type ListInput struct {
	UserID   *uuid.UUID
	Status   string
	Category string
	DateFrom string
	DateTo   string
	Page     int
	PageSize int
}

// List returns submissions matching the filter. Non-staff actors are pinned
// to their own submissions regardless of the requested filter.
func (s *SubmissionService) List(ctx context.Context, actorID uuid.UUID, input ListInput) ([]SubmissionResponse, int64, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}

	filter := submission.SubmissionFilter{
		Filter:   shared.DefaultFilter(),
		UserID:   input.UserID,
		Category: strings.TrimSpace(input.Category),
	}
	if !actor.Role.IsStaff() {
		filter.UserID = &actor.ID
	}

	if input.Status != "" {
		status := submission.Status(input.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown submission status")
		}
		filter.Status = &status
	}
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	filter.Normalize(s.limits.MaxPageSize)

	if input.DateFrom != "" {
		if t, err := time.Parse("2006-01-02", input.DateFrom); err == nil {
			filter.DateFrom = &t
		}
	}
	if input.DateTo != "" {
		if t, err := time.Parse("2006-01-02", input.DateTo); err == nil {
			// Include the end date
			t = t.Add(24 * time.Hour)
			filter.DateTo = &t
		}
	}

	subs, total, err := s.submissionRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToSubmissionResponses(subs), total, nil
}
