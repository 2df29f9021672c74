package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/domain/submission"
	"github.com/creatorhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubmissionRepository implements SubmissionRepository using GORM
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewGormSubmissionRepository creates a new GormSubmissionRepository
func NewGormSubmissionRepository(db *gorm.DB) *GormSubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// Create persists a new submission
func (r *GormSubmissionRepository) Create(ctx context.Context, sub *submission.Submission) error {
	model := models.SubmissionModelFromDomain(sub)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a submission by id
func (r *GormSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*submission.Submission, error) {
	var model models.SubmissionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// UpdateReviewIfPending persists the review fields of an already-transitioned
// aggregate. The update is guarded by status = PENDING so that only one of
// two concurrent reviewers takes effect; the loser sees zero affected rows.
func (r *GormSubmissionRepository) UpdateReviewIfPending(ctx context.Context, sub *submission.Submission) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SubmissionModel{}).
		Where("id = ? AND status = ?", sub.ID, submission.StatusPending).
		Updates(map[string]interface{}{
			"status":        sub.Status,
			"reject_reason": sub.RejectReason,
			"reviewer_id":   sub.ReviewerID,
			"reviewed_at":   sub.ReviewedAt,
			"updated_at":    sub.UpdatedAt,
			"version":       sub.Version,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// BulkReviewPending applies one terminal decision to every listed submission
// that is still PENDING, as a single conditional update.
func (r *GormSubmissionRepository) BulkReviewPending(ctx context.Context, ids []uuid.UUID, status submission.Status, rejectReason string, reviewerID uuid.UUID, reviewedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.SubmissionModel{}).
		Where("id IN ? AND status = ?", ids, submission.StatusPending).
		Updates(map[string]interface{}{
			"status":        status,
			"reject_reason": rejectReason,
			"reviewer_id":   reviewerID,
			"reviewed_at":   reviewedAt,
			"updated_at":    reviewedAt,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete removes a submission row
func (r *GormSubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SubmissionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// List returns submissions matching the filter, newest first, with the total count
func (r *GormSubmissionRepository) List(ctx context.Context, filter submission.SubmissionFilter) ([]*submission.Submission, int64, error) {
	var submissionModels []models.SubmissionModel
	var total int64

	countQuery := r.applyConditions(r.db.WithContext(ctx).Model(&models.SubmissionModel{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyConditions(r.db.WithContext(ctx).Model(&models.SubmissionModel{}), filter)
	field := ValidateSortField(filter.OrderBy, SubmissionSortFields, "created_at")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&submissionModels).Error; err != nil {
		return nil, 0, err
	}

	subs := make([]*submission.Submission, len(submissionModels))
	for i := range submissionModels {
		subs[i] = submissionModels[i].ToDomain()
	}
	return subs, total, nil
}

// applyConditions applies the filter's where clauses
func (r *GormSubmissionRepository) applyConditions(query *gorm.DB, filter submission.SubmissionFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at < ?", *filter.DateTo)
	}
	return query
}

// Ensure GormSubmissionRepository implements SubmissionRepository
var _ submission.SubmissionRepository = (*GormSubmissionRepository)(nil)
