package persistence

import (
	"context"
	"errors"

	"github.com/creatorhub/backend/internal/domain/ledger"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayoutRepository implements PayoutRepository using GORM
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewGormPayoutRepository creates a new GormPayoutRepository
func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// Create appends a payout row
func (r *GormPayoutRepository) Create(ctx context.Context, payout *ledger.Payout) error {
	model := models.PayoutModelFromDomain(payout)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a payout by id
func (r *GormPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payout, error) {
	var model models.PayoutModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns payouts matching the filter, newest first, with the total count
func (r *GormPayoutRepository) List(ctx context.Context, filter ledger.PayoutFilter) ([]*ledger.Payout, int64, error) {
	var payoutModels []models.PayoutModel
	var total int64

	countQuery := r.applyConditions(r.db.WithContext(ctx).Model(&models.PayoutModel{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyConditions(r.db.WithContext(ctx).Model(&models.PayoutModel{}), filter)
	field := ValidateSortField(filter.OrderBy, PayoutSortFields, "created_at")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&payoutModels).Error; err != nil {
		return nil, 0, err
	}

	payouts := make([]*ledger.Payout, len(payoutModels))
	for i := range payoutModels {
		payouts[i] = payoutModels[i].ToDomain()
	}
	return payouts, total, nil
}

// applyConditions applies the filter's where clauses
func (r *GormPayoutRepository) applyConditions(query *gorm.DB, filter ledger.PayoutFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.AdminID != nil {
		query = query.Where("admin_id = ?", *filter.AdminID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at < ?", *filter.DateTo)
	}
	return query
}

// Ensure GormPayoutRepository implements PayoutRepository
var _ ledger.PayoutRepository = (*GormPayoutRepository)(nil)
