package persistence

import (
	"context"

	"github.com/creatorhub/backend/internal/domain/audit"
	"github.com/creatorhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAdminLogRepository implements AdminLogRepository using GORM
type GormAdminLogRepository struct {
	db *gorm.DB
}

// NewGormAdminLogRepository creates a new GormAdminLogRepository
func NewGormAdminLogRepository(db *gorm.DB) *GormAdminLogRepository {
	return &GormAdminLogRepository{db: db}
}

// Create appends a log entry
func (r *GormAdminLogRepository) Create(ctx context.Context, entry *audit.AdminLog) error {
	model := models.AdminLogModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// List returns log entries matching the filter, newest first, with the total count
func (r *GormAdminLogRepository) List(ctx context.Context, filter audit.AdminLogFilter) ([]*audit.AdminLog, int64, error) {
	var logModels []models.AdminLogModel
	var total int64

	countQuery := r.applyConditions(r.db.WithContext(ctx).Model(&models.AdminLogModel{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyConditions(r.db.WithContext(ctx).Model(&models.AdminLogModel{}), filter)
	field := ValidateSortField(filter.OrderBy, AdminLogSortFields, "created_at")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&logModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*audit.AdminLog, len(logModels))
	for i := range logModels {
		entries[i] = logModels[i].ToDomain()
	}
	return entries, total, nil
}

// applyConditions applies the filter's where clauses
func (r *GormAdminLogRepository) applyConditions(query *gorm.DB, filter audit.AdminLogFilter) *gorm.DB {
	if filter.AdminID != nil {
		query = query.Where("admin_id = ?", *filter.AdminID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at < ?", *filter.DateTo)
	}
	return query
}

// Ensure GormAdminLogRepository implements AdminLogRepository
var _ audit.AdminLogRepository = (*GormAdminLogRepository)(nil)
