package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingRepository implements SettingRepository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Get returns a single setting by key
func (r *GormSettingRepository) Get(ctx context.Context, key string) (*shared.Setting, error) {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	setting := model.ToDomain()
	return &setting, nil
}

// Set upserts a setting row
func (r *GormSettingRepository) Set(ctx context.Context, key, value string) error {
	model := models.SettingModel{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model).Error
}

// All returns every setting row ordered by key
func (r *GormSettingRepository) All(ctx context.Context) ([]shared.Setting, error) {
	var settingModels []models.SettingModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settingModels).Error; err != nil {
		return nil, err
	}

	settings := make([]shared.Setting, len(settingModels))
	for i := range settingModels {
		settings[i] = settingModels[i].ToDomain()
	}
	return settings, nil
}

// Ensure GormSettingRepository implements SettingRepository
var _ shared.SettingRepository = (*GormSettingRepository)(nil)
