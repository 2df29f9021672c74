package settings

import (
	"context"
	"errors"
	"strconv"

	appaudit "github.com/creatorhub/backend/internal/application/audit"
	appsubmission "github.com/creatorhub/backend/internal/application/submission"
	"github.com/creatorhub/backend/internal/domain/audit"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettingsService reads and writes the runtime-tunable platform settings
type SettingsService struct {
	settingRepo shared.SettingRepository
	userRepo    identity.UserRepository
	policy      identity.AccessPolicy
	auditor     appaudit.Recorder
	logger      *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(
	settingRepo shared.SettingRepository,
	userRepo identity.UserRepository,
	policy identity.AccessPolicy,
	auditor appaudit.Recorder,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		settingRepo: settingRepo,
		userRepo:    userRepo,
		policy:      policy,
		auditor:     auditor,
		logger:      logger,
	}
}

// LoadLimits assembles submission limits from stored settings, falling back
// to defaults for missing or unparsable values
func (s *SettingsService) LoadLimits(ctx context.Context) (appsubmission.Limits, error) {
	limits := appsubmission.DefaultLimits()

	if setting, err := s.settingRepo.Get(ctx, shared.SettingMaxFileSize); err == nil {
		if v, perr := strconv.ParseInt(setting.Value, 10, 64); perr == nil && v > 0 {
			limits.MaxFileSizeBytes = v
		}
	} else if !errors.Is(err, shared.ErrNotFound) {
		return limits, err
	}

	if setting, err := s.settingRepo.Get(ctx, shared.SettingBonusCap); err == nil {
		if v, perr := decimal.NewFromString(setting.Value); perr == nil && v.IsPositive() {
			limits.BonusCap = v
		}
	} else if !errors.Is(err, shared.ErrNotFound) {
		return limits, err
	}

	if setting, err := s.settingRepo.Get(ctx, shared.SettingMaxPageSize); err == nil {
		if v, perr := strconv.Atoi(setting.Value); perr == nil && v > 0 {
			limits.MaxPageSize = v
		}
	} else if !errors.Is(err, shared.ErrNotFound) {
		return limits, err
	}

	return limits, nil
}

// All returns every stored setting. Admin only.
func (s *SettingsService) All(ctx context.Context, actorID uuid.UUID) ([]shared.Setting, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.settingRepo.All(ctx)
}

// Update validates and stores the given settings. Admin only. Unknown keys
// and unparsable values are rejected before anything is written.
func (s *SettingsService) Update(ctx context.Context, actorID uuid.UUID, values map[string]string, reqCtx audit.RequestContext) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if len(values) == 0 {
		return shared.NewDomainError("EMPTY_UPDATE", "No settings to update")
	}

	for key, value := range values {
		if err := validateSetting(key, value); err != nil {
			return err
		}
	}

	for key, value := range values {
		if err := s.settingRepo.Set(ctx, key, value); err != nil {
			return err
		}
	}

	s.logger.Info("Settings updated",
		zap.String("admin_id", actorID.String()),
		zap.Int("count", len(values)))

	s.auditor.Record(ctx, actorID, audit.ActionSettingsUpdated, values, reqCtx)

	return nil
}

func (s *SettingsService) requireAdmin(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !s.policy.CanManageSettings(actor) {
		return shared.ErrForbidden
	}
	return nil
}

func validateSetting(key, value string) error {
	switch key {
	case shared.SettingMaxFileSize:
		if v, err := strconv.ParseInt(value, 10, 64); err != nil || v <= 0 {
			return shared.NewDomainError("INVALID_SETTING", "submission.max_file_size must be a positive integer")
		}
	case shared.SettingBonusCap:
		if v, err := decimal.NewFromString(value); err != nil || !v.IsPositive() {
			return shared.NewDomainError("INVALID_SETTING", "submission.bonus_cap must be a positive number")
		}
	case shared.SettingMaxPageSize:
		if v, err := strconv.Atoi(value); err != nil || v <= 0 {
			return shared.NewDomainError("INVALID_SETTING", "list.max_page_size must be a positive integer")
		}
	default:
		return shared.NewDomainError("INVALID_SETTING", "Unknown setting key: "+key)
	}
	return nil
}
