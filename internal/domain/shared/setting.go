package shared

import (
	"context"
	"time"
)

// Setting is a single key/value row from the settings relation.
// Runtime-tunable limits (max upload size, bonus cap) live here so operators
// can adjust them without a redeploy.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Well-known setting keys
const (
	SettingMaxFileSize = "submission.max_file_size"
	SettingBonusCap    = "submission.bonus_cap"
	SettingMaxPageSize = "list.max_page_size"
)

// SettingRepository provides access to the settings relation
type SettingRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) ([]Setting, error)
}
