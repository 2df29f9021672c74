package audit

import (
	"context"
	"time"

	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AdminLogFilter holds filter options for listing admin log entries
type AdminLogFilter struct {
	shared.Filter
	AdminID  *uuid.UUID
	Action   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// AdminLogRepository defines the persistence interface for the admin action
/// log. Append-only: entries are never updated or deleted by the application.
type AdminLogRepository interface {
	// Create appends a log entry
	Create(ctx context.Context, entry *AdminLog) error

	// List returns log entries matching the filter, newest first, with the
	// total count
	List(ctx context.Context, filter AdminLogFilter) ([]*AdminLog, int64, error)
}
