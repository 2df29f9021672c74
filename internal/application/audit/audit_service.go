package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/creatorhub/backend/internal/domain/audit"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder writes admin action log entries. Recording is best-effort: a
// failure to persist an entry must never fail the operation being audited.
type Recorder interface {
	Record(ctx context.Context, adminID uuid.UUID, action string, details any, reqCtx audit.RequestContext)
}

// AuditService records and serves the admin action log
type AuditService struct {
	logRepo  audit.AdminLogRepository
	userRepo identity.UserRepository
	policy   identity.AccessPolicy
	logger   *zap.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(
	logRepo audit.AdminLogRepository,
	userRepo identity.UserRepository,
	policy identity.AccessPolicy,
	logger *zap.Logger,
) *AuditService {
	return &AuditService{
		logRepo:  logRepo,
		userRepo: userRepo,
		policy:   policy,
		logger:   logger,
	}
}

// Record appends an admin log entry. Details are serialized to JSON; failures
// are logged and swallowed so the audited operation is never rolled back over
// its own audit trail.
func (s *AuditService) Record(ctx context.Context, adminID uuid.UUID, action string, details any, reqCtx audit.RequestContext) {
	detailsJSON := ""
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			s.logger.Warn("Failed to serialize audit details",
				zap.String("action", action),
				zap.Error(err))
		} else {
			detailsJSON = string(data)
		}
	}

	entry, err := audit.NewAdminLog(adminID, action, detailsJSON, reqCtx)
	if err != nil {
		s.logger.Warn("Failed to build audit log entry",
			zap.String("action", action),
			zap.Error(err))
		return
	}

	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to persist audit log entry",
			zap.String("action", action),
			zap.String("admin_id", adminID.String()),
			zap.Error(err))
	}
}

// ListInput contains filter input for listing admin log entries
type ListInput struct {
	AdminID  *uuid.UUID
	Action   string
	DateFrom string
	DateTo   string
	Page     int
	PageSize int
}

// List returns admin log entries. Only admins may read the log.
func (s *AuditService) List(ctx context.Context, actorID uuid.UUID, input ListInput) ([]AdminLogResponse, int64, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}
	if !s.policy.CanViewAuditLog(actor) {
		return nil, 0, shared.ErrForbidden
	}

	filter := audit.AdminLogFilter{
		Filter:  shared.DefaultFilter(),
		AdminID: input.AdminID,
		Action:  input.Action,
	}
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	filter.Normalize(100)

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

	entries, total, err := s.logRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToAdminLogResponses(entries), total, nil
}

var _ Recorder = (*AuditService)(nil)
