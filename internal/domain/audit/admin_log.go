package audit

import (
	"strings"

	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Action tags for privileged operations
const (
	ActionSubmissionApproved     = "SUBMISSION_APPROVED"
	ActionSubmissionRejected     = "SUBMISSION_REJECTED"
	ActionSubmissionBulkReviewed = "SUBMISSION_BULK_REVIEWED"
	ActionBalanceCredited        = "BALANCE_CREDITED"
	ActionUserUpdated            = "USER_UPDATED"
	ActionSettingsUpdated        = "SETTINGS_UPDATED"
)

// RequestContext carries requester metadata captured at the HTTP edge
type RequestContext struct {
	IP        string
	UserAgent string
}

// AdminLog is an append-only record of a privileged administrative action
type AdminLog struct {
	shared.BaseEntity
	AdminID   uuid.UUID
	Action    string
	Details   string
	IP        string
	UserAgent string
}

// NewAdminLog creates a new admin log entry
func NewAdminLog(adminID uuid.UUID, action, details string, reqCtx RequestContext) (*AdminLog, error) {
	if adminID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADMIN_ID", "Admin id cannot be empty")
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Action tag cannot be empty")
	}

	return &AdminLog{
		BaseEntity: shared.NewBaseEntity(),
		AdminID:    adminID,
		Action:     action,
		Details:    details,
		IP:         reqCtx.IP,
		UserAgent:  reqCtx.UserAgent,
	}, nil
}
