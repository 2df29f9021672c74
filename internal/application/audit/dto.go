package audit

import (
	"time"

	"github.com/creatorhub/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AdminLogResponse represents an admin log entry in API responses
type AdminLogResponse struct {
	ID        uuid.UUID `json:"id"`
	AdminID   uuid.UUID `json:"admin_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToAdminLogResponse converts a domain entry to a response DTO
func ToAdminLogResponse(entry *audit.AdminLog) AdminLogResponse {
	return AdminLogResponse{
		ID:        entry.ID,
		AdminID:   entry.AdminID,
		Action:    entry.Action,
		Details:   entry.Details,
		IP:        entry.IP,
		UserAgent: entry.UserAgent,
		CreatedAt: entry.CreatedAt,
	}
}

// ToAdminLogResponses converts a slice of domain entries to response DTOs
func ToAdminLogResponses(entries []*audit.AdminLog) []AdminLogResponse {
	responses := make([]AdminLogResponse, len(entries))
	for i, entry := range entries {
		responses[i] = ToAdminLogResponse(entry)
	}
	return responses
}
