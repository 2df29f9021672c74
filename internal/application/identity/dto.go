package identity

import (
	"time"

	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserResponse represents a user in API responses
type UserResponse struct {
	ID               uuid.UUID       `json:"id"`
	ExternalID       string          `json:"external_id"`
	Nickname         string          `json:"nickname"`
	Balance          decimal.Decimal `json:"balance"`
	Role             string          `json:"role"`
	Banned           bool            `json:"banned"`
	LastSubmissionAt *time.Time      `json:"last_submission_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToUserResponse converts a domain user to a response DTO
func ToUserResponse(user *identity.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		ExternalID:       user.ExternalID,
		Nickname:         user.Nickname,
		Balance:          user.Balance,
		Role:             user.Role.String(),
		Banned:           user.Banned,
		LastSubmissionAt: user.LastSubmissionAt,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
}

// ToUserResponses converts a slice of domain users to response DTOs
func ToUserResponses(users []*identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses
}

// LoginResult contains the outcome of a completed login
type LoginResult struct {
	User      UserResponse   `json:"user"`
	TokenPair auth.TokenPair `json:"tokens"`
	IsNewUser bool           `json:"is_new_user"`
}
