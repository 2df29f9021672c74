package ledger

import (
	"time"

	"github.com/creatorhub/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutResponse represents a payout ledger row in API responses
type PayoutResponse struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	Status      string          `json:"status"`
	AdminID     uuid.UUID       `json:"admin_id"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToPayoutResponse converts a domain payout to a response DTO
func ToPayoutResponse(payout *ledger.Payout) PayoutResponse {
	return PayoutResponse{
		ID:          payout.ID,
		UserID:      payout.UserID,
		Amount:      payout.Amount,
		Reason:      payout.Reason,
		Status:      payout.Status.String(),
		AdminID:     payout.AdminID,
		CompletedAt: payout.CompletedAt,
		CreatedAt:   payout.CreatedAt,
	}
}

// ToPayoutResponses converts a slice of domain payouts to response DTOs
func ToPayoutResponses(payouts []*ledger.Payout) []PayoutResponse {
	responses := make([]PayoutResponse, len(payouts))
	for i, payout := range payouts {
		responses[i] = ToPayoutResponse(payout)
	}
	return responses
}
