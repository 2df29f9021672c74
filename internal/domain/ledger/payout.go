package ledger

import (
	"strings"
	"time"

	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutStatus represents the state of a payout record
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "PENDING"
	PayoutStatusCompleted PayoutStatus = "COMPLETED"
	PayoutStatusCancelled PayoutStatus = "CANCELLED"
)

// String returns the string representation of the payout status
func (s PayoutStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is known
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusCompleted, PayoutStatusCancelled:
		return true
	}
	return false
}

const maxReasonLength = 200

// Payout is an immutable ledger entry recording a balance credit and the admin
// who authorized it. Rows are never mutated after creation; corrections are
// new entries.
type Payout struct {
	shared.BaseEntity
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Reason      string
	Status      PayoutStatus
	AdminID     uuid.UUID
	CompletedAt *time.Time
}

// NewCompletedPayout creates a payout that is already COMPLETED. Every payout
// written by the moderation flows is created in this form.
func NewCompletedPayout(userID uuid.UUID, amount decimal.Decimal, reason string, adminID uuid.UUID) (*Payout, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User id cannot be empty")
	}
	if adminID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADMIN_ID", "Admin id cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payout amount must be positive")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Payout reason is required")
	}
	if len(reason) > maxReasonLength {
		return nil, shared.NewDomainError("INVALID_REASON", "Payout reason cannot exceed 200 characters")
	}

	now := time.Now()
	return &Payout{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Amount:      amount.Round(2),
		Reason:      reason,
		Status:      PayoutStatusCompleted,
		AdminID:     adminID,
		CompletedAt: &now,
	}, nil
}
