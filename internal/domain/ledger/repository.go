package ledger

import (
	"context"
	"time"

	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PayoutFilter holds filter options for listing payouts
type PayoutFilter struct {
	shared.Filter
	UserID   *uuid.UUID
	AdminID  *uuid.UUID
	Status   *PayoutStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// PayoutRepository defines the persistence interface for the payout ledger.
// The ledger is append-only: there is no update or delete path.
type PayoutRepository interface {
	// Create appends a payout row
	Create(ctx context.Context, payout *Payout) error

	// FindByID finds a payout by id
	FindByID(ctx context.Context, id uuid.UUID) (*Payout, error)

	// List returns payouts matching the filter, newest first, with the total
	// count
	List(ctx context.Context, filter PayoutFilter) ([]*Payout, int64, error)
}
