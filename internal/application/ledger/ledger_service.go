package ledger

import (
	"context"
	"time"

	appaudit "github.com/creatorhub/backend/internal/application/audit"
	"github.com/creatorhub/backend/internal/domain/audit"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/ledger"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService handles payout ledger operations
type LedgerService struct {
	userRepo   identity.UserRepository
	payoutRepo ledger.PayoutRepository
	txScope    TransactionScope
	policy     identity.AccessPolicy
	auditor    appaudit.Recorder
	logger     *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	userRepo identity.UserRepository,
	payoutRepo ledger.PayoutRepository,
	txScope TransactionScope,
	policy identity.AccessPolicy,
	auditor appaudit.Recorder,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		userRepo:   userRepo,
		payoutRepo: payoutRepo,
		txScope:    txScope,
		policy:     policy,
		auditor:    auditor,
		logger:     logger,
	}
}

// CreditInput contains input for a manual balance credit
type CreditInput struct {
	UserID uuid.UUID
	Amount decimal.Decimal
	Reason string
}

// Credit adds to a user's balance and appends a payout row in one
// transaction. Staff only, and never against the actor's own account.
func (s *LedgerService) Credit(ctx context.Context, actorID uuid.UUID, input CreditInput, reqCtx audit.RequestContext) (*PayoutResponse, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModifyUser(actor, input.UserID) {
		return nil, shared.ErrForbidden
	}

	var payout *ledger.Payout
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		payout, err = CreditInTx(ctx, repos, input.UserID, input.Amount, input.Reason, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Balance credited",
		zap.String("user_id", input.UserID.String()),
		zap.String("admin_id", actorID.String()),
		zap.String("amount", payout.Amount.String()))

	s.auditor.Record(ctx, actorID, audit.ActionBalanceCredited, map[string]string{
		"user_id": input.UserID.String(),
		"amount":  payout.Amount.String(),
		"reason":  payout.Reason,
	}, reqCtx)

	response := ToPayoutResponse(payout)
	return &response, nil
}

// ListInput contains filter input for listing payouts
type ListInput struct {
	UserID   *uuid.UUID
	AdminID  *uuid.UUID
	Status   string
	DateFrom string
	DateTo   string
	Page     int
	PageSize int
}

// List returns payouts visible to the actor. Regular users see only their own
// rows; staff may filter across users.
func (s *LedgerService) List(ctx context.Context, actorID uuid.UUID, input ListInput) ([]PayoutResponse, int64, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}

	filter := ledger.PayoutFilter{
		Filter:  shared.DefaultFilter(),
		UserID:  input.UserID,
		AdminID: input.AdminID,
	}
	if !actor.Role.IsStaff() {
		// Non-staff actors are pinned to their own ledger
		filter.UserID = &actor.ID
		filter.AdminID = nil
	}

	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	filter.Normalize(100)

	if input.Status != "" {
		status := ledger.PayoutStatus(input.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown payout status")
		}
		filter.Status = &status
	}
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

	payouts, total, err := s.payoutRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToPayoutResponses(payouts), total, nil
}

// GetBalance returns a user's current balance
func (s *LedgerService) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return user.Balance, nil
}
