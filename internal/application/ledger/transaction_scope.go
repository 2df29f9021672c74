package ledger

import (
	"context"

	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/ledger"
	"github.com/creatorhub/backend/internal/domain/submission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionScope provides transactional access to the repositories touched
// by balance-affecting flows. When a function is executed within a scope, all
// repository operations are part of the same database transaction and commit
// or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories that
// participate in balance-affecting transactions. All repositories returned
// share the same underlying database transaction.
//
// The review flow writes three tables in one transaction: the submission's
// review fields, the user's balance, and a new payout ledger row. A partial
// write of any subset would let the balance and the ledger disagree.
type TransactionalRepositories interface {
	// UserRepo returns the user repository scoped to the current transaction
	UserRepo() identity.UserRepository
	// PayoutRepo returns the payout repository scoped to the current transaction
	PayoutRepo() ledger.PayoutRepository
	// SubmissionRepo returns the submission repository scoped to the current transaction
	SubmissionRepo() submission.SubmissionRepository
}

// CreditInTx credits a user's balance and appends the matching payout row
// using repositories from the current transaction. Both writes land or
// neither does.
func CreditInTx(ctx context.Context, repos TransactionalRepositories, userID uuid.UUID, amount decimal.Decimal, reason string, adminID uuid.UUID) (*ledger.Payout, error) {
	user, err := repos.UserRepo().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.CreditBalance(amount); err != nil {
		return nil, err
	}

	payout, err := ledger.NewCompletedPayout(userID, amount, reason, adminID)
	if err != nil {
		return nil, err
	}

	if err := repos.UserRepo().Save(ctx, user); err != nil {
		return nil, err
	}
	if err := repos.PayoutRepo().Create(ctx, payout); err != nil {
		return nil, err
	}

	return payout, nil
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	userRepo       identity.UserRepository
	payoutRepo     ledger.PayoutRepository
	submissionRepo submission.SubmissionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	userRepo identity.UserRepository,
	payoutRepo ledger.PayoutRepository,
	submissionRepo submission.SubmissionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		userRepo:       userRepo,
		payoutRepo:     payoutRepo,
		submissionRepo: submissionRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// UserRepo returns the user repository.
func (s *NoOpTransactionScope) UserRepo() identity.UserRepository {
	return s.userRepo
}

// PayoutRepo returns the payout repository.
func (s *NoOpTransactionScope) PayoutRepo() ledger.PayoutRepository {
	return s.payoutRepo
}

// SubmissionRepo returns the submission repository.
func (s *NoOpTransactionScope) SubmissionRepo() submission.SubmissionRepository {
	return s.submissionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
