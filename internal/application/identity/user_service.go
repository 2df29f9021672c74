package identity

import (
	"context"

	appaudit "github.com/creatorhub/backend/internal/application/audit"
	"github.com/creatorhub/backend/internal/domain/audit"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
	policy   identity.AccessPolicy
	auditor  appaudit.Recorder
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	policy identity.AccessPolicy,
	auditor appaudit.Recorder,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		policy:   policy,
		auditor:  auditor,
		logger:   logger,
	}
}

// UpdateUserInput contains the admin patch for a user. Nil fields are left
// untouched.
type UpdateUserInput struct {
	Nickname *string
	Banned   *bool
	Role     *string
	Balance  *decimal.Decimal
}

// Get returns a user's profile. Users may read themselves; staff may read
// anyone.
func (s *UserService) Get(ctx context.Context, actorID, userID uuid.UUID) (*UserResponse, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actorID != userID && !actor.Role.IsStaff() {
		return nil, shared.ErrForbidden
	}

	user := actor
	if actorID != userID {
		user, err = s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Update applies an admin patch to a user. Staff may edit other users; role
// changes additionally require the ADMIN role. Nobody can edit themself
// through this path.
func (s *UserService) Update(ctx context.Context, actorID, targetID uuid.UUID, input UpdateUserInput, reqCtx audit.RequestContext) (*UserResponse, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModifyUser(actor, targetID) {
		return nil, shared.ErrForbidden
	}
	if input.Role != nil && !s.policy.CanChangeRole(actor, targetID) {
		return nil, shared.ErrForbidden
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}

	if input.Nickname != nil {
		if err := target.SetNickname(*input.Nickname); err != nil {
			return nil, err
		}
		changes["nickname"] = target.Nickname
	}
	if input.Role != nil {
		if err := target.ChangeRole(identity.Role(*input.Role)); err != nil {
			return nil, err
		}
		changes["role"] = target.Role.String()
	}
	if input.Banned != nil {
		if *input.Banned {
			target.Ban()
		} else {
			target.Unban()
		}
		changes["banned"] = target.Banned
	}
	if input.Balance != nil {
		target.OverwriteBalance(*input.Balance)
		changes["balance"] = target.Balance.String()
	}

	if len(changes) == 0 {
		return nil, shared.NewDomainError("EMPTY_UPDATE", "No fields to update")
	}

	if err := s.userRepo.Save(ctx, target); err != nil {
		return nil, err
	}

	s.logger.Info("User updated by admin",
		zap.String("user_id", targetID.String()),
		zap.String("admin_id", actorID.String()))

	changes["user_id"] = targetID.String()
	s.auditor.Record(ctx, actorID, audit.ActionUserUpdated, changes, reqCtx)

	response := ToUserResponse(target)
	return &response, nil
}

// ListInput contains filter input for listing users
type ListInput struct {
	Role     string
	Banned   *bool
	Search   string
	Page     int
	PageSize int
}

// List returns users matching the filter. Staff only.
func (s *UserService) List(ctx context.Context, actorID uuid.UUID, input ListInput) ([]UserResponse, int64, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}
	if !actor.Role.IsStaff() {
		return nil, 0, shared.ErrForbidden
	}

	filter := identity.UserFilter{
		Filter: shared.DefaultFilter(),
		Banned: input.Banned,
		Search: input.Search,
	}
	if input.Role != "" {
		role := identity.Role(input.Role)
		if !role.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_ROLE", "Unknown role")
		}
		filter.Role = &role
	}
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	filter.Normalize(100)

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}
