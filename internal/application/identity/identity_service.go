package identity

import (
	"context"
	"errors"
	"time"

	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// TokenBlacklist revokes issued tokens until their natural expiry
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// IdentityService resolves external provider identities into platform users
// and issues session tokens
type IdentityService struct {
	userRepo   identity.UserRepository
	provider   ProviderClient
	jwtService *auth.JWTService
	blacklist  TokenBlacklist
	admins     map[string]struct{}
	logger     *zap.Logger
}

// NewIdentityService creates a new identity service. adminExternalIDs lists
// provider account ids that are granted the ADMIN role on first resolve.
func NewIdentityService(
	userRepo identity.UserRepository,
	provider ProviderClient,
	jwtService *auth.JWTService,
	blacklist TokenBlacklist,
	adminExternalIDs []string,
	logger *zap.Logger,
) *IdentityService {
	admins := make(map[string]struct{}, len(adminExternalIDs))
	for _, id := range adminExternalIDs {
		admins[id] = struct{}{}
	}

	return &IdentityService{
		userRepo:   userRepo,
		provider:   provider,
		jwtService: jwtService,
		blacklist:  blacklist,
		admins:     admins,
		logger:     logger,
	}
}

// AuthorizeURL returns the provider login URL for the given state value
func (s *IdentityService) AuthorizeURL(state string) string {
	return s.provider.AuthorizeURL(state)
}

// Login completes the OAuth code flow: exchanges the code, resolves the
// provider identity into a platform user and issues a token pair.
func (s *IdentityService) Login(ctx context.Context, code string) (*LoginResult, error) {
	accessToken, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("Provider code exchange failed", zap.Error(err))
		return nil, shared.ErrExternalIdentity
	}

	ident, err := s.provider.FetchIdentity(ctx, accessToken)
	if err != nil {
		s.logger.Warn("Provider identity fetch failed", zap.Error(err))
		return nil, shared.ErrExternalIdentity
	}

	user, created, err := s.Resolve(ctx, *ident)
	if err != nil {
		return nil, err
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Nickname: user.Nickname,
		Role:     user.Role.String(),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.Bool("created", created))

	userResp := ToUserResponse(user)
	return &LoginResult{
		User:      userResp,
		TokenPair: *tokenPair,
		IsNewUser: created,
	}, nil
}

// Resolve finds or creates the platform user behind a provider identity.
// Repeated resolves of the same account id always land on the same user row;
// a non-empty provider display name overwrites the stored nickname.
func (s *IdentityService) Resolve(ctx context.Context, ident Identity) (*identity.User, bool, error) {
	user, err := s.userRepo.FindByExternalID(ctx, ident.AccountID)
	if err == nil {
		if ident.DisplayName != "" && ident.DisplayName != user.Nickname {
			if err := user.SetNickname(ident.DisplayName); err == nil {
				if err := s.userRepo.Save(ctx, user); err != nil {
					s.logger.Warn("Failed to refresh nickname from provider",
						zap.String("user_id", user.ID.String()),
						zap.Error(err))
				}
			}
		}
		return user, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	role := identity.RoleUser
	if _, ok := s.admins[ident.AccountID]; ok {
		role = identity.RoleAdmin
	}

	user, err = identity.NewUser(ident.AccountID, ident.DisplayName, role)
	if err != nil {
		return nil, false, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Two first logins can race on the unique external id; the loser
		// adopts the row the winner inserted.
		if errors.Is(err, shared.ErrAlreadyExists) {
			existing, findErr := s.userRepo.FindByExternalID(ctx, ident.AccountID)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	s.logger.Info("New user created from provider identity",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	return user, true, nil
}

// Refresh validates a refresh token and issues a new token pair for the
// current state of the account
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	if revoked, err := s.blacklist.IsRevoked(ctx, claims.ID); err != nil {
		return nil, err
	} else if revoked {
		return nil, shared.ErrUnauthorized
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Nickname: user.Nickname,
		Role:     user.Role.String(),
	})
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	// The spent refresh token cannot be replayed
	if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
		if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
			s.logger.Warn("Failed to revoke spent refresh token", zap.Error(err))
		}
	}

	userResp := ToUserResponse(user)
	return &LoginResult{User: userResp, TokenPair: *tokenPair}, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *IdentityService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, ttl)
}
