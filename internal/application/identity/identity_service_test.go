package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/creatorhub/backend/internal/domain/audit"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/infrastructure/auth"
	"github.com/creatorhub/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByExternalID(ctx context.Context, externalID string) (*identity.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

// MockProviderClient is a mock implementation of ProviderClient
type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) AuthorizeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockProviderClient) Exchange(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockProviderClient) FetchIdentity(ctx context.Context, accessToken string) (*Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Identity), args.Error(1)
}

// MockTokenBlacklist is a mock implementation of TokenBlacklist
type MockTokenBlacklist struct {
	mock.Mock
}

func (m *MockTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (m *MockTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

// recorderStub captures audit calls without persisting anything
type recorderStub struct {
	actions []string
}

func (r *recorderStub) Record(_ context.Context, _ uuid.UUID, action string, _ any, _ audit.RequestContext) {
	r.actions = append(r.actions, action)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret",
		RefreshSecret:          "test-refresh-secret",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "creatorhub-test",
	})
}

func newTestUser(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(uuid.NewString(), "Tester", role)
	require.NoError(t, err)
	return user
}

func newIdentityService(
	userRepo *MockUserRepository,
	provider *MockProviderClient,
	blacklist *MockTokenBlacklist,
	adminIDs []string,
) *IdentityService {
	return NewIdentityService(userRepo, provider, newTestJWTService(), blacklist, adminIDs, zap.NewNop())
}

func TestIdentityService_AuthorizeURL(t *testing.T) {
	provider := new(MockProviderClient)
	provider.On("AuthorizeURL", "opaque-state").Return("https://provider.example.com/authorize?state=opaque-state")

	service := newIdentityService(new(MockUserRepository), provider, new(MockTokenBlacklist), nil)

	url := service.AuthorizeURL("opaque-state")
	assert.Contains(t, url, "state=opaque-state")
	provider.AssertExpectations(t)
}

func TestIdentityService_Login_NewUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	provider := new(MockProviderClient)

	provider.On("Exchange", mock.Anything, "auth-code").Return("provider-token", nil)
	provider.On("FetchIdentity", mock.Anything, "provider-token").
		Return(&Identity{AccountID: "ext-123", DisplayName: "Alice"}, nil)
	userRepo.On("FindByExternalID", mock.Anything, "ext-123").Return(nil, shared.ErrNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	service := newIdentityService(userRepo, provider, new(MockTokenBlacklist), nil)

	result, err := service.Login(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.True(t, result.IsNewUser)
	assert.Equal(t, "Alice", result.User.Nickname)
	assert.Equal(t, identity.RoleUser.String(), result.User.Role)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
	userRepo.AssertExpectations(t)
}

func TestIdentityService_Login_AdminExternalID(t *testing.T) {
	userRepo := new(MockUserRepository)
	provider := new(MockProviderClient)

	provider.On("Exchange", mock.Anything, "auth-code").Return("provider-token", nil)
	provider.On("FetchIdentity", mock.Anything, "provider-token").
		Return(&Identity{AccountID: "ext-admin", DisplayName: "Root"}, nil)
	userRepo.On("FindByExternalID", mock.Anything, "ext-admin").Return(nil, shared.ErrNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
		return u.Role == identity.RoleAdmin
	})).Return(nil)

	service := newIdentityService(userRepo, provider, new(MockTokenBlacklist), []string{"ext-admin"})

	result, err := service.Login(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin.String(), result.User.Role)
}

func TestIdentityService_Login_ExchangeFails(t *testing.T) {
	provider := new(MockProviderClient)
	provider.On("Exchange", mock.Anything, "bad-code").Return("", errors.New("provider down"))

	service := newIdentityService(new(MockUserRepository), provider, new(MockTokenBlacklist), nil)

	_, err := service.Login(context.Background(), "bad-code")
	assert.ErrorIs(t, err, shared.ErrExternalIdentity)
}

func TestIdentityService_Login_IdentityFetchFails(t *testing.T) {
	provider := new(MockProviderClient)
	provider.On("Exchange", mock.Anything, "auth-code").Return("provider-token", nil)
	provider.On("FetchIdentity", mock.Anything, "provider-token").Return(nil, errors.New("timeout"))

	service := newIdentityService(new(MockUserRepository), provider, new(MockTokenBlacklist), nil)

	_, err := service.Login(context.Background(), "auth-code")
	assert.ErrorIs(t, err, shared.ErrExternalIdentity)
}

func TestIdentityService_Resolve_ExistingUser(t *testing.T) {
	existing := newTestUser(t, identity.RoleUser)
	userRepo := new(MockUserRepository)
	userRepo.On("FindByExternalID", mock.Anything, existing.ExternalID).Return(existing, nil)

	service := newIdentityService(userRepo, new(MockProviderClient), new(MockTokenBlacklist), nil)

	user, created, err := service.Resolve(context.Background(), Identity{AccountID: existing.ExternalID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, user.ID)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIdentityService_Resolve_RefreshesNickname(t *testing.T) {
	existing := newTestUser(t, identity.RoleUser)
	userRepo := new(MockUserRepository)
	userRepo.On("FindByExternalID", mock.Anything, existing.ExternalID).Return(existing, nil)
	userRepo.On("Save", mock.Anything, existing).Return(nil)

	service := newIdentityService(userRepo, new(MockProviderClient), new(MockTokenBlacklist), nil)

	user, _, err := service.Resolve(context.Background(), Identity{
		AccountID:   existing.ExternalID,
		DisplayName: "Renamed",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", user.Nickname)
	userRepo.AssertExpectations(t)
}

func TestIdentityService_Resolve_CreateRace(t *testing.T) {
	// The loser of a concurrent first login adopts the winner's row
	winner := newTestUser(t, identity.RoleUser)
	userRepo := new(MockUserRepository)
	userRepo.On("FindByExternalID", mock.Anything, winner.ExternalID).
		Return(nil, shared.ErrNotFound).Once()
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).
		Return(shared.ErrAlreadyExists)
	userRepo.On("FindByExternalID", mock.Anything, winner.ExternalID).
		Return(winner, nil).Once()

	service := newIdentityService(userRepo, new(MockProviderClient), new(MockTokenBlacklist), nil)

	user, created, err := service.Resolve(context.Background(), Identity{AccountID: winner.ExternalID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, user.ID)
}

func TestIdentityService_Refresh(t *testing.T) {
	user := newTestUser(t, identity.RoleUser)
	jwtService := newTestJWTService()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Nickname: user.Nickname,
		Role:     user.Role.String(),
	})
	require.NoError(t, err)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	blacklist := new(MockTokenBlacklist)
	blacklist.On("IsRevoked", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	blacklist.On("Revoke", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(nil)

	service := NewIdentityService(userRepo, new(MockProviderClient), jwtService, blacklist, nil, zap.NewNop())

	result, err := service.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.Equal(t, user.ID, result.User.ID)

	// The spent refresh token must be revoked
	blacklist.AssertCalled(t, "Revoke", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration"))
}

func TestIdentityService_Refresh_RevokedToken(t *testing.T) {
	user := newTestUser(t, identity.RoleUser)
	jwtService := newTestJWTService()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Nickname: user.Nickname,
		Role:     user.Role.String(),
	})
	require.NoError(t, err)

	blacklist := new(MockTokenBlacklist)
	blacklist.On("IsRevoked", mock.Anything, mock.AnythingOfType("string")).Return(true, nil)

	service := NewIdentityService(new(MockUserRepository), new(MockProviderClient), jwtService, blacklist, nil, zap.NewNop())

	_, err = service.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestIdentityService_Refresh_InvalidToken(t *testing.T) {
	service := newIdentityService(new(MockUserRepository), new(MockProviderClient), new(MockTokenBlacklist), nil)

	_, err := service.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestIdentityService_Logout(t *testing.T) {
	user := newTestUser(t, identity.RoleUser)
	jwtService := newTestJWTService()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Nickname: user.Nickname,
		Role:     user.Role.String(),
	})
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	blacklist := new(MockTokenBlacklist)
	blacklist.On("Revoke", mock.Anything, claims.ID, mock.AnythingOfType("time.Duration")).Return(nil)

	service := NewIdentityService(new(MockUserRepository), new(MockProviderClient), jwtService, blacklist, nil, zap.NewNop())

	require.NoError(t, service.Logout(context.Background(), claims))
	blacklist.AssertExpectations(t)
}
