package submission

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	appledger "github.com/creatorhub/backend/internal/application/ledger"
	"github.com/creatorhub/backend/internal/domain/audit"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/ledger"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/domain/submission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSubmissionRepository is a mock implementation of submission.SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, sub *submission.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*submission.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*submission.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) UpdateReviewIfPending(ctx context.Context, sub *submission.Submission) (int64, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepository) BulkReviewPending(ctx context.Context, ids []uuid.UUID, status submission.Status, rejectReason string, reviewerID uuid.UUID, reviewedAt time.Time) (int64, error) {
	args := m.Called(ctx, ids, status, rejectReason, reviewerID, reviewedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubmissionRepository) List(ctx context.Context, filter submission.SubmissionFilter) ([]*submission.Submission, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*submission.Submission), args.Get(1).(int64), args.Error(2)
}

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

// MockPayoutRepository is a mock implementation of ledger.PayoutRepository
type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) Create(ctx context.Context, payout *ledger.Payout) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Payout), args.Error(1)
}

func (m *MockPayoutRepository) List(ctx context.Context, filter ledger.PayoutFilter) ([]*ledger.Payout, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*ledger.Payout), args.Get(1).(int64), args.Error(2)
}

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Store(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

// recorderStub captures audit calls without persisting anything
type recorderStub struct {
	actions []string
}

func (r *recorderStub) Record(_ context.Context, _ uuid.UUID, action string, _ any, _ audit.RequestContext) {
	r.actions = append(r.actions, action)
}

type serviceMocks struct {
	submissionRepo *MockSubmissionRepository
	userRepo       *MockUserRepository
	payoutRepo     *MockPayoutRepository
	storage        *MockObjectStorage
	recorder       *recorderStub
}

func newServiceWithMocks(limits Limits) (*SubmissionService, *serviceMocks) {
	m := &serviceMocks{
		submissionRepo: new(MockSubmissionRepository),
		userRepo:       new(MockUserRepository),
		payoutRepo:     new(MockPayoutRepository),
		storage:        new(MockObjectStorage),
		recorder:       &recorderStub{},
	}
	txScope := appledger.NewNoOpTransactionScope(m.userRepo, m.payoutRepo, m.submissionRepo)
	service := NewSubmissionService(
		m.submissionRepo, m.userRepo, m.storage, txScope,
		identity.NewAccessPolicy(), m.recorder, limits, zap.NewNop())
	return service, m
}

func newTestUser(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(uuid.NewString(), "Tester", role)
	require.NoError(t, err)
	return user
}

func newPendingSubmission(t *testing.T, userID uuid.UUID) *submission.Submission {
	t.Helper()
	sub, err := submission.NewSubmission(userID, submission.FileReference{
		URL:          "https://cdn.example.com/submissions/a.png",
		StorageKey:   "submissions/a.png",
		OriginalName: "a.png",
		Type:         submission.FileTypeImage,
		SizeBytes:    1024,
	}, "artwork", "a drawing")
	require.NoError(t, err)
	return sub
}

func TestSubmissionService_Create(t *testing.T) {
	user := newTestUser(t, identity.RoleUser)
	service, m := newServiceWithMocks(DefaultLimits())

	m.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	m.userRepo.On("Save", mock.Anything, user).Return(nil)
	m.storage.On("Store", mock.Anything, mock.AnythingOfType("string"), "image/png", mock.Anything, int64(2048)).
		Return("https://cdn.example.com/submissions/x.png", nil)
	m.submissionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *submission.Submission) bool {
		return s.UserID == user.ID && s.Status == submission.StatusPending
	})).Return(nil)

	resp, err := service.Create(context.Background(), user.ID, CreateInput{
		FileName:    "x.png",
		ContentType: "image/png",
		SizeBytes:   2048,
		Body:        strings.NewReader("fake image bytes"),
		Category:    "artwork",
		Description: "a drawing",
	})
	require.NoError(t, err)
	assert.Equal(t, submission.StatusPending.String(), resp.Status)
	assert.NotNil(t, user.LastSubmissionAt)
	m.submissionRepo.AssertExpectations(t)
}

func TestSubmissionService_Create_BannedUser(t *testing.T) {
	user := newTestUser(t, identity.RoleUser)
	user.Ban()
	service, m := newServiceWithMocks(DefaultLimits())
	m.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	_, err := service.Create(context.Background(), user.ID, CreateInput{
		FileName:    "x.png",
		ContentType: "image/png",
		SizeBytes:   2048,
		Body:        strings.NewReader("data"),
		Category:    "artwork",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "USER_BANNED", domainErr.Code)
	m.storage.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmissionService_Create_FileTooLarge(t *testing.T) {
	user := newTestUser(t, identity.RoleUser)
	limits := DefaultLimits()
	limits.MaxFileSizeBytes = 1000
	service, m := newServiceWithMocks(limits)
	m.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	_, err := service.Create(context.Background(), user.ID, CreateInput{
		FileName:    "x.png",
		ContentType: "image/png",
		SizeBytes:   1001,
		Body:        strings.NewReader("data"),
		Category:    "artwork",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FILE_TOO_LARGE", domainErr.Code)
}

func TestSubmissionService_Create_UnsupportedContentType(t *testing.T) {
	user := newTestUser(t, identity.RoleUser)
	service, m := newServiceWithMocks(DefaultLimits())
	m.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	_, err := service.Create(context.Background(), user.ID, CreateInput{
		FileName:    "x.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
		Body:        strings.NewReader("data"),
		Category:    "artwork",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_FILE_TYPE", domainErr.Code)
}

func TestSubmissionService_Create_InsertFailureCleansUpBlob(t *testing.T) {
	user := newTestUser(t, identity.RoleUser)
	service, m := newServiceWithMocks(DefaultLimits())

	m.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	m.storage.On("Store", mock.Anything, mock.AnythingOfType("string"), "image/png", mock.Anything, int64(2048)).
		Return("https://cdn.example.com/submissions/x.png", nil)
	m.submissionRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	m.storage.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)

	_, err := service.Create(context.Background(), user.ID, CreateInput{
		FileName:    "x.png",
		ContentType: "image/png",
		SizeBytes:   2048,
		Body:        strings.NewReader("data"),
		Category:    "artwork",
	})
	require.Error(t, err)
	m.storage.AssertCalled(t, "Delete", mock.Anything, mock.AnythingOfType("string"))
}

func TestSubmissionService_Review_ApproveWithBonus(t *testing.T) {
	reviewer := newTestUser(t, identity.RoleModerator)
	owner := newTestUser(t, identity.RoleUser)
	sub := newPendingSubmission(t, owner.ID)

	service, m := newServiceWithMocks(DefaultLimits())
	m.userRepo.On("FindByID", mock.Anything, reviewer.ID).Return(reviewer, nil)
	m.userRepo.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)
	m.userRepo.On("Save", mock.Anything, owner).Return(nil)
	m.submissionRepo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)
	m.submissionRepo.On("UpdateReviewIfPending", mock.Anything, sub).Return(int64(1), nil)
	m.payoutRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *ledger.Payout) bool {
		return p.UserID == owner.ID && p.Amount.Equal(decimal.NewFromInt(25))
	})).Return(nil)

	resp, err := service.Review(context.Background(), reviewer.ID, sub.ID, ReviewInput{
		Approve: true,
		Bonus:   decimal.NewFromInt(25),
	}, audit.RequestContext{})
	require.NoError(t, err)
	assert.Equal(t, submission.StatusApproved.String(), resp.Status)
	assert.True(t, owner.Balance.Equal(decimal.NewFromInt(25)))
	assert.Contains(t, m.recorder.actions, audit.ActionSubmissionApproved)
	m.payoutRepo.AssertExpectations(t)
}

func TestSubmissionService_Review_ConcurrentReviewerLoses(t *testing.T) {
	reviewer := newTestUser(t, identity.RoleModerator)
	owner := newTestUser(t, identity.RoleUser)
	sub := newPendingSubmission(t, owner.ID)

	service, m := newServiceWithMocks(DefaultLimits())
	m.userRepo.On("FindByID", mock.Anything, reviewer.ID).Return(reviewer, nil)
	m.submissionRepo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)
	// The conditional update finds the row no longer PENDING
	m.submissionRepo.On("UpdateReviewIfPending", mock.Anything, sub).Return(int64(0), nil)

	_, err := service.Review(context.Background(), reviewer.ID, sub.ID, ReviewInput{
		Approve: true,
		Bonus:   decimal.NewFromInt(25),
	}, audit.RequestContext{})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	// The loser must not credit a bonus
	m.payoutRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmissionService_Review_BonusOverCap(t *testing.T) {
	reviewer := newTestUser(t, identity.RoleModerator)
	sub := newPendingSubmission(t, uuid.New())

	limits := DefaultLimits()
	limits.BonusCap = decimal.NewFromInt(100)
	service, m := newServiceWithMocks(limits)
	m.userRepo.On("FindByID", mock.Anything, reviewer.ID).Return(reviewer, nil)

	_, err := service.Review(context.Background(), reviewer.ID, sub.ID, ReviewInput{
		Approve: true,
		Bonus:   decimal.NewFromInt(101),
	}, audit.RequestContext{})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "BONUS_TOO_LARGE", domainErr.Code)
}

func TestSubmissionService_Review_RegularUserForbidden(t *testing.T) {
	actor := newTestUser(t, identity.RoleUser)
	service, m := newServiceWithMocks(DefaultLimits())
	m.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)

	_, err := service.Review(context.Background(), actor.ID, uuid.New(), ReviewInput{
		Approve: true,
	}, audit.RequestContext{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestSubmissionService_Review_RejectRequiresReason(t *testing.T) {
	reviewer := newTestUser(t, identity.RoleModerator)
	owner := newTestUser(t, identity.RoleUser)
	sub := newPendingSubmission(t, owner.ID)

	service, m := newServiceWithMocks(DefaultLimits())
	m.userRepo.On("FindByID", mock.Anything, reviewer.ID).Return(reviewer, nil)
	m.submissionRepo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)

	_, err := service.Review(context.Background(), reviewer.ID, sub.ID, ReviewInput{
		Approve: false,
	}, audit.RequestContext{})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_REJECT_REASON", domainErr.Code)
}

func TestSubmissionService_BulkReview(t *testing.T) {
	reviewer := newTestUser(t, identity.RoleModerator)
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	service, m := newServiceWithMocks(DefaultLimits())
	m.userRepo.On("FindByID", mock.Anything, reviewer.ID).Return(reviewer, nil)
	m.submissionRepo.On("BulkReviewPending", mock.Anything, ids, submission.StatusRejected,
		"low quality", reviewer.ID, mock.AnythingOfType("time.Time")).Return(int64(2), nil)

	affected, err := service.BulkReview(context.Background(), reviewer.ID, BulkReviewInput{
		IDs:          ids,
		Approve:      false,
		RejectReason: "low quality",
	}, audit.RequestContext{})
	require.NoError(t, err)

	// One of the three was already reviewed and is skipped, not failed
	assert.Equal(t, int64(2), affected)
	assert.Contains(t, m.recorder.actions, audit.ActionSubmissionBulkReviewed)
}

func TestSubmissionService_BulkReview_EmptyBatch(t *testing.T) {
	reviewer := newTestUser(t, identity.RoleModerator)
	service, m := newServiceWithMocks(DefaultLimits())
	m.userRepo.On("FindByID", mock.Anything, reviewer.ID).Return(reviewer, nil)

	_, err := service.BulkReview(context.Background(), reviewer.ID, BulkReviewInput{
		Approve: true,
	}, audit.RequestContext{})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMPTY_BATCH", domainErr.Code)
}

func TestSubmissionService_Delete_OwnerPending(t *testing.T) {
	owner := newTestUser(t, identity.RoleUser)
	sub := newPendingSubmission(t, owner.ID)

	service, m := newServiceWithMocks(DefaultLimits())
	m.submissionRepo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)
	m.submissionRepo.On("Delete", mock.Anything, sub.ID).Return(nil)
	m.storage.On("Delete", mock.Anything, sub.File.StorageKey).Return(nil)

	require.NoError(t, service.Delete(context.Background(), owner.ID, sub.ID))
	m.storage.AssertExpectations(t)
}

func TestSubmissionService_Delete_NonOwnerSeesNotFound(t *testing.T) {
	owner := newTestUser(t, identity.RoleUser)
	other := newTestUser(t, identity.RoleUser)
	sub := newPendingSubmission(t, owner.ID)

	service, m := newServiceWithMocks(DefaultLimits())
	m.submissionRepo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)

	err := service.Delete(context.Background(), other.ID, sub.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	m.submissionRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSubmissionService_Delete_ReviewedSubmission(t *testing.T) {
	owner := newTestUser(t, identity.RoleUser)
	sub := newPendingSubmission(t, owner.ID)
	require.NoError(t, sub.Approve(uuid.New()))

	service, m := newServiceWithMocks(DefaultLimits())
	m.submissionRepo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)

	err := service.Delete(context.Background(), owner.ID, sub.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestSubmissionService_Get_OtherUserSeesNotFound(t *testing.T) {
	owner := newTestUser(t, identity.RoleUser)
	other := newTestUser(t, identity.RoleUser)
	sub := newPendingSubmission(t, owner.ID)

	service, m := newServiceWithMocks(DefaultLimits())
	m.userRepo.On("FindByID", mock.Anything, other.ID).Return(other, nil)
	m.submissionRepo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)

	_, err := service.Get(context.Background(), other.ID, sub.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSubmissionService_Get_StaffSeesAll(t *testing.T) {
	owner := newTestUser(t, identity.RoleUser)
	staff := newTestUser(t, identity.RoleModerator)
	sub := newPendingSubmission(t, owner.ID)

	service, m := newServiceWithMocks(DefaultLimits())
	m.userRepo.On("FindByID", mock.Anything, staff.ID).Return(staff, nil)
	m.submissionRepo.On("FindByID", mock.Anything, sub.ID).Return(sub, nil)

	resp, err := service.Get(context.Background(), staff.ID, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, resp.ID)
}

func TestSubmissionService_List_RegularUserPinnedToOwnRows(t *testing.T) {
	actor := newTestUser(t, identity.RoleUser)
	other := newTestUser(t, identity.RoleUser)

	service, m := newServiceWithMocks(DefaultLimits())
	m.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	m.submissionRepo.On("List", mock.Anything, mock.MatchedBy(func(f submission.SubmissionFilter) bool {
		return f.UserID != nil && *f.UserID == actor.ID
	})).Return([]*submission.Submission{}, int64(0), nil)

	_, _, err := service.List(context.Background(), actor.ID, ListInput{UserID: &other.ID})
	require.NoError(t, err)
	m.submissionRepo.AssertExpectations(t)
}

func TestSubmissionService_List_InvalidStatus(t *testing.T) {
	actor := newTestUser(t, identity.RoleModerator)
	service, m := newServiceWithMocks(DefaultLimits())
	m.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)

	_, _, err := service.List(context.Background(), actor.ID, ListInput{Status: "ARCHIVED"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}

func TestSubmissionService_List_PageSizeClampedToLimit(t *testing.T) {
	actor := newTestUser(t, identity.RoleModerator)

	limits := DefaultLimits()
	limits.MaxPageSize = 50
	service, m := newServiceWithMocks(limits)
	m.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	m.submissionRepo.On("List", mock.Anything, mock.MatchedBy(func(f submission.SubmissionFilter) bool {
		return f.PageSize == 50
	})).Return([]*submission.Submission{}, int64(0), nil)

	_, _, err := service.List(context.Background(), actor.ID, ListInput{PageSize: 500})
	require.NoError(t, err)
	m.submissionRepo.AssertExpectations(t)
}
