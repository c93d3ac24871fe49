// File: internal/user/service_test.go
package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/config"
	"github.com/RulerDevansh/SecretSanta/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock type for user.Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) MarkGiftAssigned(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// stubTokenService issues fixed tokens without caring about the payload.
type stubTokenService struct{}

func (stubTokenService) GenerateAccessToken(shared.UserDataForToken) (string, time.Time, error) {
	return "access-token", time.Now().Add(15 * time.Minute), nil
}

func (stubTokenService) GenerateRefreshToken(shared.UserDataForToken) (string, time.Time, error) {
	return "refresh-token", time.Now().Add(7 * 24 * time.Hour), nil
}

func (stubTokenService) ValidateToken(string) (*shared.Claims, error) {
	return nil, errors.New("not implemented")
}

func (stubTokenService) ParseRefreshToken(string) (*shared.Claims, error) {
	return nil, errors.New("not implemented")
}

// stubGoogleVerifier returns a canned profile for one known credential.
type stubGoogleVerifier struct {
	profile *shared.GoogleProfile
	err     error
}

func (s stubGoogleVerifier) Verify(context.Context, string) (*shared.GoogleProfile, error) {
	return s.profile, s.err
}

func newUserService(repo Repository, verifier shared.GoogleTokenVerifier) *ServiceImplementation {
	if verifier == nil {
		verifier = stubGoogleVerifier{err: common.ErrUnauthorized}
	}
	return NewService(repo, stubTokenService{}, verifier, &config.Config{}, zap.NewNop())
}

func TestRegister_CreatesLocalUserWithHashedPassword(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, common.ErrNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Run(func(args mock.Arguments) {
		u := args.Get(1).(*User)
		u.ID = uuid.New()
		assert.Equal(t, ProviderLocal, u.AuthProvider)
		require.NotNil(t, u.PasswordHash)
		assert.NotEqual(t, "plaintext-password", *u.PasswordHash)
		assert.True(t, common.CheckPasswordHash("plaintext-password", *u.PasswordHash))
	}).Return(nil)

	u, tokens, err := newUserService(repo, nil).Register(context.Background(), shared.CreateUserRequest{
		Name:     "New User",
		Email:    "new@example.com",
		Password: "plaintext-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
	assert.False(t, u.HasAssignedGift)
	assert.Equal(t, "access-token", tokens.AccessToken)
	repo.AssertExpectations(t)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindByEmail", mock.Anything, "taken@example.com").Return(&User{}, nil)

	_, _, err := newUserService(repo, nil).Register(context.Background(), shared.CreateUserRequest{
		Name:     "Someone",
		Email:    "taken@example.com",
		Password: "plaintext-password",
	})
	assert.ErrorIs(t, err, common.ErrConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	hash, err := common.HashPassword("correct-horse")
	require.NoError(t, err)

	repo := new(MockRepository)
	repo.On("FindByEmail", mock.Anything, "bob@example.com").Return(&User{
		BaseModel:    common.BaseModel{ID: uuid.New()},
		Name:         "Bob",
		Email:        "bob@example.com",
		PasswordHash: &hash,
		AuthProvider: ProviderLocal,
	}, nil)

	u, tokens, err := newUserService(repo, nil).Login(context.Background(), "bob@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)
	assert.Equal(t, "Bearer", tokens.TokenType)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := common.HashPassword("correct-horse")
	require.NoError(t, err)

	repo := new(MockRepository)
	repo.On("FindByEmail", mock.Anything, "bob@example.com").Return(&User{
		BaseModel:    common.BaseModel{ID: uuid.New()},
		Email:        "bob@example.com",
		PasswordHash: &hash,
	}, nil)

	_, _, err = newUserService(repo, nil).Login(context.Background(), "bob@example.com", "battery-staple")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, common.ErrNotFound)

	_, _, err := newUserService(repo, nil).Login(context.Background(), "ghost@example.com", "whatever-password")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogin_GoogleOnlyAccountHasNoPassword(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindByEmail", mock.Anything, "g@example.com").Return(&User{
		BaseModel:    common.BaseModel{ID: uuid.New()},
		Email:        "g@example.com",
		AuthProvider: ProviderGoogle,
	}, nil)

	_, _, err := newUserService(repo, nil).Login(context.Background(), "g@example.com", "any-password")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestGoogleLogin_CreatesAccountOnFirstSight(t *testing.T) {
	verifier := stubGoogleVerifier{profile: &shared.GoogleProfile{
		Subject:       "google-subject-1",
		Email:         "fresh@example.com",
		Name:          "Fresh User",
		EmailVerified: true,
	}}

	repo := new(MockRepository)
	repo.On("FindByEmail", mock.Anything, "fresh@example.com").Return(nil, common.ErrNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Run(func(args mock.Arguments) {
		u := args.Get(1).(*User)
		u.ID = uuid.New()
		assert.Equal(t, ProviderGoogle, u.AuthProvider)
		assert.Nil(t, u.PasswordHash)
	}).Return(nil)

	u, tokens, err := newUserService(repo, verifier).GoogleLogin(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, "fresh@example.com", u.Email)
	assert.NotEmpty(t, tokens.AccessToken)
	repo.AssertExpectations(t)
}

func TestGoogleLogin_ReusesExistingAccount(t *testing.T) {
	verifier := stubGoogleVerifier{profile: &shared.GoogleProfile{
		Subject: "google-subject-2",
		Email:   "known@example.com",
		Name:    "Known User",
	}}

	repo := new(MockRepository)
	repo.On("FindByEmail", mock.Anything, "known@example.com").Return(&User{
		BaseModel:    common.BaseModel{ID: uuid.New()},
		Name:         "Known User",
		Email:        "known@example.com",
		AuthProvider: ProviderGoogle,
	}, nil)

	u, _, err := newUserService(repo, verifier).GoogleLogin(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, "known@example.com", u.Email)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGoogleLogin_InvalidCredential(t *testing.T) {
	verifier := stubGoogleVerifier{err: common.ErrUnauthorized.WithDetails("Invalid Google credential.")}
	repo := new(MockRepository)

	_, _, err := newUserService(repo, verifier).GoogleLogin(context.Background(), "garbage")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}
