// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/config"
	"github.com/RulerDevansh/SecretSanta/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceImplementation implements the shared.Service interface.
type ServiceImplementation struct {
	repo           Repository
	tokenService   shared.TokenService
	googleVerifier shared.GoogleTokenVerifier
	cfg            *config.Config
	logger         *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(
	repo Repository,
	tokenService shared.TokenService,
	googleVerifier shared.GoogleTokenVerifier,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:           repo,
		tokenService:   tokenService,
		googleVerifier: googleVerifier,
		cfg:            cfg,
		logger:         logger,
	}
}

// Register creates a new local user.
func (s *ServiceImplementation) Register(ctx context.Context, req shared.CreateUserRequest) (*shared.User, *shared.TokenResponse, error) {
	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, nil, common.ErrConflict.WithDetails("Email already registered.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	hashedPassword, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser := &User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &hashedPassword,
		AuthProvider: ProviderLocal,
	}

	if err := s.repo.Create(ctx, dbUser); err != nil {
		s.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", req.Email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, nil, apiErr
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokenResponse, err := s.issueTokens(dbUser)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("User registered successfully", zap.String("userID", dbUser.ID.String()))
	return ToShared(dbUser), tokenResponse, nil
}

// Login authenticates a local user by email and password.
func (s *ServiceImplementation) Login(ctx context.Context, email, password string) (*shared.User, *shared.TokenResponse, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", email))
			return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err), zap.String("email", email))
		return nil, nil, common.ErrInternalServer.WithDetails("Login failed due to an internal error.")
	}

	if dbUser.PasswordHash == nil || *dbUser.PasswordHash == "" {
		s.logger.Warn("Password login attempted for account without a password hash",
			zap.String("userID", dbUser.ID.String()), zap.String("provider", dbUser.AuthProvider))
		return nil, nil, common.ErrUnauthorized.WithDetails("Login with email/password not configured for this account.")
	}

	if !common.CheckPasswordHash(password, *dbUser.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	tokenResponse, err := s.issueTokens(dbUser)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("User logged in successfully", zap.String("userID", dbUser.ID.String()))
	return ToShared(dbUser), tokenResponse, nil
}

// GoogleLogin verifies the posted Google ID token and finds or creates the
// matching local account.
func (s *ServiceImplementation) GoogleLogin(ctx context.Context, credential string) (*shared.User, *shared.TokenResponse, error) {
	profile, err := s.googleVerifier.Verify(ctx, credential)
	if err != nil {
		return nil, nil, err
	}

	dbUser, err := s.repo.FindByEmail(ctx, profile.Email)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error("Error finding user by email for Google login", zap.Error(err), zap.String("email", profile.Email))
			return nil, nil, common.ErrInternalServer.WithDetails("Google login failed due to an internal error.")
		}

		dbUser = &User{
			Name:         profile.Name,
			Email:        profile.Email,
			AuthProvider: ProviderGoogle,
		}
		if err := s.repo.Create(ctx, dbUser); err != nil {
			s.logger.Error("Failed to create Google user", zap.Error(err), zap.String("email", profile.Email))
			if apiErr, ok := common.IsAPIError(err); ok {
				return nil, nil, apiErr
			}
			return nil, nil, common.ErrInternalServer.WithDetails("Could not create new user account.")
		}
		s.logger.Info("New Google user created", zap.String("userID", dbUser.ID.String()))
	}

	tokenResponse, err := s.issueTokens(dbUser)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Google login successful", zap.String("userID", dbUser.ID.String()))
	return ToShared(dbUser), tokenResponse, nil
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by ID", zap.String("userID", id.String()))
		} else {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return ToShared(dbUser), nil
}

func (s *ServiceImplementation) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return ToShared(dbUser), nil
}

func (s *ServiceImplementation) issueTokens(dbUser *User) (*shared.TokenResponse, error) {
	accessToken, accessExpiresAt, err := s.tokenService.GenerateAccessToken(dbUser)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not generate access token.")
	}

	refreshToken, _, err := s.tokenService.GenerateRefreshToken(dbUser)
	if err != nil {
		// Proceed without a refresh token; access token alone is usable.
		s.logger.Error("Failed to generate refresh token", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}

	return &shared.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    accessExpiresAt,
	}, nil
}
