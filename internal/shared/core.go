package shared

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// User represents a user in the system.
type User struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	AuthProvider    string     `json:"auth_provider"`
	HasAssignedGift bool       `json:"has_assigned_gift"`
	CreatedAt       time.Time  `json:"created_at"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}

// CreateUserRequest represents a request to create a new user.
type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
}

// TokenResponse represents the response containing JWT tokens.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
}

// Service defines the interface for user-related business logic.
type Service interface {
	Register(ctx context.Context, req CreateUserRequest) (*User, *TokenResponse, error)
	Login(ctx context.Context, email, password string) (*User, *TokenResponse, error)
	GoogleLogin(ctx context.Context, credential string) (*User, *TokenResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// UserDataForToken is an interface to abstract the user data needed for token generation.
type UserDataForToken interface {
	GetID() uuid.UUID
	GetEmail() string
	GetName() string
}

// TokenService defines the interface for JWT operations.
type TokenService interface {
	GenerateAccessToken(userData UserDataForToken) (string, time.Time, error)
	GenerateRefreshToken(userData UserDataForToken) (string, time.Time, error)
	ValidateToken(tokenString string) (*Claims, error)
	ParseRefreshToken(refreshTokenString string) (*Claims, error)
}

// Claims represents the JWT claims structure.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	jwt.RegisteredClaims
}

// GoogleProfile holds the identity fields read from a verified Google ID token.
type GoogleProfile struct {
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
}

// GoogleTokenVerifier verifies a Google Sign-In ID token and returns the
// profile it asserts. Implementations own audience and signature checks.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleProfile, error)
}
