// File: internal/auth/service.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/RulerDevansh/SecretSanta/internal/config"
	"github.com/RulerDevansh/SecretSanta/internal/platform/crypto"
	"github.com/RulerDevansh/SecretSanta/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type JWTService struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewJWTService creates a new JWT token service.
func NewJWTService(cfg *config.Config, logger *zap.Logger) shared.TokenService {
	return &JWTService{cfg: cfg, logger: logger}
}

func (s *JWTService) GenerateAccessToken(userData shared.UserDataForToken) (string, time.Time, error) {
	expirationTime := time.Now().Add(s.cfg.JWTAccessTokenExpiry)

	claims := &shared.Claims{
		UserID: userData.GetID(),
		Email:  userData.GetEmail(),
		Name:   userData.GetName(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "secret_santa_backend",
			Subject:   userData.GetID().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("could not sign access token: %w", err)
	}
	return tokenString, expirationTime, nil
}

func (s *JWTService) GenerateRefreshToken(userData shared.UserDataForToken) (string, time.Time, error) {
	expirationTime := time.Now().Add(s.cfg.JWTRefreshTokenExpiry)
	// Each refresh token carries an opaque identifier so individual tokens
	// can be distinguished and, later, revoked.
	tokenID, err := crypto.GenerateSecureRandomString(16)
	if err != nil {
		s.logger.Error("Failed to generate refresh token ID", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("could not generate refresh token ID: %w", err)
	}
	claims := &shared.Claims{
		UserID: userData.GetID(),
		Email:  userData.GetEmail(),
		Name:   userData.GetName(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "secret_santa_backend_refresh",
			Subject:   userData.GetID().String(),
			ID:        tokenID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		s.logger.Error("Failed to sign refresh token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("could not sign refresh token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// ValidateToken validates a JWT token and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*shared.Claims, error) {
	claims := &shared.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if parsed, ok := token.Claims.(*shared.Claims); ok && token.Valid {
		return parsed, nil
	}
	return nil, errors.New("invalid token claims")
}

func (s *JWTService) ParseRefreshToken(refreshTokenString string) (*shared.Claims, error) {
	return s.ValidateToken(refreshTokenString)
}
