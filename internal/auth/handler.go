// File: internal/auth/handler.go
package auth

import (
	"errors"

	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/middleware"
	"github.com/RulerDevansh/SecretSanta/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	userService  shared.Service
	tokenService shared.TokenService
	logger       *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(
	userService shared.Service,
	tokenService shared.TokenService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userService:  userService,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/google", h.googleLogin)
		authGroup.POST("/refresh-token", h.refreshToken)
		authGroup.GET("/me", authMW, h.me)
	}
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Register: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	newUser, tokenResponse, err := h.userService.Register(c.Request.Context(), shared.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondCreated(c, "Registration successful.", gin.H{
		"user":  newUser,
		"token": tokenResponse,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	loggedInUser, tokenResponse, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Login successful.", gin.H{
		"user":  loggedInUser,
		"token": tokenResponse,
	})
}

func (h *Handler) googleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Google login: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Missing credential."))
		return
	}

	appUser, tokenResponse, err := h.userService.GoogleLogin(c.Request.Context(), req.Credential)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Google login successful.", gin.H{
		"user":  appUser,
		"token": tokenResponse,
	})
}

func (h *Handler) refreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Refresh token: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	claims, err := h.tokenService.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		h.logger.Warn("Refresh token validation failed", zap.Error(err))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired refresh token."))
		return
	}

	u, err := h.userService.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("User not found for valid refresh token claims", zap.String("userID", claims.UserID.String()), zap.Error(err))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User associated with refresh token not found."))
		return
	}

	newAccessToken, newAccessExpiresAt, err := h.tokenService.GenerateAccessToken(userTokenData{u})
	if err != nil {
		h.logger.Error("Failed to generate new access token during refresh", zap.Error(err), zap.String("userID", u.ID.String()))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not generate new access token."))
		return
	}

	common.RespondOK(c, "Token refreshed successfully.", &shared.TokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: req.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    newAccessExpiresAt,
	})
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	u, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", gin.H{"user": u})
}

// userTokenData adapts shared.User to shared.UserDataForToken for token refresh.
type userTokenData struct {
	u *shared.User
}

func (d userTokenData) GetID() uuid.UUID { return d.u.ID }
func (d userTokenData) GetEmail() string { return d.u.Email }
func (d userTokenData) GetName() string  { return d.u.Name }
