// File: internal/user/handler.go
package user

import (
	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/middleware"
	"github.com/RulerDevansh/SecretSanta/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service shared.Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service shared.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for user operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	userGroup := router.Group("/users", authMW)
	{
		userGroup.GET("/me", h.getMe)
	}
}

func (h *Handler) getMe(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	u, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", gin.H{"user": u})
}
