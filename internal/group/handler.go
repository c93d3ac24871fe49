// File: internal/group/handler.go
package group

import (
	"errors"

	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for group handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new group handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for group operations. All routes
// require authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	groupRoutes := router.Group("/groups", authMW)
	{
		groupRoutes.GET("", h.listMyGroups)
		groupRoutes.POST("", h.createGroup)
		groupRoutes.POST("/join", h.joinGroup)
		groupRoutes.GET("/:code", h.getGroupByCode)
		groupRoutes.PATCH("/:code/start", h.startSecretSanta)
		groupRoutes.POST("/:code/leave", h.leaveGroup)
		groupRoutes.DELETE("/:code", h.deleteGroup)
	}
}

func (h *Handler) createGroup(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create group: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), userID, req.Title)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Group created.", resp)
}

func (h *Handler) joinGroup(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Join group: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	resp, err := h.service.Join(c.Request.Context(), userID, req.Code)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Joined group.", resp)
}

func (h *Handler) listMyGroups(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	summaries, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", gin.H{"groups": summaries})
}

func (h *Handler) getGroupByCode(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	resp, err := h.service.GetByCode(c.Request.Context(), userID, c.Param("code"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", resp)
}

func (h *Handler) startSecretSanta(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	resp, err := h.service.Start(c.Request.Context(), userID, c.Param("code"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Secret Santa started.", resp)
}

func (h *Handler) leaveGroup(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if err := h.service.Leave(c.Request.Context(), userID, c.Param("code")); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Left group successfully.", nil)
}

func (h *Handler) deleteGroup(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if err := h.service.Delete(c.Request.Context(), userID, c.Param("code")); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Group deleted successfully.", nil)
}
