// File: internal/wish/handler.go
package wish

import (
	"errors"
	"strings"

	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler exposes wish submission and status endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("WishHandler")}
}

// RegisterRoutes mounts wish routes onto the given router group. They hang
// off the group resource since a wish only exists within a group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	wishRoutes := router.Group("/groups/:code/wish", authMW)
	{
		wishRoutes.POST("", h.submitWish)
		wishRoutes.GET("/status", h.wishStatus)
	}
}

func (h *Handler) submitWish(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	var req SubmitWishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrors)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	result, err := h.service.Submit(c.Request.Context(), code, userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Wish submitted. Your Secret Santa has been notified.", result)
}

func (h *Handler) wishStatus(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	status, err := h.service.Status(c.Request.Context(), code, userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", status)
}
