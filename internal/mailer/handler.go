// File: internal/mailer/handler.go
package mailer

import (
	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes a single diagnostic endpoint for verifying SMTP
// configuration against a real mailbox.
type Handler struct {
	mailer Mailer
	logger *zap.Logger
}

func NewHandler(mailer Mailer, logger *zap.Logger) *Handler {
	return &Handler{mailer: mailer, logger: logger.Named("MailerHandler")}
}

// RegisterRoutes mounts mailer routes onto the given router group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	email := router.Group("/email")
	email.Use(authMW)
	{
		email.POST("/test", h.sendTestEmail)
	}
}

type testEmailRequest struct {
	To string `json:"to" binding:"omitempty,email"`
}

func (h *Handler) sendTestEmail(c *gin.Context) {
	var req testEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	to := req.To
	if to == "" {
		to = middleware.GetUserEmailFromContext(c)
	}
	if to == "" {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	msg := Message{
		To:      to,
		Subject: "Secret Santa test email",
		Text:    "This is a test email from your Secret Santa server. SMTP is configured correctly.",
	}
	if err := h.mailer.Deliver(c.Request.Context(), msg); err != nil {
		h.logger.Error("Test email delivery failed", zap.String("to", to), zap.Error(err))
		common.RespondWithError(c, common.ErrServiceUnavailable.WithDetails("Email delivery failed. Check the SMTP configuration."))
		return
	}

	common.RespondOK(c, "Test email sent.", gin.H{"sent_to": to})
}
