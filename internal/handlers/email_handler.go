package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AccountMailer sends the customer account emails
type AccountMailer interface {
	SendVerification(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// AccountEmailRequest names the recipient and the token to embed in the link
type AccountEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required"`
}

type EmailHandler struct {
	mailer AccountMailer
	logger *logrus.Entry
}

func NewEmailHandler(mailer AccountMailer, logger *logrus.Logger) *EmailHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EmailHandler{mailer: mailer, logger: logger.WithField("component", "email-handler")}
}

// SendVerification emails an account verification link
// @Summary Send verification email
// @Tags Internal
// @Accept json
// @Produce json
// @Param request body AccountEmailRequest true "Recipient and token"
// @Success 202 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /internal/emails/verification [post]
func (h *EmailHandler) SendVerification(c *gin.Context) {
	h.send(c, "verification", h.mailer.SendVerification)
}

// SendPasswordReset emails a password reset link
// @Summary Send password reset email
// @Tags Internal
// @Accept json
// @Produce json
// @Param request body AccountEmailRequest true "Recipient and token"
// @Success 202 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /internal/emails/password-reset [post]
func (h *EmailHandler) SendPasswordReset(c *gin.Context) {
	h.send(c, "password-reset", h.mailer.SendPasswordReset)
}

func (h *EmailHandler) send(c *gin.Context, kind string, send func(ctx context.Context, to, token string) error) {
	var req AccountEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := send(c.Request.Context(), req.Email, req.Token); err != nil {
		h.logger.WithError(err).WithField("kind", kind).Error("Failed to send account email")
		errorJSON(c, http.StatusBadGateway, "SEND_FAILED", "Failed to send email")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true})
}
