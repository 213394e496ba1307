package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/barisuyucak/nobetpazari/internal/usecase"
)

// PasswordHandler exposes password reset endpoints.
type PasswordHandler struct {
	reset      *usecase.PasswordResetService
	dispatcher NotificationDispatcher
	logger     *zap.Logger
	isDev      bool
}

func NewPasswordHandler(reset *usecase.PasswordResetService, dispatcher NotificationDispatcher, logger *zap.Logger, isDev bool) *PasswordHandler {
	if dispatcher == nil {
		dispatcher = noopDispatcher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasswordHandler{
		reset:      reset,
		dispatcher: dispatcher,
		logger:     logger,
		isDev:      isDev,
	}
}

// RegisterRoutes binds password reset endpoints.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/password/reset", h.Request)
	r.POST("/password/reset/confirm", h.Confirm)
}

// Request issues a reset token. Unknown emails get the same response as known
// ones so the endpoint cannot be used to probe for accounts.
func (h *PasswordHandler) Request(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid reset payload"))
		return
	}

	issue, err := h.reset.Request(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, usecase.ErrAccountNotFound) {
			h.logger.Error("password reset request failed", zap.Error(err))
		}
		c.JSON(http.StatusOK, MessageResponse{Message: "if the account exists, a reset link has been sent"})
		return
	}

	if err := h.dispatcher.SendPasswordReset(c.Request.Context(), PasswordResetNotification{
		Email:    strings.TrimSpace(strings.ToLower(req.Email)),
		DevToken: issue.Token,
		Expires:  issue.ExpiresAt,
	}); err != nil {
		h.logger.Warn("password reset dispatch failed", zap.Error(err))
	}

	resp := gin.H{"message": "if the account exists, a reset link has been sent"}
	if h.isDev {
		resp["dev_token"] = issue.Token
		resp["expires_at"] = issue.ExpiresAt.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, resp)
}

var resetConfirmErrorCases = []ErrorCase{
	{Err: usecase.ErrResetTokenInvalid, Status: http.StatusBadRequest, Message: "reset token invalid"},
	{Err: usecase.ErrResetTokenExpired, Status: http.StatusBadRequest, Message: "reset token expired"},
	{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
}

// Confirm redeems the reset token and replaces the password.
func (h *PasswordHandler) Confirm(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid reset confirmation payload"))
		return
	}

	if err := h.reset.Confirm(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		RespondWithMappedError(c, err, resetConfirmErrorCases, http.StatusInternalServerError, "failed to reset password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}
