package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/usecase"
)

// RegistrationHandler exposes endpoints for account registration and
// verification.
type RegistrationHandler struct {
	registration *usecase.RegistrationService
	profiles     *usecase.ProfileService
	dispatcher   NotificationDispatcher
	logger       *zap.Logger
	isDev        bool
}

func NewRegistrationHandler(registration *usecase.RegistrationService, profiles *usecase.ProfileService, dispatcher NotificationDispatcher, logger *zap.Logger, isDev bool) *RegistrationHandler {
	if dispatcher == nil {
		dispatcher = noopDispatcher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationHandler{
		registration: registration,
		profiles:     profiles,
		dispatcher:   dispatcher,
		logger:       logger,
		isDev:        isDev,
	}
}

// RegisterRoutes binds registration endpoints.
func (h *RegistrationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/verify", h.Verify)
	r.POST("/resend-code", h.Resend)
}

var registerErrorCases = []ErrorCase{
	{Err: usecase.ErrIneligibleStudent, Status: http.StatusForbidden, Message: "student number and name do not match an eligible student"},
	{Err: usecase.ErrTermsNotAccepted, Status: http.StatusBadRequest, Message: "terms of service must be accepted"},
	{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
	{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
}

// Register creates a pending account and issues a verification code.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	sub := domain.RegistrationSubmission{
		Email:         strings.TrimSpace(req.Email),
		Password:      req.Password,
		FullName:      strings.TrimSpace(req.FullName),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		StudentNumber: strings.TrimSpace(req.StudentNumber),
		University:    strings.TrimSpace(req.University),
		Language:      domain.InstructionLanguage(req.Language),
		TermsAccepted: req.TermsAccepted,
	}

	user, verification, err := h.registration.Register(c.Request.Context(), sub)
	if err != nil {
		RespondWithMappedError(c, err, registerErrorCases, http.StatusInternalServerError, "failed to register")
		return
	}

	if err := h.dispatcher.SendVerificationCode(c.Request.Context(), VerificationNotification{
		Email:   user.Email,
		DevCode: verification.Code,
		Expires: verification.ExpiresAt,
	}); err != nil {
		h.logger.Warn("verification code dispatch failed", zap.Error(err))
	}

	resp := RegistrationResponse{
		User:                 newUserSummary(user),
		RequiresVerification: true,
		Message:              "verification required",
	}
	expires := verification.ExpiresAt.UTC().Format(time.RFC3339)
	resp.ExpiresAt = &expires

	// Raw codes leave the API only in development mode.
	if h.isDev && verification.Code != "" {
		code := verification.Code
		resp.DevCode = &code
	}

	c.JSON(http.StatusCreated, resp)
}

var verifyErrorCases = []ErrorCase{
	{Err: usecase.ErrVerificationCodeInvalid, Status: http.StatusBadRequest, Message: "verification code invalid"},
	{Err: usecase.ErrVerificationCodeExpired, Status: http.StatusBadRequest, Message: "verification code expired"},
	{Err: usecase.ErrAlreadyVerified, Status: http.StatusConflict, Message: "account already verified"},
}

// Verify confirms the code, activates the account, and materializes the
// staged profile.
func (h *RegistrationHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid verification payload"))
		return
	}

	user, fields, err := h.registration.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		RespondWithMappedError(c, err, verifyErrorCases, http.StatusInternalServerError, "failed to verify account")
		return
	}

	profile, err := h.profiles.Create(c.Request.Context(), user.ID, fields)
	if err != nil {
		// The account is active; the profile can still be rebuilt on next
		// login via reconciliation.
		h.logger.Error("profile creation after verification failed",
			zap.Error(err), zap.String("user_id", user.ID))
		c.JSON(http.StatusOK, VerifyResponse{
			User:    newUserSummary(user),
			Message: "account verified, profile pending",
		})
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{
		User:    newUserSummary(user),
		Profile: newProfileResponse(*profile),
		Message: "account verified",
	})
}

var resendErrorCases = []ErrorCase{
	{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
	{Err: usecase.ErrAlreadyVerified, Status: http.StatusConflict, Message: "account already verified"},
	{Err: usecase.ErrNoPendingRegistration, Status: http.StatusConflict, Message: "no registration in progress"},
}

// Resend issues a fresh verification code for a pending account.
func (h *RegistrationHandler) Resend(c *gin.Context) {
	var req ResendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid resend payload"))
		return
	}

	verification, err := h.registration.ResendCode(c.Request.Context(), req.Email)
	if err != nil {
		RespondWithMappedError(c, err, resendErrorCases, http.StatusInternalServerError, "failed to resend code")
		return
	}

	if err := h.dispatcher.SendVerificationCode(c.Request.Context(), VerificationNotification{
		Email:   strings.TrimSpace(strings.ToLower(req.Email)),
		DevCode: verification.Code,
		Expires: verification.ExpiresAt,
	}); err != nil {
		h.logger.Warn("verification code dispatch failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "verification code sent"})
}
