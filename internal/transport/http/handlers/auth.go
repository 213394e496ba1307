package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/barisuyucak/nobetpazari/internal/transport/http/middleware"
	"github.com/barisuyucak/nobetpazari/internal/usecase"
)

// AuthHandler exposes login and logout endpoints.
type AuthHandler struct {
	auth     *usecase.AuthService
	tokenTTL int
}

// NewAuthHandler constructs an auth handler. tokenTTLSeconds is surfaced in
// login responses as expires_in.
func NewAuthHandler(auth *usecase.AuthService, tokenTTLSeconds int) *AuthHandler {
	return &AuthHandler{auth: auth, tokenTTL: tokenTTLSeconds}
}

// RegisterRoutes binds public auth endpoints.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
}

// RegisterProtectedRoutes binds endpoints that require a session.
func (h *AuthHandler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/logout", h.Logout)
}

var loginErrorCases = []ErrorCase{
	{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid email or password"},
}

// Login verifies credentials and returns a signed access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	token, user, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, loginErrorCases, http.StatusInternalServerError, "failed to sign in")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.tokenTTL,
		User:        newUserSummary(user),
	})
}

// Logout removes the server-side session behind the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "no active session"))
		return
	}

	if err := h.auth.SignOut(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to sign out"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "signed out"})
}
