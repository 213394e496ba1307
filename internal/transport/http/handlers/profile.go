package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/barisuyucak/nobetpazari/internal/transport/http/middleware"
	"github.com/barisuyucak/nobetpazari/internal/usecase"
)

// ProfileHandler serves the authenticated user's profile.
type ProfileHandler struct {
	profiles *usecase.ProfileService
}

func NewProfileHandler(profiles *usecase.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterRoutes binds profile endpoints. All of them require a session.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.Me)
}

var profileErrorCases = []ErrorCase{
	{Err: usecase.ErrProfileNotFound, Status: http.StatusNotFound, Message: "profile not found"},
	{Err: usecase.ErrAccountNotVerified, Status: http.StatusForbidden, Message: "account not verified"},
	{Err: usecase.ErrProfileUnrecoverable, Status: http.StatusNotFound, Message: "profile not found"},
}

// Me returns the caller's profile, rebuilding it from staged registration
// fields when the original write was lost.
func (h *ProfileHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	profile, err := h.profiles.Reconcile(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, profileErrorCases, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(*profile))
}
