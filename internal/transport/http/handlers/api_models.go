package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary describes a minimal view of an account returned by the API.
type UserSummary struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	Status       domain.UserStatus `json:"status"`
	RegisteredAt time.Time         `json:"registered_at"`
	VerifiedAt   *time.Time        `json:"verified_at,omitempty"`
}

func newUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:           user.ID,
		Email:        user.Email,
		Status:       user.Status,
		RegisteredAt: user.RegisteredAt,
		VerifiedAt:   user.VerifiedAt,
	}
}

// RegistrationRequest defines the account registration payload.
type RegistrationRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	FullName      string `json:"full_name" binding:"required"`
	PhoneNumber   string `json:"phone_number" binding:"required"`
	StudentNumber string `json:"student_number" binding:"required"`
	University    string `json:"university" binding:"required"`
	Language      string `json:"language" binding:"required"`
	TermsAccepted bool   `json:"terms_accepted"`
}

// RegistrationResponse contains registration results and next steps.
type RegistrationResponse struct {
	User                 UserSummary `json:"user"`
	RequiresVerification bool        `json:"requires_verification"`
	Message              string      `json:"message,omitempty"`
	ExpiresAt            *string     `json:"expires_at,omitempty"`
	DevCode              *string     `json:"dev_code,omitempty"`
}

// VerifyRequest defines the verification code confirmation payload.
type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// VerifyResponse is returned after a successful verification.
type VerifyResponse struct {
	User    UserSummary     `json:"user"`
	Profile ProfileResponse `json:"profile"`
	Message string          `json:"message"`
}

// ResendCodeRequest asks for a fresh verification code.
type ResendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse describes the response returned for a successful login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        UserSummary `json:"user"`
}

// PasswordResetRequest asks for a reset token for the given email.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest redeems a reset token for a new password.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ProfileResponse is the student identity attached to an account.
type ProfileResponse struct {
	UserID        string    `json:"user_id"`
	FullName      string    `json:"full_name"`
	StudentNumber string    `json:"student_number"`
	University    string    `json:"university"`
	PhoneNumber   string    `json:"phone_number"`
	Language      string    `json:"language"`
	CreatedAt     time.Time `json:"created_at"`
}

func newProfileResponse(profile domain.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:        profile.UserID,
		FullName:      profile.FullName,
		StudentNumber: profile.StudentNumber,
		University:    profile.University,
		PhoneNumber:   profile.PhoneNumber,
		Language:      string(profile.Language),
		CreatedAt:     profile.CreatedAt,
	}
}

// CreateShiftRequest defines the payload for publishing a listing.
type CreateShiftRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ShiftDate   string  `json:"shift_date" binding:"required"`
	ShiftTime   string  `json:"shift_time"`
	Duration    string  `json:"duration"`
	Location    string  `json:"location"`
}

// ShiftResponse is the API view of a listing.
type ShiftResponse struct {
	ID          string  `json:"id"`
	SellerID    string  `json:"seller_id"`
	BuyerID     *string `json:"buyer_id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ShiftDate   string  `json:"shift_date"`
	ShiftTime   *string `json:"shift_time,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	Location    *string `json:"location,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

func newShiftResponse(shift domain.Shift) ShiftResponse {
	return ShiftResponse{
		ID:          shift.ID,
		SellerID:    shift.SellerID,
		BuyerID:     shift.BuyerID,
		Title:       shift.Title,
		Description: shift.Description,
		Price:       shift.Price,
		ShiftDate:   shift.ShiftDate.Format("2006-01-02"),
		ShiftTime:   shift.ShiftTime,
		Duration:    shift.Duration,
		Location:    shift.Location,
		Status:      string(shift.Status),
		CreatedAt:   shift.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func newShiftResponses(shifts []domain.Shift) []ShiftResponse {
	out := make([]ShiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, newShiftResponse(shift))
	}
	return out
}
