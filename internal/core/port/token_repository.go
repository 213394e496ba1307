package port

import (
	"context"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
)

// TokenRepository manages verification code and password reset token records.
type TokenRepository interface {
	CreateVerification(ctx context.Context, code domain.VerificationCode) error
	// GetVerification resolves the newest unused code matching the hash for
	// the given user. Short numeric codes collide across users, so the lookup
	// must never match another account's row.
	GetVerification(ctx context.Context, userID, hash string) (*domain.VerificationCode, error)
	// LatestVerificationForUser returns the newest code row for the user,
	// consumed or not. Resend and reconciliation both read through it.
	LatestVerificationForUser(ctx context.Context, userID string) (*domain.VerificationCode, error)
	ConsumeVerification(ctx context.Context, id string) error
	CreatePasswordReset(ctx context.Context, token domain.PasswordResetToken) error
	GetPasswordResetByHash(ctx context.Context, hash string) (*domain.PasswordResetToken, error)
	ConsumePasswordReset(ctx context.Context, id string) error
}
