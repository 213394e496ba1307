package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/core/port"
	"github.com/barisuyucak/nobetpazari/internal/infra/security"
	"github.com/barisuyucak/nobetpazari/internal/repository"
)

const defaultResetTTL = time.Hour

var (
	// ErrResetTokenInvalid indicates the reset token is unknown or already
	// used.
	ErrResetTokenInvalid = errors.New("reset token invalid")
	// ErrResetTokenExpired indicates the reset token exists but is expired.
	ErrResetTokenExpired = errors.New("reset token expired")
)

// PasswordResetService issues and redeems single-use password reset tokens.
type PasswordResetService struct {
	users    port.UserRepository
	tokens   port.TokenRepository
	policy   *security.PasswordPolicy
	resetTTL time.Duration
	now      func() time.Time
}

// NewPasswordResetService constructs a password reset service.
func NewPasswordResetService(users port.UserRepository, tokens port.TokenRepository, policy *security.PasswordPolicy, resetTTL time.Duration) *PasswordResetService {
	if policy == nil {
		policy = security.NewPasswordPolicy()
	}
	if resetTTL <= 0 {
		resetTTL = defaultResetTTL
	}
	return &PasswordResetService{
		users:    users,
		tokens:   tokens,
		policy:   policy,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// ResetIssue is the artifact of a reset request. Token is handed to the
// notification dispatcher, never persisted in the clear.
type ResetIssue struct {
	Token     string
	ExpiresAt time.Time
}

// Request creates a reset token for the account behind email.
func (s *PasswordResetService) Request(ctx context.Context, email string) (ResetIssue, error) {
	var zero ResetIssue

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, ErrAccountNotFound
		}
		return zero, fmt.Errorf("lookup user: %w", err)
	}

	raw, err := security.GenerateSecureToken(32)
	if err != nil {
		return zero, fmt.Errorf("generate reset token: %w", err)
	}

	now := s.now().UTC()
	record := domain.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: security.HashToken(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(s.resetTTL),
	}
	if err := s.tokens.CreatePasswordReset(ctx, record); err != nil {
		return zero, fmt.Errorf("store reset token: %w", err)
	}

	return ResetIssue{Token: raw, ExpiresAt: record.ExpiresAt}, nil
}

// Confirm redeems the token and replaces the account password. The token is
// consumed on success and cannot be replayed.
func (s *PasswordResetService) Confirm(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrResetTokenInvalid
	}

	record, err := s.tokens.GetPasswordResetByHash(ctx, security.HashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if record.UsedAt != nil {
		return ErrResetTokenInvalid
	}

	now := s.now().UTC()
	if now.After(record.ExpiresAt) {
		return ErrResetTokenExpired
	}

	if err := s.policy.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, record.UserID, passwordHash, security.PasswordAlgo, now); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.tokens.ConsumePasswordReset(ctx, record.ID); err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}

	return nil
}
