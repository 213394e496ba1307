package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/core/port"
	"github.com/barisuyucak/nobetpazari/internal/infra/security"
	"github.com/barisuyucak/nobetpazari/internal/repository"
)

const (
	verificationPurposeSignup = "signup"

	defaultCodeLength = 6
	defaultCodeTTL    = 24 * time.Hour
)

var (
	// ErrIneligibleStudent indicates the submitted student number and name do
	// not correspond to a known eligible student.
	ErrIneligibleStudent = errors.New("student not eligible for registration")
	// ErrTermsNotAccepted indicates the registrant did not accept the user
	// agreement.
	ErrTermsNotAccepted = errors.New("terms of service not accepted")
	// ErrWeakPassword indicates the password does not satisfy the policy.
	ErrWeakPassword = errors.New("password does not meet requirements")
	// ErrEmailTaken indicates the email already belongs to an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrVerificationCodeInvalid indicates the provided code is wrong or
	// already used.
	ErrVerificationCodeInvalid = errors.New("verification code invalid")
	// ErrVerificationCodeExpired indicates the code exists but is expired.
	ErrVerificationCodeExpired = errors.New("verification code expired")
	// ErrAlreadyVerified indicates the account has already been activated.
	ErrAlreadyVerified = errors.New("account already verified")
	// ErrAccountNotFound indicates no account exists for the given email.
	ErrAccountNotFound = errors.New("account not found")
	// ErrNoPendingRegistration indicates there is no registration in progress
	// to resend a code for.
	ErrNoPendingRegistration = errors.New("no registration in progress")
)

// RegistrationService handles new account onboarding: eligibility gating,
// pending account creation, one-time-code verification, and profile staging.
type RegistrationService struct {
	users       port.UserRepository
	tokens      port.TokenRepository
	eligibility port.EligibilityChecker
	policy      *security.PasswordPolicy
	events      port.EventPublisher
	logger      *zap.Logger
	codeLength  int
	codeTTL     time.Duration
	now         func() time.Time
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(
	users port.UserRepository,
	tokens port.TokenRepository,
	eligibility port.EligibilityChecker,
	policy *security.PasswordPolicy,
	events port.EventPublisher,
	logger *zap.Logger,
) *RegistrationService {
	if policy == nil {
		policy = security.NewPasswordPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		users:       users,
		tokens:      tokens,
		eligibility: eligibility,
		policy:      policy,
		events:      events,
		logger:      logger,
		codeLength:  defaultCodeLength,
		codeTTL:     defaultCodeTTL,
		now:         time.Now,
	}
}

// WithCodeSettings overrides code length and TTL when positive.
func (s *RegistrationService) WithCodeSettings(length int, ttl time.Duration) *RegistrationService {
	if length > 0 {
		s.codeLength = length
	}
	if ttl > 0 {
		s.codeTTL = ttl
	}
	return s
}

// RegistrationVerification captures the verification artifact for a newly
// registered account. Code is handed to the notification dispatcher, never
// persisted in the clear.
type RegistrationVerification struct {
	Code      string
	ExpiresAt time.Time
}

// Register runs the provisioning pipeline up to the pending account. All
// validation happens before any durable write; a failure at any step leaves
// nothing behind. The profile is staged with the verification code and only
// materializes after the code is confirmed.
func (s *RegistrationService) Register(ctx context.Context, sub domain.RegistrationSubmission) (domain.User, RegistrationVerification, error) {
	var zero RegistrationVerification

	if s.eligibility == nil || !s.eligibility.Validate(sub.StudentNumber, sub.FullName) {
		return domain.User{}, zero, ErrIneligibleStudent
	}
	if !sub.TermsAccepted {
		return domain.User{}, zero, ErrTermsNotAccepted
	}

	email := strings.TrimSpace(strings.ToLower(sub.Email))
	if email == "" {
		return domain.User{}, zero, fmt.Errorf("email is required")
	}
	if err := s.policy.Validate(sub.Password); err != nil {
		return domain.User{}, zero, fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	passwordHash, err := security.HashPassword(sub.Password)
	if err != nil {
		return domain.User{}, zero, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		PasswordAlgo: security.PasswordAlgo,
		Status:       domain.UserStatusPending,
		RegisteredAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, zero, ErrEmailTaken
		}
		return domain.User{}, zero, fmt.Errorf("create user: %w", err)
	}

	verification, err := s.issueCode(ctx, user.ID, sub.ProfileFields())
	if err != nil {
		return domain.User{}, zero, err
	}

	if s.events != nil {
		event := domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       user.ID,
			Email:        user.Email,
			Status:       string(user.Status),
			RegisteredAt: now,
		}
		if err := s.events.PublishUserRegistered(ctx, event); err != nil {
			s.logger.Warn("publish user registered event failed", zap.Error(err), zap.String("user_id", user.ID))
		}
	}

	return user, verification, nil
}

// VerifyCode confirms the one-time code, activates the account, and returns
// the staged profile fields the caller must turn into a Profile exactly once.
// The activation write is conditional on the account still being pending, so
// a duplicate code confirmation cannot re-trigger profile creation.
func (s *RegistrationService) VerifyCode(ctx context.Context, email, code string) (domain.User, domain.ProfileFields, error) {
	var zero domain.ProfileFields

	code = strings.TrimSpace(code)
	if code == "" {
		return domain.User{}, zero, ErrVerificationCodeInvalid
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, zero, ErrVerificationCodeInvalid
		}
		return domain.User{}, zero, fmt.Errorf("lookup user: %w", err)
	}
	if user.Status == domain.UserStatusActive {
		return domain.User{}, zero, ErrAlreadyVerified
	}

	record, err := s.tokens.GetVerification(ctx, user.ID, security.HashToken(code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, zero, ErrVerificationCodeInvalid
		}
		return domain.User{}, zero, fmt.Errorf("lookup verification code: %w", err)
	}

	if record.UsedAt != nil || record.Purpose != verificationPurposeSignup {
		return domain.User{}, zero, ErrVerificationCodeInvalid
	}

	now := s.now().UTC()
	if now.After(record.ExpiresAt) {
		return domain.User{}, zero, ErrVerificationCodeExpired
	}

	if err := s.users.Activate(ctx, user.ID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost against a concurrent verification of the same account.
			return domain.User{}, zero, ErrVerificationCodeInvalid
		}
		return domain.User{}, zero, fmt.Errorf("activate user: %w", err)
	}

	if err := s.tokens.ConsumeVerification(ctx, record.ID); err != nil {
		return domain.User{}, zero, fmt.Errorf("consume verification code: %w", err)
	}

	user.Status = domain.UserStatusActive
	user.VerifiedAt = &now

	if s.events != nil {
		event := domain.UserVerifiedEvent{
			EventID:    uuid.NewString(),
			UserID:     user.ID,
			Email:      user.Email,
			VerifiedAt: now,
		}
		if err := s.events.PublishUserVerified(ctx, event); err != nil {
			s.logger.Warn("publish user verified event failed", zap.Error(err), zap.String("user_id", user.ID))
		}
	}

	return *user, record.Profile, nil
}

// ResendCode issues a fresh verification code for a pending account, carrying
// the staged profile fields forward. Safe to call any number of times before
// the account is verified.
func (s *RegistrationService) ResendCode(ctx context.Context, email string) (RegistrationVerification, error) {
	var zero RegistrationVerification

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, ErrAccountNotFound
		}
		return zero, fmt.Errorf("lookup user: %w", err)
	}
	if user.Status == domain.UserStatusActive {
		return zero, ErrAlreadyVerified
	}

	latest, err := s.tokens.LatestVerificationForUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, ErrNoPendingRegistration
		}
		return zero, fmt.Errorf("lookup latest verification: %w", err)
	}

	return s.issueCode(ctx, user.ID, latest.Profile)
}

func (s *RegistrationService) issueCode(ctx context.Context, userID string, profile domain.ProfileFields) (RegistrationVerification, error) {
	var zero RegistrationVerification

	rawCode, err := security.GenerateNumericCode(s.codeLength)
	if err != nil {
		return zero, fmt.Errorf("generate verification code: %w", err)
	}

	now := s.now().UTC()
	record := domain.VerificationCode{
		ID:        uuid.NewString(),
		UserID:    userID,
		CodeHash:  security.HashToken(rawCode),
		Purpose:   verificationPurposeSignup,
		Profile:   profile,
		CreatedAt: now,
		ExpiresAt: now.Add(s.codeTTL),
	}

	if err := s.tokens.CreateVerification(ctx, record); err != nil {
		return zero, fmt.Errorf("store verification code: %w", err)
	}

	return RegistrationVerification{Code: rawCode, ExpiresAt: record.ExpiresAt}, nil
}
