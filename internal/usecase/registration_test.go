package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/infra/security"
	"github.com/barisuyucak/nobetpazari/internal/repository"
)

func validSubmission() domain.RegistrationSubmission {
	return domain.RegistrationSubmission{
		Email:         "ayse@example.com",
		Password:      "pw123456",
		FullName:      "Ayşe Yılmaz",
		PhoneNumber:   "+905551112233",
		StudentNumber: "1234567890",
		University:    domain.UniversityIstanbulMed,
		Language:      domain.LanguageTurkish,
		TermsAccepted: true,
	}
}

func newTestRegistrationService(users *mockUserRepository, tokens *mockTokenRepository, eligibility *mockEligibilityChecker, events *mockEventPublisher) *RegistrationService {
	svc := NewRegistrationService(users, tokens, eligibility, security.NewPasswordPolicy(), nil, nil)
	if events != nil {
		svc.events = events
	}
	return svc
}

func TestRegistrationService_Register(t *testing.T) {
	users := &mockUserRepository{}
	tokens := &mockTokenRepository{}
	eligibility := &mockEligibilityChecker{result: true}
	events := &mockEventPublisher{}

	svc := newTestRegistrationService(users, tokens, eligibility, events)

	user, verification, err := svc.Register(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if eligibility.calls != 1 {
		t.Fatalf("expected eligibility check to run once, got %d", eligibility.calls)
	}
	if eligibility.lastStudentNumber != "1234567890" {
		t.Fatalf("expected eligibility to see student number, got %s", eligibility.lastStudentNumber)
	}

	if user.Status != domain.UserStatusPending {
		t.Fatalf("expected pending status, got %s", user.Status)
	}
	if user.Email != "ayse@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.VerifiedAt != nil {
		t.Fatalf("expected no verified_at on registration")
	}

	if users.createCalls != 1 {
		t.Fatalf("expected Create to be called once, got %d", users.createCalls)
	}
	if ok, err := security.VerifyPassword("pw123456", users.createdUser.PasswordHash); err != nil || !ok {
		t.Fatalf("expected stored hash to match original password")
	}

	if verification.Code == "" {
		t.Fatalf("expected a verification code")
	}
	if len(verification.Code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", verification.Code)
	}
	if !verification.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future, got %v", verification.ExpiresAt)
	}

	if tokens.createCalls != 1 {
		t.Fatalf("expected CreateVerification once, got %d", tokens.createCalls)
	}
	if tokens.createdCode.CodeHash != security.HashToken(verification.Code) {
		t.Fatalf("expected stored code hash to match issued code")
	}
	if tokens.createdCode.Purpose != verificationPurposeSignup {
		t.Fatalf("expected purpose %s, got %s", verificationPurposeSignup, tokens.createdCode.Purpose)
	}
	if tokens.createdCode.Profile.FullName != "Ayşe Yılmaz" {
		t.Fatalf("expected staged full name, got %s", tokens.createdCode.Profile.FullName)
	}
	if tokens.createdCode.Profile.Language != domain.LanguageTurkish {
		t.Fatalf("expected staged language, got %s", tokens.createdCode.Profile.Language)
	}

	if events.registeredCalls != 1 {
		t.Fatalf("expected registered event once, got %d", events.registeredCalls)
	}
	if events.registeredEvent.UserID != user.ID {
		t.Fatalf("expected event user id %s, got %s", user.ID, events.registeredEvent.UserID)
	}
}

func TestRegistrationService_Register_Ineligible(t *testing.T) {
	users := &mockUserRepository{}
	tokens := &mockTokenRepository{}
	eligibility := &mockEligibilityChecker{result: false}

	svc := newTestRegistrationService(users, tokens, eligibility, nil)

	if _, _, err := svc.Register(context.Background(), validSubmission()); !errors.Is(err, ErrIneligibleStudent) {
		t.Fatalf("expected ErrIneligibleStudent, got %v", err)
	}

	if users.createCalls != 0 {
		t.Fatalf("expected no user write for ineligible student, got %d", users.createCalls)
	}
	if tokens.createCalls != 0 {
		t.Fatalf("expected no code write for ineligible student, got %d", tokens.createCalls)
	}
}

func TestRegistrationService_Register_TermsNotAccepted(t *testing.T) {
	users := &mockUserRepository{}
	tokens := &mockTokenRepository{}
	eligibility := &mockEligibilityChecker{result: true}

	svc := newTestRegistrationService(users, tokens, eligibility, nil)

	sub := validSubmission()
	sub.TermsAccepted = false

	if _, _, err := svc.Register(context.Background(), sub); !errors.Is(err, ErrTermsNotAccepted) {
		t.Fatalf("expected ErrTermsNotAccepted, got %v", err)
	}

	if users.createCalls != 0 {
		t.Fatalf("expected no writes when terms are rejected, got %d", users.createCalls)
	}
}

func TestRegistrationService_Register_WeakPassword(t *testing.T) {
	users := &mockUserRepository{}
	tokens := &mockTokenRepository{}
	eligibility := &mockEligibilityChecker{result: true}

	svc := newTestRegistrationService(users, tokens, eligibility, nil)

	sub := validSubmission()
	sub.Password = "short"

	if _, _, err := svc.Register(context.Background(), sub); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if users.createCalls != 0 {
		t.Fatalf("expected no writes for weak password, got %d", users.createCalls)
	}
}

func TestRegistrationService_Register_EmailTaken(t *testing.T) {
	users := &mockUserRepository{createErr: repository.ErrDuplicate}
	tokens := &mockTokenRepository{}
	eligibility := &mockEligibilityChecker{result: true}

	svc := newTestRegistrationService(users, tokens, eligibility, nil)

	if _, _, err := svc.Register(context.Background(), validSubmission()); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if tokens.createCalls != 0 {
		t.Fatalf("expected no code when user insert failed, got %d", tokens.createCalls)
	}
}

func TestRegistrationService_VerifyCode(t *testing.T) {
	pendingUser := &domain.User{
		ID:     "user-1",
		Email:  "ayse@example.com",
		Status: domain.UserStatusPending,
	}
	staged := domain.ProfileFields{
		FullName:      "Ayşe Yılmaz",
		StudentNumber: "1234567890",
		University:    domain.UniversityIstanbulMed,
		PhoneNumber:   "+905551112233",
		Language:      domain.LanguageTurkish,
	}
	code := "123456"

	users := &mockUserRepository{getByEmailResult: pendingUser}
	tokens := &mockTokenRepository{
		getVerificationResult: &domain.VerificationCode{
			ID:        "code-1",
			UserID:    "user-1",
			CodeHash:  security.HashToken(code),
			Purpose:   verificationPurposeSignup,
			Profile:   staged,
			CreatedAt: time.Now().Add(-time.Minute),
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	events := &mockEventPublisher{}

	svc := newTestRegistrationService(users, tokens, &mockEligibilityChecker{result: true}, events)

	user, fields, err := svc.VerifyCode(context.Background(), "ayse@example.com", code)
	if err != nil {
		t.Fatalf("VerifyCode returned error: %v", err)
	}

	if user.Status != domain.UserStatusActive {
		t.Fatalf("expected active status, got %s", user.Status)
	}
	if user.VerifiedAt == nil {
		t.Fatalf("expected verified_at to be set")
	}
	if fields != staged {
		t.Fatalf("expected staged fields back, got %+v", fields)
	}

	if users.activateCalls != 1 || users.activateLastID != "user-1" {
		t.Fatalf("expected Activate(user-1) once, got %d calls for %s", users.activateCalls, users.activateLastID)
	}
	if tokens.getVerificationLastUserID != "user-1" {
		t.Fatalf("expected code lookup scoped to user-1, got %s", tokens.getVerificationLastUserID)
	}
	if tokens.consumeVerificationCalls != 1 || tokens.consumeVerificationLastID != "code-1" {
		t.Fatalf("expected ConsumeVerification(code-1) once")
	}
	if events.verifiedCalls != 1 {
		t.Fatalf("expected verified event once, got %d", events.verifiedCalls)
	}
}

func TestRegistrationService_VerifyCode_SameCodeTwoUsers(t *testing.T) {
	// Numeric codes repeat across accounts. Each pending user must verify
	// against their own row even when another user holds an identical newer
	// code.
	code := "123456"
	hash := security.HashToken(code)

	olderUser := &domain.User{
		ID:     "user-a",
		Email:  "ayse@example.com",
		Status: domain.UserStatusPending,
	}
	users := &mockUserRepository{getByEmailResult: olderUser}
	tokens := &mockTokenRepository{
		getVerificationByUser: map[string]*domain.VerificationCode{
			"user-a": {
				ID:        "code-a",
				UserID:    "user-a",
				CodeHash:  hash,
				Purpose:   verificationPurposeSignup,
				CreatedAt: time.Now().Add(-time.Hour),
				ExpiresAt: time.Now().Add(time.Hour),
			},
			"user-b": {
				ID:        "code-b",
				UserID:    "user-b",
				CodeHash:  hash,
				Purpose:   verificationPurposeSignup,
				CreatedAt: time.Now().Add(-time.Minute),
				ExpiresAt: time.Now().Add(time.Hour),
			},
		},
	}

	svc := newTestRegistrationService(users, tokens, &mockEligibilityChecker{result: true}, nil)

	user, _, err := svc.VerifyCode(context.Background(), "ayse@example.com", code)
	if err != nil {
		t.Fatalf("VerifyCode returned error for a correct code: %v", err)
	}
	if user.ID != "user-a" {
		t.Fatalf("expected user-a verified, got %s", user.ID)
	}
	if tokens.getVerificationLastUserID != "user-a" {
		t.Fatalf("expected lookup scoped to user-a, got %s", tokens.getVerificationLastUserID)
	}
	if tokens.consumeVerificationLastID != "code-a" {
		t.Fatalf("expected user-a's own code consumed, got %s", tokens.consumeVerificationLastID)
	}
}

func TestRegistrationService_VerifyCode_WrongCode(t *testing.T) {
	users := &mockUserRepository{getByEmailResult: &domain.User{
		ID:     "user-1",
		Email:  "ayse@example.com",
		Status: domain.UserStatusPending,
	}}
	tokens := &mockTokenRepository{getVerificationErr: repository.ErrNotFound}

	svc := newTestRegistrationService(users, tokens, &mockEligibilityChecker{result: true}, nil)

	if _, _, err := svc.VerifyCode(context.Background(), "ayse@example.com", "000000"); !errors.Is(err, ErrVerificationCodeInvalid) {
		t.Fatalf("expected ErrVerificationCodeInvalid, got %v", err)
	}
	if users.activateCalls != 0 {
		t.Fatalf("expected no activation for wrong code")
	}
}

func TestRegistrationService_VerifyCode_Expired(t *testing.T) {
	code := "123456"
	users := &mockUserRepository{getByEmailResult: &domain.User{
		ID:     "user-1",
		Email:  "ayse@example.com",
		Status: domain.UserStatusPending,
	}}
	tokens := &mockTokenRepository{
		getVerificationResult: &domain.VerificationCode{
			ID:        "code-1",
			UserID:    "user-1",
			CodeHash:  security.HashToken(code),
			Purpose:   verificationPurposeSignup,
			CreatedAt: time.Now().Add(-48 * time.Hour),
			ExpiresAt: time.Now().Add(-24 * time.Hour),
		},
	}

	svc := newTestRegistrationService(users, tokens, &mockEligibilityChecker{result: true}, nil)

	if _, _, err := svc.VerifyCode(context.Background(), "ayse@example.com", code); !errors.Is(err, ErrVerificationCodeExpired) {
		t.Fatalf("expected ErrVerificationCodeExpired, got %v", err)
	}
	if users.activateCalls != 0 {
		t.Fatalf("expected no activation for expired code")
	}
}

func TestRegistrationService_VerifyCode_AlreadyVerified(t *testing.T) {
	users := &mockUserRepository{getByEmailResult: &domain.User{
		ID:     "user-1",
		Email:  "ayse@example.com",
		Status: domain.UserStatusActive,
	}}
	tokens := &mockTokenRepository{}

	svc := newTestRegistrationService(users, tokens, &mockEligibilityChecker{result: true}, nil)

	if _, _, err := svc.VerifyCode(context.Background(), "ayse@example.com", "123456"); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
	if tokens.getVerificationCalls != 0 {
		t.Fatalf("expected no code lookup for an active account")
	}
}

func TestRegistrationService_VerifyCode_LostActivationRace(t *testing.T) {
	code := "123456"
	users := &mockUserRepository{
		getByEmailResult: &domain.User{
			ID:     "user-1",
			Email:  "ayse@example.com",
			Status: domain.UserStatusPending,
		},
		activateErr: repository.ErrNotFound,
	}
	tokens := &mockTokenRepository{
		getVerificationResult: &domain.VerificationCode{
			ID:        "code-1",
			UserID:    "user-1",
			CodeHash:  security.HashToken(code),
			Purpose:   verificationPurposeSignup,
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}

	svc := newTestRegistrationService(users, tokens, &mockEligibilityChecker{result: true}, nil)

	if _, _, err := svc.VerifyCode(context.Background(), "ayse@example.com", code); !errors.Is(err, ErrVerificationCodeInvalid) {
		t.Fatalf("expected ErrVerificationCodeInvalid on lost race, got %v", err)
	}
	if tokens.consumeVerificationCalls != 0 {
		t.Fatalf("expected code not consumed when activation lost the race")
	}
}

func TestRegistrationService_ResendCode(t *testing.T) {
	staged := domain.ProfileFields{
		FullName:      "Ayşe Yılmaz",
		StudentNumber: "1234567890",
	}
	users := &mockUserRepository{getByEmailResult: &domain.User{
		ID:     "user-1",
		Email:  "ayse@example.com",
		Status: domain.UserStatusPending,
	}}
	tokens := &mockTokenRepository{
		latestResult: &domain.VerificationCode{
			ID:      "code-1",
			UserID:  "user-1",
			Purpose: verificationPurposeSignup,
			Profile: staged,
		},
	}

	svc := newTestRegistrationService(users, tokens, &mockEligibilityChecker{result: true}, nil)

	verification, err := svc.ResendCode(context.Background(), "ayse@example.com")
	if err != nil {
		t.Fatalf("ResendCode returned error: %v", err)
	}
	if verification.Code == "" {
		t.Fatalf("expected a fresh code")
	}

	if tokens.createCalls != 1 {
		t.Fatalf("expected new code row, got %d", tokens.createCalls)
	}
	if tokens.createdCode.Profile != staged {
		t.Fatalf("expected staged fields carried forward, got %+v", tokens.createdCode.Profile)
	}
}

func TestRegistrationService_ResendCode_AlreadyVerified(t *testing.T) {
	users := &mockUserRepository{getByEmailResult: &domain.User{
		ID:     "user-1",
		Email:  "ayse@example.com",
		Status: domain.UserStatusActive,
	}}
	tokens := &mockTokenRepository{}

	svc := newTestRegistrationService(users, tokens, &mockEligibilityChecker{result: true}, nil)

	if _, err := svc.ResendCode(context.Background(), "ayse@example.com"); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
	if tokens.createCalls != 0 {
		t.Fatalf("expected no new code for a verified account")
	}
}
