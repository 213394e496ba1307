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

func newTestAuthService(t *testing.T, users *mockUserRepository, sessions *mockSessionStore) *AuthService {
	t.Helper()
	keys, err := security.NewKeyProvider("test-key", "")
	if err != nil {
		t.Fatalf("create key provider: %v", err)
	}
	return NewAuthService(users, sessions, keys, "nobetpazari", time.Hour)
}

func activeUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &domain.User{
		ID:           "user-1",
		Email:        "ayse@example.com",
		PasswordHash: hash,
		PasswordAlgo: security.PasswordAlgo,
		Status:       domain.UserStatusActive,
	}
}

func TestAuthService_SignIn(t *testing.T) {
	users := &mockUserRepository{getByEmailResult: activeUser(t, "pw123456")}
	sessions := &mockSessionStore{}

	svc := newTestAuthService(t, users, sessions)

	token, user, err := svc.SignIn(context.Background(), "Ayse@Example.com", "pw123456")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a signed token")
	}
	if user.ID != "user-1" {
		t.Fatalf("expected user-1, got %s", user.ID)
	}
	if users.getByEmailLastEmail != "ayse@example.com" {
		t.Fatalf("expected lowercased email lookup, got %s", users.getByEmailLastEmail)
	}

	if sessions.saveCalls != 1 {
		t.Fatalf("expected one session write, got %d", sessions.saveCalls)
	}
	if sessions.savedTTL != time.Hour {
		t.Fatalf("expected session TTL of 1h, got %v", sessions.savedTTL)
	}
	if sessions.savedSession.UserID != "user-1" {
		t.Fatalf("expected session bound to user-1, got %s", sessions.savedSession.UserID)
	}

	claims, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected claims for user-1, got %s", claims.UserID)
	}
	if claims.SessionID != sessions.savedSession.ID {
		t.Fatalf("expected claims session %s, got %s", sessions.savedSession.ID, claims.SessionID)
	}
}

func TestAuthService_SignIn_PendingAccountAllowed(t *testing.T) {
	user := activeUser(t, "pw123456")
	user.Status = domain.UserStatusPending

	users := &mockUserRepository{getByEmailResult: user}
	sessions := &mockSessionStore{}

	svc := newTestAuthService(t, users, sessions)

	_, got, err := svc.SignIn(context.Background(), "ayse@example.com", "pw123456")
	if err != nil {
		t.Fatalf("SignIn returned error for pending account: %v", err)
	}
	if got.Status != domain.UserStatusPending {
		t.Fatalf("expected pending status surfaced, got %s", got.Status)
	}
}

func TestAuthService_SignIn_WrongPassword(t *testing.T) {
	users := &mockUserRepository{getByEmailResult: activeUser(t, "pw123456")}
	sessions := &mockSessionStore{}

	svc := newTestAuthService(t, users, sessions)

	if _, _, err := svc.SignIn(context.Background(), "ayse@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if sessions.saveCalls != 0 {
		t.Fatalf("expected no session for bad credentials")
	}
}

func TestAuthService_SignIn_UnknownEmail(t *testing.T) {
	users := &mockUserRepository{getByEmailErr: repository.ErrNotFound}
	sessions := &mockSessionStore{}

	svc := newTestAuthService(t, users, sessions)

	if _, _, err := svc.SignIn(context.Background(), "nobody@example.com", "pw123456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	users := &mockUserRepository{getByEmailResult: activeUser(t, "pw123456")}
	sessions := &mockSessionStore{}

	svc := newTestAuthService(t, users, sessions)

	token, _, err := svc.SignIn(context.Background(), "ayse@example.com", "pw123456")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}

	sessions.getResult = &sessions.savedSession

	session, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if session.UserID != "user-1" {
		t.Fatalf("expected session for user-1, got %s", session.UserID)
	}
}

func TestAuthService_Authenticate_SessionGone(t *testing.T) {
	users := &mockUserRepository{getByEmailResult: activeUser(t, "pw123456")}
	sessions := &mockSessionStore{}

	svc := newTestAuthService(t, users, sessions)

	token, _, err := svc.SignIn(context.Background(), "ayse@example.com", "pw123456")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}

	sessions.getErr = repository.ErrNotFound

	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAuthService_Authenticate_GarbageToken(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepository{}, &mockSessionStore{})

	if _, err := svc.Authenticate(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_SignOut(t *testing.T) {
	sessions := &mockSessionStore{}
	svc := newTestAuthService(t, &mockUserRepository{}, sessions)

	if err := svc.SignOut(context.Background(), "session-1"); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if sessions.deleteCalls != 1 || sessions.deleteLastID != "session-1" {
		t.Fatalf("expected Delete(session-1) once")
	}

	sessions.deleteErr = repository.ErrNotFound
	if err := svc.SignOut(context.Background(), "session-1"); err != nil {
		t.Fatalf("expected missing session to be tolerated, got %v", err)
	}
}
