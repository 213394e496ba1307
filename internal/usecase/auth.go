package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/core/port"
	"github.com/barisuyucak/nobetpazari/internal/infra/security"
	"github.com/barisuyucak/nobetpazari/internal/repository"
)

const defaultAccessTokenTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials indicates the email/password pair does not match
	// an account. The same error covers unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the access token failed signature or claim
	// validation.
	ErrInvalidToken = errors.New("invalid access token")
	// ErrSessionExpired indicates the session behind a valid token no longer
	// exists server-side.
	ErrSessionExpired = errors.New("session expired")
)

// AccessTokenClaims are the JWT claims carried by access tokens.
type AccessTokenClaims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// AuthService signs users in and out and validates access tokens against the
// server-side session store.
type AuthService struct {
	users    port.UserRepository
	sessions port.SessionStore
	keys     security.KeyProvider
	issuer   string
	tokenTTL time.Duration
	now      func() time.Time
}

// NewAuthService constructs an auth service.
func NewAuthService(users port.UserRepository, sessions port.SessionStore, keys security.KeyProvider, issuer string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultAccessTokenTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		keys:     keys,
		issuer:   issuer,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// SignIn verifies the credentials, creates a server-side session, and returns
// a signed access token. Pending accounts may sign in; verification status is
// surfaced on the returned user for the caller to act on.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.User{}, ErrInvalidCredentials
		}
		return "", domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", domain.User{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.sessions.Save(ctx, session, s.tokenTTL); err != nil {
		return "", domain.User{}, fmt.Errorf("save session: %w", err)
	}

	token, err := s.issueToken(user, session)
	if err != nil {
		return "", domain.User{}, err
	}

	return token, *user, nil
}

// Authenticate parses the access token and checks the session still exists.
// It returns the live session on success.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.Session, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	if session.UserID != claims.UserID {
		return nil, ErrInvalidToken
	}

	return session, nil
}

// SignOut removes the session. Signing out an already-expired session is not
// an error.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ParseAccessToken validates the token signature and registered claims.
func (s *AuthService) ParseAccessToken(tokenString string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		kid, _ := t.Header["kid"].(string)
		return s.keys.GetVerificationKey(kid)
	}, jwt.WithIssuer(s.issuer), jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.SessionID == "" || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) issueToken(user *domain.User, session domain.Session) (string, error) {
	key, err := s.keys.GetSigningKey()
	if err != nil {
		return "", fmt.Errorf("get signing key: %w", err)
	}

	claims := AccessTokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.keys.KID()

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
