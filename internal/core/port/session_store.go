package port

import (
	"context"
	"time"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
)

// SessionStore persists sign-in sessions with expiry.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
