package port

import (
	"context"
	"time"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
)

// UserRepository exposes persistence behavior for accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Activate flips a pending account to active. The write is conditional on
	// the current status so a stale duplicate verification cannot re-trigger
	// downstream effects; it returns repository.ErrNotFound when no pending
	// row matched.
	Activate(ctx context.Context, id string, verifiedAt time.Time) error
	UpdatePassword(ctx context.Context, id string, passwordHash string, passwordAlgo string, changedAt time.Time) error
}
