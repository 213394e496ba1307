package port

import (
	"context"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
)

// ProfileRepository exposes persistence behavior for student profiles.
type ProfileRepository interface {
	// Create inserts the profile row. The user_id unique constraint enforces
	// the exactly-once contract; a second insert returns repository.ErrDuplicate.
	Create(ctx context.Context, profile domain.Profile) error
	GetByUser(ctx context.Context, userID string) (*domain.Profile, error)
}
