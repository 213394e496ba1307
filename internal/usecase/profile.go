package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/core/port"
	"github.com/barisuyucak/nobetpazari/internal/repository"
)

var (
	// ErrProfileNotFound indicates no profile exists for the account.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrAccountNotVerified indicates a profile operation requires an active
	// account.
	ErrAccountNotVerified = errors.New("account not verified")
	// ErrProfileUnrecoverable indicates reconciliation found no staged fields
	// to rebuild the profile from.
	ErrProfileUnrecoverable = errors.New("no staged profile fields to recover")
)

// ProfileService materializes and serves student profiles. A profile exists
// only for verified accounts; Reconcile repairs accounts that were activated
// but whose profile write was lost.
type ProfileService struct {
	profiles port.ProfileRepository
	users    port.UserRepository
	tokens   port.TokenRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewProfileService constructs a profile service.
func NewProfileService(profiles port.ProfileRepository, users port.UserRepository, tokens port.TokenRepository, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		profiles: profiles,
		users:    users,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// Create writes the profile for a freshly verified account. A concurrent
// duplicate is tolerated: the unique constraint guarantees a single row and
// the first writer wins.
func (s *ProfileService) Create(ctx context.Context, userID string, fields domain.ProfileFields) (*domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user.Status != domain.UserStatusActive {
		return nil, ErrAccountNotVerified
	}

	profile := domain.Profile{
		UserID:        userID,
		FullName:      fields.FullName,
		StudentNumber: fields.StudentNumber,
		University:    fields.University,
		PhoneNumber:   fields.PhoneNumber,
		Language:      fields.Language,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.profiles.GetByUser(ctx, userID)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return &profile, nil
}

// GetByUser returns the profile for the account.
func (s *ProfileService) GetByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("lookup profile: %w", err)
	}
	return profile, nil
}

// Reconcile returns the profile for an active account, rebuilding it from the
// staged verification fields when the original write was lost between
// activation and profile creation.
func (s *ProfileService) Reconcile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUser(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup profile: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user.Status != domain.UserStatusActive {
		return nil, ErrAccountNotVerified
	}

	latest, err := s.tokens.LatestVerificationForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileUnrecoverable
		}
		return nil, fmt.Errorf("lookup staged fields: %w", err)
	}
	if latest.Profile.FullName == "" && latest.Profile.StudentNumber == "" {
		return nil, ErrProfileUnrecoverable
	}

	s.logger.Info("rebuilding lost profile from staged fields",
		zap.String("user_id", userID))

	return s.Create(ctx, userID, latest.Profile)
}
