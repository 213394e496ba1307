package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/repository"
)

// ProfileRepository implements port.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewProfileRepository wires a PostgreSQL-backed profile repository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *ProfileRepository) WithTx(tx pgx.Tx) *ProfileRepository {
	if tx == nil {
		return r
	}
	return &ProfileRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var profileColumns = []string{
	"user_id",
	"full_name",
	"student_number",
	"university",
	"phone_number",
	"language",
	"created_at",
}

// Create inserts the profile row. The user_id primary key turns a second
// insert for the same account into repository.ErrDuplicate.
func (r *ProfileRepository) Create(ctx context.Context, profile domain.Profile) error {
	stmt, args, err := r.builder.Insert("profiles").
		Columns(profileColumns...).
		Values(
			profile.UserID,
			profile.FullName,
			profile.StudentNumber,
			profile.University,
			profile.PhoneNumber,
			profile.Language,
			profile.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert profile sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}

// GetByUser retrieves the profile for the given account.
func (r *ProfileRepository) GetByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	stmt, args, err := r.builder.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select profile sql: %w", err)
	}

	var profile domain.Profile
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&profile.UserID,
		&profile.FullName,
		&profile.StudentNumber,
		&profile.University,
		&profile.PhoneNumber,
		&profile.Language,
		&profile.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	return &profile, nil
}
