package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/repository"
)

// TokenRepository implements port.TokenRepository using PostgreSQL. It covers
// signup verification codes and password reset tokens.
type TokenRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTokenRepository wires a PostgreSQL-backed token repository.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *TokenRepository) WithTx(tx pgx.Tx) *TokenRepository {
	if tx == nil {
		return r
	}
	return &TokenRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var verificationColumns = []string{
	"id",
	"user_id",
	"code_hash",
	"purpose",
	"profile",
	"created_at",
	"expires_at",
	"used_at",
}

// CreateVerification inserts a verification code row with its staged profile.
func (r *TokenRepository) CreateVerification(ctx context.Context, code domain.VerificationCode) error {
	profileJSON, err := json.Marshal(code.Profile)
	if err != nil {
		return fmt.Errorf("marshal staged profile: %w", err)
	}

	stmt, args, err := r.builder.Insert("verification_codes").
		Columns(verificationColumns...).
		Values(
			code.ID,
			code.UserID,
			code.CodeHash,
			code.Purpose,
			profileJSON,
			code.CreatedAt,
			code.ExpiresAt,
			code.UsedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert verification code sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert verification code: %w", err)
	}

	return nil
}

// GetVerification resolves the user's newest unused code matching the hash.
// Numeric codes are short enough to collide across accounts, so the user_id
// predicate is load-bearing.
func (r *TokenRepository) GetVerification(ctx context.Context, userID, hash string) (*domain.VerificationCode, error) {
	stmt, args, err := r.builder.Select(verificationColumns...).
		From("verification_codes").
		Where(squirrel.Eq{"user_id": userID, "code_hash": hash, "used_at": nil}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select verification code sql: %w", err)
	}

	return r.scanVerification(r.exec.QueryRow(ctx, stmt, args...))
}

// LatestVerificationForUser returns the newest code row for the user,
// consumed or not.
func (r *TokenRepository) LatestVerificationForUser(ctx context.Context, userID string) (*domain.VerificationCode, error) {
	stmt, args, err := r.builder.Select(verificationColumns...).
		From("verification_codes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select latest verification sql: %w", err)
	}

	return r.scanVerification(r.exec.QueryRow(ctx, stmt, args...))
}

// ConsumeVerification stamps the code as used. Consuming an already-used code
// reports repository.ErrNotFound.
func (r *TokenRepository) ConsumeVerification(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("verification_codes").
		Set("used_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id, "used_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build consume verification sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("consume verification code: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var resetColumns = []string{
	"id",
	"user_id",
	"token_hash",
	"created_at",
	"expires_at",
	"used_at",
}

// CreatePasswordReset inserts a password reset token row.
func (r *TokenRepository) CreatePasswordReset(ctx context.Context, token domain.PasswordResetToken) error {
	stmt, args, err := r.builder.Insert("password_reset_tokens").
		Columns(resetColumns...).
		Values(
			token.ID,
			token.UserID,
			token.TokenHash,
			token.CreatedAt,
			token.ExpiresAt,
			token.UsedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert reset token sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}

	return nil
}

// GetPasswordResetByHash resolves a reset token by its hash.
func (r *TokenRepository) GetPasswordResetByHash(ctx context.Context, hash string) (*domain.PasswordResetToken, error) {
	stmt, args, err := r.builder.Select(resetColumns...).
		From("password_reset_tokens").
		Where(squirrel.Eq{"token_hash": hash}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select reset token sql: %w", err)
	}

	var token domain.PasswordResetToken
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.UsedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan reset token: %w", err)
	}

	return &token, nil
}

// ConsumePasswordReset stamps the reset token as used.
func (r *TokenRepository) ConsumePasswordReset(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("password_reset_tokens").
		Set("used_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id, "used_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build consume reset token sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *TokenRepository) scanVerification(row pgx.Row) (*domain.VerificationCode, error) {
	var (
		code        domain.VerificationCode
		profileJSON []byte
	)
	if err := row.Scan(
		&code.ID,
		&code.UserID,
		&code.CodeHash,
		&code.Purpose,
		&profileJSON,
		&code.CreatedAt,
		&code.ExpiresAt,
		&code.UsedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan verification code: %w", err)
	}

	if len(profileJSON) > 0 {
		if err := json.Unmarshal(profileJSON, &code.Profile); err != nil {
			return nil, fmt.Errorf("unmarshal staged profile: %w", err)
		}
	}

	return &code, nil
}
