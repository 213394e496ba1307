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

// ShiftRepository implements port.ShiftRepository using PostgreSQL.
type ShiftRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewShiftRepository wires a PostgreSQL-backed shift repository.
func NewShiftRepository(pool *pgxpool.Pool) *ShiftRepository {
	return &ShiftRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *ShiftRepository) WithTx(tx pgx.Tx) *ShiftRepository {
	if tx == nil {
		return r
	}
	return &ShiftRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var shiftColumns = []string{
	"id",
	"seller_id",
	"buyer_id",
	"title",
	"description",
	"price",
	"shift_date",
	"shift_time",
	"duration",
	"location",
	"status",
	"created_at",
}

// Create inserts a new listing row.
func (r *ShiftRepository) Create(ctx context.Context, shift domain.Shift) error {
	stmt, args, err := r.builder.Insert("shifts").
		Columns(shiftColumns...).
		Values(
			shift.ID,
			shift.SellerID,
			shift.BuyerID,
			shift.Title,
			shift.Description,
			shift.Price,
			shift.ShiftDate,
			shift.ShiftTime,
			shift.Duration,
			shift.Location,
			shift.Status,
			shift.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert shift sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert shift: %w", err)
	}

	return nil
}

// GetByID retrieves a listing by identifier.
func (r *ShiftRepository) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	stmt, args, err := r.builder.Select(shiftColumns...).
		From("shifts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select shift sql: %w", err)
	}

	shift, err := scanShift(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// ListAvailable returns open listings from every seller, newest first.
func (r *ShiftRepository) ListAvailable(ctx context.Context) ([]domain.Shift, error) {
	return r.list(ctx, squirrel.Eq{"status": domain.ShiftStatusAvailable})
}

// ListBySeller returns every listing the seller created, newest first.
func (r *ShiftRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Shift, error) {
	return r.list(ctx, squirrel.Eq{"seller_id": sellerID})
}

// ListByBuyer returns listings the buyer accepted, newest first.
func (r *ShiftRepository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Shift, error) {
	return r.list(ctx, squirrel.Eq{"buyer_id": buyerID})
}

// MarkPending binds the buyer and flips the listing to pending in one
// conditional update. When the status predicate no longer holds the update
// affects zero rows and the purchase has lost the race.
func (r *ShiftRepository) MarkPending(ctx context.Context, shiftID, buyerID string) error {
	stmt, args, err := r.builder.Update("shifts").
		Set("status", domain.ShiftStatusPending).
		Set("buyer_id", buyerID).
		Where(squirrel.Eq{"id": shiftID, "status": domain.ShiftStatusAvailable}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark shift pending sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("mark shift pending: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrConflict
	}

	return nil
}

func (r *ShiftRepository) list(ctx context.Context, pred squirrel.Eq) ([]domain.Shift, error) {
	stmt, args, err := r.builder.Select(shiftColumns...).
		From("shifts").
		Where(pred).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list shifts sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	shifts := make([]domain.Shift, 0)
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shifts: %w", err)
	}

	return shifts, nil
}

func scanShift(row pgx.Row) (*domain.Shift, error) {
	var shift domain.Shift
	if err := row.Scan(
		&shift.ID,
		&shift.SellerID,
		&shift.BuyerID,
		&shift.Title,
		&shift.Description,
		&shift.Price,
		&shift.ShiftDate,
		&shift.ShiftTime,
		&shift.Duration,
		&shift.Location,
		&shift.Status,
		&shift.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan shift: %w", err)
	}
	return &shift, nil
}
