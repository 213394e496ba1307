package port

import (
	"context"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
)

// ShiftRepository exposes persistence behavior for shift listings.
type ShiftRepository interface {
	Create(ctx context.Context, shift domain.Shift) error
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	// ListAvailable returns open listings from every seller, newest first.
	ListAvailable(ctx context.Context) ([]domain.Shift, error)
	// ListBySeller returns every listing the seller ever created, any status,
	// newest first.
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Shift, error)
	// ListByBuyer returns listings the buyer has accepted, newest first.
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Shift, error)
	// MarkPending binds the buyer and moves the listing to pending in a single
	// conditional update. The write commits only if the status is still
	// available; otherwise it reports repository.ErrConflict and leaves the
	// row untouched.
	MarkPending(ctx context.Context, shiftID, buyerID string) error
}
