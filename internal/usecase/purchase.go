package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/core/port"
	"github.com/barisuyucak/nobetpazari/internal/repository"
)

var (
	// ErrOwnShift indicates a seller tried to buy their own listing.
	ErrOwnShift = errors.New("cannot purchase own shift")
	// ErrShiftTaken indicates the listing is no longer available.
	ErrShiftTaken = errors.New("shift no longer available")
)

// PurchaseService runs the buy flow. At most one buyer wins a listing: the
// decisive write is a conditional update on the row status, so two concurrent
// purchases of the same shift resolve to one winner and one ErrShiftTaken
// with no coordination beyond the database.
type PurchaseService struct {
	shifts port.ShiftRepository
	events port.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewPurchaseService constructs a purchase service.
func NewPurchaseService(shifts port.ShiftRepository, events port.EventPublisher, logger *zap.Logger) *PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseService{
		shifts: shifts,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// Purchase binds buyerID to the listing and moves it to pending. The
// pre-checks are advisory; the conditional update is what decides the race.
func (s *PurchaseService) Purchase(ctx context.Context, shiftID, buyerID string) (*domain.Shift, error) {
	shift, err := s.shifts.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("lookup shift: %w", err)
	}

	if shift.SellerID == buyerID {
		return nil, ErrOwnShift
	}
	if shift.Status != domain.ShiftStatusAvailable {
		return nil, ErrShiftTaken
	}

	if err := s.shifts.MarkPending(ctx, shiftID, buyerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrShiftTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrShiftNotFound
		default:
			return nil, fmt.Errorf("mark shift pending: %w", err)
		}
	}

	shift.Status = domain.ShiftStatusPending
	shift.BuyerID = &buyerID

	if s.events != nil {
		event := domain.ShiftPurchasedEvent{
			EventID:     uuid.NewString(),
			ShiftID:     shift.ID,
			SellerID:    shift.SellerID,
			BuyerID:     buyerID,
			Price:       shift.Price,
			PurchasedAt: s.now().UTC(),
		}
		if err := s.events.PublishShiftPurchased(ctx, event); err != nil {
			s.logger.Warn("publish shift purchased event failed", zap.Error(err), zap.String("shift_id", shift.ID))
		}
	}

	return shift, nil
}
