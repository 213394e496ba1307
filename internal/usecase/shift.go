package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/core/port"
	"github.com/barisuyucak/nobetpazari/internal/repository"
)

var (
	// ErrMissingTitle indicates a listing without a title.
	ErrMissingTitle = errors.New("title is required")
	// ErrInvalidPrice indicates a negative asking price.
	ErrInvalidPrice = errors.New("price must not be negative")
	// ErrPastDate indicates a shift date before today.
	ErrPastDate = errors.New("shift date must not be in the past")
	// ErrShiftNotFound indicates the listing does not exist.
	ErrShiftNotFound = errors.New("shift not found")
)

// ShiftService manages shift listings: publishing and the seller/buyer/browse
// views over them.
type ShiftService struct {
	shifts port.ShiftRepository
	events port.EventPublisher
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewShiftService constructs a shift service.
func NewShiftService(shifts port.ShiftRepository, events port.EventPublisher, logger *zap.Logger) *ShiftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftService{
		shifts: shifts,
		events: events,
		logger: logger,
		loc:    time.UTC,
		now:    time.Now,
	}
}

// WithLocation sets the timezone that anchors "today" for date validation.
// Listings carry bare calendar dates, so lateness is judged against the
// marketplace's local day, not the UTC day.
func (s *ShiftService) WithLocation(loc *time.Location) *ShiftService {
	if loc != nil {
		s.loc = loc
	}
	return s
}

// Create validates and publishes a new listing. The listing is born available
// with no buyer.
func (s *ShiftService) Create(ctx context.Context, sellerID string, input domain.NewShiftInput) (domain.Shift, error) {
	if strings.TrimSpace(input.Title) == "" {
		return domain.Shift{}, ErrMissingTitle
	}
	if input.Price < 0 {
		return domain.Shift{}, ErrInvalidPrice
	}

	now := s.now().UTC()
	local := now.In(s.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	// The submitted calendar date is authoritative as written; only its
	// year/month/day matter.
	shiftDay := time.Date(input.ShiftDate.Year(), input.ShiftDate.Month(), input.ShiftDate.Day(), 0, 0, 0, 0, time.UTC)
	if shiftDay.Before(today) {
		return domain.Shift{}, ErrPastDate
	}

	shift := domain.Shift{
		ID:          uuid.NewString(),
		SellerID:    sellerID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       input.Price,
		ShiftDate:   shiftDay,
		ShiftTime:   optional(input.ShiftTime),
		Duration:    optional(input.Duration),
		Location:    optional(input.Location),
		Status:      domain.ShiftStatusAvailable,
		CreatedAt:   now,
	}

	if err := s.shifts.Create(ctx, shift); err != nil {
		return domain.Shift{}, fmt.Errorf("create shift: %w", err)
	}

	if s.events != nil {
		event := domain.ShiftListedEvent{
			EventID:   uuid.NewString(),
			ShiftID:   shift.ID,
			SellerID:  shift.SellerID,
			Title:     shift.Title,
			Price:     shift.Price,
			ShiftDate: shift.ShiftDate,
			ListedAt:  now,
		}
		if err := s.events.PublishShiftListed(ctx, event); err != nil {
			s.logger.Warn("publish shift listed event failed", zap.Error(err), zap.String("shift_id", shift.ID))
		}
	}

	return shift, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// GetByID resolves a single listing.
func (s *ShiftService) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	shift, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("lookup shift: %w", err)
	}
	return shift, nil
}

// ListAvailable returns the open marketplace: available listings from every
// seller, including the caller's own.
func (s *ShiftService) ListAvailable(ctx context.Context) ([]domain.Shift, error) {
	shifts, err := s.shifts.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available shifts: %w", err)
	}
	return shifts, nil
}

// ListBySeller returns every listing the seller created, regardless of status.
func (s *ShiftService) ListBySeller(ctx context.Context, sellerID string) ([]domain.Shift, error) {
	shifts, err := s.shifts.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list shifts by seller: %w", err)
	}
	return shifts, nil
}

// ListPurchases returns the listings the buyer has accepted.
func (s *ShiftService) ListPurchases(ctx context.Context, buyerID string) ([]domain.Shift, error) {
	shifts, err := s.shifts.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list purchased shifts: %w", err)
	}
	return shifts, nil
}
