package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
)

func validShiftInput() domain.NewShiftInput {
	return domain.NewShiftInput{
		Title:       "Acil servis gece nöbeti",
		Description: "20:00 - 08:00 arası",
		Price:       1500,
		ShiftDate:   time.Now().Add(72 * time.Hour),
		ShiftTime:   "20:00",
		Duration:    "12h",
		Location:    "Çapa",
	}
}

func TestShiftService_Create(t *testing.T) {
	shifts := &mockShiftRepository{}
	events := &mockEventPublisher{}

	svc := NewShiftService(shifts, events, nil)

	shift, err := svc.Create(context.Background(), "seller-1", validShiftInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if shift.Status != domain.ShiftStatusAvailable {
		t.Fatalf("expected new listing to be available, got %s", shift.Status)
	}
	if shift.BuyerID != nil {
		t.Fatalf("expected no buyer on a new listing")
	}
	if shift.SellerID != "seller-1" {
		t.Fatalf("expected seller-1, got %s", shift.SellerID)
	}
	if shifts.createCalls != 1 {
		t.Fatalf("expected one insert, got %d", shifts.createCalls)
	}
	if shifts.createdShift.ShiftTime == nil || *shifts.createdShift.ShiftTime != "20:00" {
		t.Fatalf("expected shift time persisted, got %v", shifts.createdShift.ShiftTime)
	}

	if events.listedCalls != 1 {
		t.Fatalf("expected listed event once, got %d", events.listedCalls)
	}
	if events.listedEvent.ShiftID != shift.ID {
		t.Fatalf("expected event for %s, got %s", shift.ID, events.listedEvent.ShiftID)
	}
}

func TestShiftService_Create_TrimsOptionalFields(t *testing.T) {
	shifts := &mockShiftRepository{}
	svc := NewShiftService(shifts, nil, nil)

	input := validShiftInput()
	input.ShiftTime = " 09:00 "
	input.Duration = "\t24h"
	input.Location = "   "

	if _, err := svc.Create(context.Background(), "seller-1", input); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if shifts.createdShift.ShiftTime == nil || *shifts.createdShift.ShiftTime != "09:00" {
		t.Fatalf("expected trimmed shift time, got %v", shifts.createdShift.ShiftTime)
	}
	if shifts.createdShift.Duration == nil || *shifts.createdShift.Duration != "24h" {
		t.Fatalf("expected trimmed duration, got %v", shifts.createdShift.Duration)
	}
	if shifts.createdShift.Location != nil {
		t.Fatalf("expected blank location stored as null, got %v", shifts.createdShift.Location)
	}
}

func TestShiftService_Create_ZeroPriceAndToday(t *testing.T) {
	shifts := &mockShiftRepository{}
	svc := NewShiftService(shifts, nil, nil)

	input := validShiftInput()
	input.Price = 0
	input.ShiftDate = time.Now().UTC()

	if _, err := svc.Create(context.Background(), "seller-1", input); err != nil {
		t.Fatalf("expected zero price and today's date to be accepted, got %v", err)
	}
}

func TestShiftService_Create_NegativePrice(t *testing.T) {
	shifts := &mockShiftRepository{}
	svc := NewShiftService(shifts, nil, nil)

	input := validShiftInput()
	input.Price = -1

	if _, err := svc.Create(context.Background(), "seller-1", input); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if shifts.createCalls != 0 {
		t.Fatalf("expected no insert for invalid price")
	}
}

func TestShiftService_Create_PastDate(t *testing.T) {
	shifts := &mockShiftRepository{}
	svc := NewShiftService(shifts, nil, nil)

	input := validShiftInput()
	input.ShiftDate = time.Now().Add(-48 * time.Hour)

	if _, err := svc.Create(context.Background(), "seller-1", input); !errors.Is(err, ErrPastDate) {
		t.Fatalf("expected ErrPastDate, got %v", err)
	}
}

func TestShiftService_Create_PastDateInMarketTimezone(t *testing.T) {
	// 22:00 UTC on March 14 is already 01:00 on March 15 in Istanbul. A
	// listing dated March 14 is the caller's local yesterday and must be
	// rejected; March 15 is their today and must pass.
	istanbul := time.FixedZone("UTC+3", 3*60*60)
	shifts := &mockShiftRepository{}
	svc := NewShiftService(shifts, nil, nil).WithLocation(istanbul)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
	}

	input := validShiftInput()
	input.ShiftDate = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Create(context.Background(), "seller-1", input); !errors.Is(err, ErrPastDate) {
		t.Fatalf("expected ErrPastDate for the local yesterday, got %v", err)
	}

	input.ShiftDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Create(context.Background(), "seller-1", input); err != nil {
		t.Fatalf("expected the local today to be accepted, got %v", err)
	}
}

func TestShiftService_Create_MissingTitle(t *testing.T) {
	svc := NewShiftService(&mockShiftRepository{}, nil, nil)

	input := validShiftInput()
	input.Title = "   "

	if _, err := svc.Create(context.Background(), "seller-1", input); !errors.Is(err, ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}
}

func TestShiftService_ListAvailable(t *testing.T) {
	shifts := &mockShiftRepository{
		listAvailableResult: []domain.Shift{
			{ID: "shift-2", Status: domain.ShiftStatusAvailable},
			{ID: "shift-1", Status: domain.ShiftStatusAvailable},
		},
	}
	svc := NewShiftService(shifts, nil, nil)

	got, err := svc.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("ListAvailable returned error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "shift-2" {
		t.Fatalf("expected listings in repository order, got %+v", got)
	}
}

func TestShiftService_ListPurchases(t *testing.T) {
	buyer := "buyer-1"
	shifts := &mockShiftRepository{
		listByBuyerResult: []domain.Shift{
			{ID: "shift-1", Status: domain.ShiftStatusPending, BuyerID: &buyer},
		},
	}
	svc := NewShiftService(shifts, nil, nil)

	got, err := svc.ListPurchases(context.Background(), buyer)
	if err != nil {
		t.Fatalf("ListPurchases returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "shift-1" {
		t.Fatalf("expected the buyer's shift, got %+v", got)
	}
}
