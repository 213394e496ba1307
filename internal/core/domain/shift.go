package domain

import "time"

// ShiftStatus drives the listing transaction state machine.
type ShiftStatus string

const (
	// ShiftStatusAvailable means the listing is open to any buyer.
	ShiftStatusAvailable ShiftStatus = "available"
	// ShiftStatusPending means a buyer accepted the listing and the handover
	// is being coordinated out of band.
	ShiftStatusPending ShiftStatus = "pending"
	// ShiftStatusSold marks a completed handover. The transition out of
	// pending is driven by an external process, not this service.
	ShiftStatusSold ShiftStatus = "sold"
)

// Shift is a work shift listed for sale. BuyerID is set exactly when the
// status is pending or sold.
type Shift struct {
	ID          string
	SellerID    string
	BuyerID     *string
	Title       string
	Description string
	Price       float64
	ShiftDate   time.Time
	ShiftTime   *string
	Duration    *string
	Location    *string
	Status      ShiftStatus
	CreatedAt   time.Time
}

// NewShiftInput carries the seller-provided attributes for a new listing.
type NewShiftInput struct {
	Title       string
	Description string
	Price       float64
	ShiftDate   time.Time
	ShiftTime   string
	Duration    string
	Location    string
}
