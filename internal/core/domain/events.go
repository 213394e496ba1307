package domain

import "time"

// UserRegisteredEvent represents the payload for nobet.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Email        string
	Status       string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// UserVerifiedEvent represents the payload for nobet.user.verified messages.
type UserVerifiedEvent struct {
	EventID    string
	UserID     string
	Email      string
	VerifiedAt time.Time
	Metadata   map[string]any
}

// ShiftListedEvent represents the payload for nobet.shift.listed messages.
type ShiftListedEvent struct {
	EventID   string
	ShiftID   string
	SellerID  string
	Title     string
	Price     float64
	ShiftDate time.Time
	ListedAt  time.Time
	Metadata  map[string]any
}

// ShiftPurchasedEvent represents the payload for nobet.shift.purchased messages.
type ShiftPurchasedEvent struct {
	EventID     string
	ShiftID     string
	SellerID    string
	BuyerID     string
	Price       float64
	PurchasedAt time.Time
	Metadata    map[string]any
}
