package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// brokers are configured.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs nobet.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.logEvent("user.registered", event.RegisteredAt, map[string]any{
		"user_id": event.UserID,
		"status":  event.Status,
	})
	return nil
}

// PublishUserVerified logs nobet.user.verified events.
func (p *StubPublisher) PublishUserVerified(_ context.Context, event domain.UserVerifiedEvent) error {
	p.logEvent("user.verified", event.VerifiedAt, map[string]any{
		"user_id": event.UserID,
	})
	return nil
}

// PublishShiftListed logs nobet.shift.listed events.
func (p *StubPublisher) PublishShiftListed(_ context.Context, event domain.ShiftListedEvent) error {
	p.logEvent("shift.listed", event.ListedAt, map[string]any{
		"shift_id":  event.ShiftID,
		"seller_id": event.SellerID,
		"price":     event.Price,
	})
	return nil
}

// PublishShiftPurchased logs nobet.shift.purchased events.
func (p *StubPublisher) PublishShiftPurchased(_ context.Context, event domain.ShiftPurchasedEvent) error {
	p.logEvent("shift.purchased", event.PurchasedAt, map[string]any{
		"shift_id": event.ShiftID,
		"buyer_id": event.BuyerID,
	})
	return nil
}
