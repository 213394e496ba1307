package port

import (
	"context"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserVerified(ctx context.Context, event domain.UserVerifiedEvent) error
	PublishShiftListed(ctx context.Context, event domain.ShiftListedEvent) error
	PublishShiftPurchased(ctx context.Context, event domain.ShiftPurchasedEvent) error
}
