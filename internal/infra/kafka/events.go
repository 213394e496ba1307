package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := map[string]string{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes nobet.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string         `json:"user_id"`
		Email        string         `json:"email"`
		Status       string         `json:"status"`
		RegisteredAt time.Time      `json:"registered_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		UserID:       event.UserID,
		Email:        event.Email,
		Status:       event.Status,
		RegisteredAt: event.RegisteredAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.registered", event.RegisteredAt, payload)
}

// PublishUserVerified publishes nobet.user.verified events.
func (p *EventPublisher) PublishUserVerified(ctx context.Context, event domain.UserVerifiedEvent) error {
	payload := struct {
		UserID     string         `json:"user_id"`
		Email      string         `json:"email"`
		VerifiedAt time.Time      `json:"verified_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		UserID:     event.UserID,
		Email:      event.Email,
		VerifiedAt: event.VerifiedAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.verified", event.VerifiedAt, payload)
}

// PublishShiftListed publishes nobet.shift.listed events.
func (p *EventPublisher) PublishShiftListed(ctx context.Context, event domain.ShiftListedEvent) error {
	payload := struct {
		ShiftID   string         `json:"shift_id"`
		SellerID  string         `json:"seller_id"`
		Title     string         `json:"title"`
		Price     float64        `json:"price"`
		ShiftDate time.Time      `json:"shift_date"`
		ListedAt  time.Time      `json:"listed_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		ShiftID:   event.ShiftID,
		SellerID:  event.SellerID,
		Title:     event.Title,
		Price:     event.Price,
		ShiftDate: event.ShiftDate,
		ListedAt:  event.ListedAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "shift.listed", event.ListedAt, payload)
}

// PublishShiftPurchased publishes nobet.shift.purchased events.
func (p *EventPublisher) PublishShiftPurchased(ctx context.Context, event domain.ShiftPurchasedEvent) error {
	payload := struct {
		ShiftID     string         `json:"shift_id"`
		SellerID    string         `json:"seller_id"`
		BuyerID     string         `json:"buyer_id"`
		Price       float64        `json:"price"`
		PurchasedAt time.Time      `json:"purchased_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		ShiftID:     event.ShiftID,
		SellerID:    event.SellerID,
		BuyerID:     event.BuyerID,
		Price:       event.Price,
		PurchasedAt: event.PurchasedAt.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, "shift.purchased", event.PurchasedAt, payload)
}
