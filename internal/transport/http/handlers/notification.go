package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	appLogger "github.com/barisuyucak/nobetpazari/internal/infra/logger"
)

// NotificationDispatcher fans out verification and reset credentials to
// downstream notifiers.
type NotificationDispatcher interface {
	SendVerificationCode(ctx context.Context, payload VerificationNotification) error
	SendPasswordReset(ctx context.Context, payload PasswordResetNotification) error
}

// VerificationNotification captures data needed to deliver a signup code.
type VerificationNotification struct {
	Email   string
	DevCode string
	Expires time.Time
}

// PasswordResetNotification captures data needed to deliver reset credentials.
type PasswordResetNotification struct {
	Email    string
	DevToken string
	Expires  time.Time
}

type noopDispatcher struct{}

func (noopDispatcher) SendVerificationCode(context.Context, VerificationNotification) error {
	return nil
}

func (noopDispatcher) SendPasswordReset(context.Context, PasswordResetNotification) error {
	return nil
}

// LoggingNotificationDispatcher records credential dispatch events for
// observability without delivering them. Real delivery goes through the
// message bus consumers.
type LoggingNotificationDispatcher struct {
	logger *zap.Logger
}

// NewLoggingNotificationDispatcher constructs a notification dispatcher backed
// by structured logging.
func NewLoggingNotificationDispatcher(logger *zap.Logger) NotificationDispatcher {
	if logger == nil {
		return noopDispatcher{}
	}
	return &LoggingNotificationDispatcher{logger: logger}
}

func (d *LoggingNotificationDispatcher) SendVerificationCode(_ context.Context, payload VerificationNotification) error {
	if d == nil || d.logger == nil {
		return nil
	}

	d.logger.Info("verification code dispatch requested",
		zap.String("email", appLogger.MaskEmail(payload.Email)),
		zap.Time("expires_at", payload.Expires),
	)
	return nil
}

func (d *LoggingNotificationDispatcher) SendPasswordReset(_ context.Context, payload PasswordResetNotification) error {
	if d == nil || d.logger == nil {
		return nil
	}

	d.logger.Info("password reset dispatch requested",
		zap.String("email", appLogger.MaskEmail(payload.Email)),
		zap.Time("expires_at", payload.Expires),
	)
	return nil
}
