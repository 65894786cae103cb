package mailer

import (
	"context"

	"go.uber.org/zap"

	"socialnet/internal/logger"
)

// LogNotifier only logs the activation link. Used when no mail provider key is
// configured, e.g. in local development.
type LogNotifier struct{}

// NewLogNotifier returns a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// SendVerificationEmail implements Notifier.
func (LogNotifier) SendVerificationEmail(ctx context.Context, data VerificationData, toEmail string) error {
	logger.Log(ctx).Info(ctx, "verification email (log only; set SENDGRID_API_KEY to deliver)",
		zap.String("to", toEmail),
		zap.String("verification_link", data.VerificationLink))
	return nil
}

var _ Notifier = LogNotifier{}
