package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"socialnet/internal/logger"
)

const sendEndpoint = "/v3/mail/send"

// SendGridNotifier delivers verification emails through the SendGrid v3 API.
type SendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
}

// SendGridOption configures SendGridNotifier.
type SendGridOption func(apiKey string, n *SendGridNotifier)

// WithHost points the client at a different API host (tests use httptest).
func WithHost(host string) SendGridOption {
	return func(apiKey string, n *SendGridNotifier) {
		req := sendgrid.GetRequest(apiKey, sendEndpoint, host)
		req.Method = "POST"
		n.client = &sendgrid.Client{Request: req}
	}
}

// NewSendGridNotifier returns a notifier sending from senderEmail.
func NewSendGridNotifier(apiKey, senderEmail string, opts ...SendGridOption) *SendGridNotifier {
	n := &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("", senderEmail),
	}
	for _, opt := range opts {
		opt(apiKey, n)
	}
	return n
}

// SendVerificationEmail implements Notifier.
func (n *SendGridNotifier) SendVerificationEmail(ctx context.Context, data VerificationData, toEmail string) error {
	html, err := RenderVerificationEmail(data)
	if err != nil {
		return err
	}

	plain := fmt.Sprintf("Hi %s, activate your account: %s", data.FirstName, data.VerificationLink)
	msg := mail.NewSingleEmail(n.from, VerificationSubject, mail.NewEmail(data.FirstName, toEmail), plain, html)

	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send verification email: sendgrid returned status %d", resp.StatusCode)
	}

	logger.Log(ctx).Info(ctx, "verification email sent", zap.String("to", toEmail))
	return nil
}

var _ Notifier = (*SendGridNotifier)(nil)
