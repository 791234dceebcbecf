package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/tradzyhq/tradzy-backend/pkg/config"
)

// Sender delivers a single HTML email. The outbox worker is the only caller;
// order placement never touches the transport directly.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type resendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender builds a Sender backed by the Resend API.
func NewResendSender(cfg config.MailConfig) (Sender, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("mail is not configured")
	}
	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}
	return &resendSender{
		client: resend.NewClient(cfg.APIKey),
		from:   from,
	}, nil
}

func (s *resendSender) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}
