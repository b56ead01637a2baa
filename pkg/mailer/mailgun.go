package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Sender delivers a rendered email. The worker is the only caller; the API
// process never sends mail directly, it only enqueues jobs.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// MailgunSender delivers through the Mailgun HTTP API.
type MailgunSender struct {
	client *mg.MailgunImpl
	from   string
}

func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{client: mg.NewMailgun(domain, apiKey), from: from}
}

// Send delivers one message. html is optional; when present it rides along
// with the plain-text fallback.
func (s *MailgunSender) Send(ctx context.Context, to, subject, text, html string) error {
	msg := s.client.NewMessage(s.from, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := s.client.Send(c, msg)
	return err
}
