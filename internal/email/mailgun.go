package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailgun/mailgun-go/v5"
)

// MailgunEUAPIBase is the API base for domains hosted in the EU region
const MailgunEUAPIBase = "https://api.eu.mailgun.net"

// MailgunMailer delivers messages through Mailgun's HTTP API
type MailgunMailer struct {
	client mailgun.Mailgun
	domain string
	from   Sender
}

// NewMailgunMailer creates a new Mailgun mailer.
// apiBase overrides the API endpoint; empty keeps Mailgun's US default.
func NewMailgunMailer(domain, apiKey, apiBase string, from Sender) (*MailgunMailer, error) {
	// Trim whitespace from inputs (important when loaded from env files)
	domain = strings.TrimSpace(domain)
	apiKey = strings.TrimSpace(apiKey)

	mg := mailgun.NewMailgun(apiKey)
	if apiBase != "" {
		// Mailgun v5 adds the /v3 suffix itself
		if err := mg.SetAPIBase(strings.TrimSuffix(apiBase, "/")); err != nil {
			return nil, fmt.Errorf("invalid mailgun api base: %w", err)
		}
	}

	return &MailgunMailer{
		client: mg,
		domain: domain,
		from:   from,
	}, nil
}

// Send submits msg to Mailgun. The caller's context bounds the request.
func (s *MailgunMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	text := msg.Body
	if msg.IsHTML() {
		text = ""
	}

	message := mailgun.NewMessage(s.domain, s.from.String(), msg.Subject, text, msg.To...)
	if msg.IsHTML() {
		message.SetHTML(msg.Body)
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		return fmt.Errorf("mailgun send failed: %w", err)
	}

	return nil
}
