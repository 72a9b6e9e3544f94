package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/etuni/notify-service/internal/config"
	"github.com/etuni/notify-service/internal/email"
)

// newMailer builds the transport selected by EMAIL_PROVIDER
func newMailer(ctx context.Context, cfg *config.EmailConfig, logger *zap.Logger) (email.Mailer, error) {
	from := email.Sender{Address: cfg.FromAddress, Name: cfg.FromName}

	switch cfg.Provider {
	case config.ProviderSMTP:
		return email.NewSMTPMailer(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			TLSMode:  email.TLSMode(cfg.SMTP.TLSMode),
		}, from), nil

	case config.ProviderMailgun:
		apiBase := ""
		if cfg.Mailgun.EU {
			apiBase = email.MailgunEUAPIBase
		}
		return email.NewMailgunMailer(cfg.Mailgun.Domain, cfg.Mailgun.APIKey, apiBase, from)

	case config.ProviderSES:
		client, err := email.NewSESClient(ctx, cfg.SES.Region, cfg.SES.AccessKeyID, cfg.SES.SecretAccessKey)
		if err != nil {
			return nil, err
		}
		return email.NewSESMailer(client, from), nil

	case config.ProviderConsole:
		logger.Warn("EMAIL_PROVIDER=console: emails are logged, not delivered")
		return email.NewConsoleMailer(from, logger), nil
	}

	return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider)
}
