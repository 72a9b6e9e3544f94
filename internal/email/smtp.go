package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TLSMode selects how the SMTP connection is secured
type TLSMode string

const (
	// TLSModeSTARTTLS upgrades a plain connection, usually on port 587
	TLSModeSTARTTLS TLSMode = "starttls"
	// TLSModeImplicit dials TLS directly, usually on port 465
	TLSModeImplicit TLSMode = "tls"
	// TLSModeNone sends in clear text. Only for local relays.
	TLSModeNone TLSMode = "none"
)

// ErrSTARTTLSUnsupported is returned when STARTTLS is required but the
// server does not offer it
var ErrSTARTTLSUnsupported = errors.New("smtp server does not support STARTTLS")

// SMTPConfig holds the connection settings for SMTPMailer
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	TLSMode  TLSMode
}

// SMTPMailer delivers messages through an SMTP relay
type SMTPMailer struct {
	cfg       SMTPConfig
	from      Sender
	tlsConfig *tls.Config
	now       func() time.Time
}

// NewSMTPMailer creates a mailer for the given relay
func NewSMTPMailer(cfg SMTPConfig, from Sender) *SMTPMailer {
	cfg.Host = strings.TrimSpace(cfg.Host)
	if cfg.TLSMode == "" {
		cfg.TLSMode = TLSModeSTARTTLS
	}
	return &SMTPMailer{
		cfg:       cfg,
		from:      from,
		tlsConfig: &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12},
		now:       time.Now,
	}
}

// Send delivers msg to every recipient in one SMTP transaction.
// The context deadline bounds the whole exchange.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	conn, err := m.dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer c.Close()

	if m.cfg.TLSMode == TLSModeSTARTTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return ErrSTARTTLSUnsupported
		}
		if err := c.StartTLS(m.tlsConfig); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}

	if m.cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
			if err := c.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth failed: %w", err)
			}
		}
	}

	if err := c.Mail(m.from.Address); err != nil {
		return fmt.Errorf("smtp MAIL FROM rejected: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO %s rejected: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA rejected: %w", err)
	}
	data, err := m.buildMessage(msg)
	if err != nil {
		w.Close()
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp server rejected message: %w", err)
	}

	return c.Quit()
}

func (m *SMTPMailer) dial(ctx context.Context, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	if m.cfg.TLSMode == TLSModeImplicit {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: m.tlsConfig}
		return tlsDialer.DialContext(ctx, "tcp", addr)
	}
	return dialer.DialContext(ctx, "tcp", addr)
}

// buildMessage renders headers and a quoted-printable UTF-8 body
func (m *SMTPMailer) buildMessage(msg Message) ([]byte, error) {
	var buf bytes.Buffer

	domain := "localhost"
	if at := strings.LastIndex(m.from.Address, "@"); at >= 0 {
		domain = m.from.Address[at+1:]
	}

	headers := [][2]string{
		{"From", m.from.String()},
		{"To", strings.Join(msg.To, ", ")},
		{"Subject", mime.QEncoding.Encode("UTF-8", msg.Subject)},
		{"Date", m.now().Format(time.RFC1123Z)},
		{"Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)},
		{"MIME-Version", "1.0"},
		{"Content-Type", msg.MIMEType() + `; charset="UTF-8"`},
		{"Content-Transfer-Encoding", "quoted-printable"},
	}
	for _, h := range headers {
		fmt.Fprintf(&buf, "%s: %s\r\n", h[0], h[1])
	}
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(msg.Body)); err != nil {
		return nil, fmt.Errorf("failed to encode message body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode message body: %w", err)
	}

	return buf.Bytes(), nil
}
