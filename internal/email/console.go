package email

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleMailer logs messages instead of sending them, for local
// development. Bodies carry reset links, so they are only logged at debug
// level.
type ConsoleMailer struct {
	from   Sender
	logger *zap.Logger
}

// NewConsoleMailer creates a new console-based mailer
func NewConsoleMailer(from Sender, logger *zap.Logger) *ConsoleMailer {
	return &ConsoleMailer{from: from, logger: logger}
}

// Send logs the message envelope at info level and the body at debug level
func (s *ConsoleMailer) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("from", s.from.String()),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("content_type", msg.MIMEType()),
	}
	s.logger.Info("email (console mode)", fields...)

	if ce := s.logger.Check(zap.DebugLevel, "email body (console mode)"); ce != nil {
		ce.Write(append(fields, zap.String("body", msg.Body))...)
	}

	return nil
}
