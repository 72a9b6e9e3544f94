// Package reset implements the password reset workflow: account lookup,
// token issuance and hand-off of the notification email.
package reset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/etuni/notify-service/internal/auth"
	"github.com/etuni/notify-service/internal/email"
	"github.com/etuni/notify-service/internal/repository"
)

// TokenTTL is how long an issued reset token stays valid
const TokenTTL = 30 * time.Minute

const issueAttempts = 3

// ErrInvalidBaseURL is returned when the reset link base is not an absolute URL
var ErrInvalidBaseURL = errors.New("invalid reset base URL")

// Config holds the workflow settings
type Config struct {
	AppName string
	URLBase string
}

// Service runs the password reset workflow
type Service struct {
	users    repository.UserRepository
	tokens   repository.ResetTokenRepository
	notifier email.Notifier
	logger   *zap.Logger

	appName  string
	baseURL  *url.URL
	now      func() time.Time
	generate func() (string, error)
}

// NewService creates a reset service
func NewService(
	users repository.UserRepository,
	tokens repository.ResetTokenRepository,
	notifier email.Notifier,
	logger *zap.Logger,
	cfg Config,
) (*Service, error) {
	base, err := url.Parse(cfg.URLBase)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.URLBase)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger.Named("reset"),
		appName:  cfg.AppName,
		baseURL:  base,
		now:      time.Now,
		generate: auth.GenerateSecureToken,
	}, nil
}

// WithClock replaces the time source
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithTokenGenerator replaces the token value generator
func (s *Service) WithTokenGenerator(generate func() (string, error)) *Service {
	s.generate = generate
	return s
}

// RequestReset issues a fresh token for the account registered under
// emailAddr and queues the reset email. An unknown address is not an error
// and leaves no trace. A returned error means no token was issued.
func (s *Service) RequestReset(ctx context.Context, emailAddr string) error {
	emailAddr = strings.TrimSpace(emailAddr)

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	value, expiresAt, err := s.issue(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Info("account removed before reset token was issued", zap.Int64("user_id", user.ID))
			return nil
		}
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	body, err := renderResetEmail(emailData{
		Name:         user.DisplayName(),
		ResetURL:     s.ResetURL(value),
		AppName:      s.appName,
		ValidMinutes: int(TokenTTL / time.Minute),
	})
	if err != nil {
		return err
	}

	msg := email.Message{
		To:          []string{user.Email},
		Subject:     Subject(s.appName),
		Body:        body,
		ContentType: email.ContentTypeHTML,
	}
	if err := s.notifier.Send(msg); err != nil {
		s.logger.Error("failed to queue password reset email",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		return nil
	}

	s.logger.Info("password reset token issued",
		zap.Int64("user_id", user.ID),
		zap.Time("expires_at", expiresAt),
	)
	return nil
}

// issue stores a fresh value for userID, drawing again if the value
// collides with another account's token
func (s *Service) issue(ctx context.Context, userID int64) (string, time.Time, error) {
	var err error
	for attempt := 0; attempt < issueAttempts; attempt++ {
		var value string
		value, err = s.generate()
		if err != nil {
			return "", time.Time{}, err
		}

		expiresAt := s.now().Add(TokenTTL)
		if _, err = s.tokens.IssueOrReplace(ctx, userID, value, expiresAt); err == nil {
			return value, expiresAt, nil
		}
		if !errors.Is(err, repository.ErrDuplicateResetToken) {
			return "", time.Time{}, err
		}
	}
	return "", time.Time{}, err
}

// ValidateToken reports whether value names an unused, unexpired token
func (s *Service) ValidateToken(ctx context.Context, value string) (bool, error) {
	if value == "" {
		return false, nil
	}

	token, err := s.tokens.GetByValue(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up reset token: %w", err)
	}

	return token.IsValidAt(s.now()), nil
}

// ResetURL builds the link sent to the user, keeping any query parameters
// already present on the configured base
func (s *Service) ResetURL(value string) string {
	u := *s.baseURL
	q := u.Query()
	q.Set("token", value)
	u.RawQuery = q.Encode()
	return u.String()
}
