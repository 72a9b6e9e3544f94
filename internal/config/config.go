// Package config provides configuration management for the notify service.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

// Supported email providers
const (
	ProviderSMTP    = "smtp"
	ProviderMailgun = "mailgun"
	ProviderSES     = "ses"
	ProviderConsole = "console"
)

// Supported SMTP TLS modes
const (
	TLSModeSTARTTLS = "starttls"
	TLSModeImplicit = "tls"
	TLSModeNone     = "none"
)

var (
	// ErrMissingResetURL is returned when RESET_URL_BASE is not configured
	ErrMissingResetURL = errors.New("RESET_URL_BASE is required")
	// ErrInvalidResetURL is returned when RESET_URL_BASE is not an absolute URL
	ErrInvalidResetURL = errors.New("RESET_URL_BASE must be an absolute http(s) URL")
	// ErrUnknownProvider is returned for an unsupported EMAIL_PROVIDER value
	ErrUnknownProvider = errors.New("unknown EMAIL_PROVIDER")
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Email    EmailConfig
	Reset    ResetConfig
	Relay    RelayConfig
	Log      LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                   string        `env:"DATABASE_URL"`
	Host                  string        `env:"DB_HOST" envDefault:"localhost"`
	Port                  string        `env:"DB_PORT" envDefault:"5432"`
	Name                  string        `env:"DB_NAME" envDefault:"etuni"`
	User                  string        `env:"DB_USER" envDefault:"etuni"`
	Password              string        `env:"DB_PASSWORD" envDefault:"etuni"`
	SSLMode               string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConnections        int           `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	MaxIdleConnections    int           `env:"DB_MAX_IDLE_CONNECTIONS" envDefault:"5"`
	ConnectionMaxLifetime time.Duration `env:"DB_CONNECTION_MAX_LIFETIME" envDefault:"5m"`
	AutoMigrate           bool          `env:"DB_AUTO_MIGRATE" envDefault:"false"`
}

// EmailConfig holds email transport and dispatch configuration
type EmailConfig struct {
	Provider    string        `env:"EMAIL_PROVIDER" envDefault:"smtp"`
	FromAddress string        `env:"EMAIL_FROM_ADDRESS" envDefault:"noreply@etuni.com"`
	FromName    string        `env:"EMAIL_FROM_NAME" envDefault:"ETUNI"`
	QueueSize   int           `env:"EMAIL_QUEUE_SIZE" envDefault:"100"`
	Workers     int           `env:"EMAIL_WORKERS" envDefault:"2"`
	SendTimeout time.Duration `env:"EMAIL_SEND_TIMEOUT" envDefault:"10s"`
	SMTP        SMTPConfig
	Mailgun     MailgunConfig
	SES         SESConfig
}

// SMTPConfig holds SMTP server credentials
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	TLSMode  string `env:"SMTP_TLS_MODE" envDefault:"starttls"`
}

// MailgunConfig holds Mailgun API configuration
type MailgunConfig struct {
	Domain string `env:"MAILGUN_DOMAIN"`
	APIKey string `env:"MAILGUN_API_KEY"`
	EU     bool   `env:"MAILGUN_EU" envDefault:"false"`
}

// SESConfig holds Amazon SES configuration. Empty keys fall back to the
// default AWS credential chain.
type SESConfig struct {
	Region          string `env:"AWS_REGION"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// ResetConfig holds password reset workflow configuration
type ResetConfig struct {
	AppName       string        `env:"APP_NAME" envDefault:"ETUNI"`
	URLBase       string        `env:"RESET_URL_BASE"`
	ResponseFloor time.Duration `env:"RESET_RESPONSE_FLOOR" envDefault:"0s"`
}

// RelayConfig holds configuration for the email relay endpoint.
// An empty JWTSecret leaves the relay unauthenticated.
type RelayConfig struct {
	JWTSecret string `env:"RELAY_JWT_SECRET"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.resolveSecrets(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveSecrets lets every credential also be supplied as a Docker secret file
func (c *Config) resolveSecrets() error {
	secrets := []struct {
		envVar string
		target *string
	}{
		{"DB_PASSWORD", &c.Database.Password},
		{"SMTP_PASSWORD", &c.Email.SMTP.Password},
		{"MAILGUN_API_KEY", &c.Email.Mailgun.APIKey},
		{"AWS_SECRET_ACCESS_KEY", &c.Email.SES.SecretAccessKey},
		{"RELAY_JWT_SECRET", &c.Relay.JWTSecret},
	}

	for _, s := range secrets {
		value, err := LookupSecret(s.envVar)
		if err != nil {
			return err
		}
		if value != "" {
			*s.target = value
		}
	}
	return nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.Reset.URLBase == "" {
		return ErrMissingResetURL
	}
	u, err := url.Parse(c.Reset.URLBase)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidResetURL
	}
	if c.Reset.ResponseFloor < 0 {
		return errors.New("RESET_RESPONSE_FLOOR must not be negative")
	}

	switch c.Email.Provider {
	case ProviderSMTP:
		if c.Email.SMTP.Host == "" {
			return errors.New("SMTP_HOST is required when EMAIL_PROVIDER=smtp")
		}
		switch c.Email.SMTP.TLSMode {
		case TLSModeSTARTTLS, TLSModeImplicit, TLSModeNone:
		default:
			return fmt.Errorf("SMTP_TLS_MODE must be one of starttls, tls, none (got %q)", c.Email.SMTP.TLSMode)
		}
	case ProviderMailgun:
		if c.Email.Mailgun.APIKey == "" {
			return errors.New("MAILGUN_API_KEY is required when EMAIL_PROVIDER=mailgun")
		}
		if c.Email.Mailgun.Domain == "" {
			return errors.New("MAILGUN_DOMAIN is required when EMAIL_PROVIDER=mailgun")
		}
	case ProviderSES:
		if c.Email.SES.Region == "" {
			return errors.New("AWS_REGION is required when EMAIL_PROVIDER=ses")
		}
	case ProviderConsole:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Email.Provider)
	}

	if c.Email.QueueSize <= 0 {
		return errors.New("EMAIL_QUEUE_SIZE must be positive")
	}
	if c.Email.Workers <= 0 {
		return errors.New("EMAIL_WORKERS must be positive")
	}

	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console (got %q)", c.Log.Format)
	}

	return nil
}

// ConnectionString returns the database connection string
func (d *DatabaseConfig) ConnectionString() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}
