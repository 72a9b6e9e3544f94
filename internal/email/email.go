// Package email provides message composition, mail transports and the
// asynchronous dispatcher that delivers notifications off the request path.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContentType selects how a message body is rendered by the mail client
type ContentType string

const (
	// ContentTypeHTML marks the body as text/html
	ContentTypeHTML ContentType = "html"
	// ContentTypePlain marks the body as text/plain
	ContentTypePlain ContentType = "plain"
)

// ErrInvalidMessage is returned when a message fails validation
var ErrInvalidMessage = errors.New("invalid email message")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Message is a fully formed notification ready for delivery
type Message struct {
	To          []string    `validate:"required,min=1,dive,required,email"`
	Subject     string      `validate:"required"`
	Body        string
	ContentType ContentType `validate:"omitempty,oneof=html plain"`
}

// Validate checks that the message has at least one well-formed recipient
// and a subject
func (m Message) Validate() error {
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidMessage, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return nil
}

// IsHTML reports whether the body should be sent as HTML. An unset
// ContentType means HTML.
func (m Message) IsHTML() bool {
	return m.ContentType != ContentTypePlain
}

// MIMEType returns the media type of the body
func (m Message) MIMEType() string {
	if m.IsHTML() {
		return "text/html"
	}
	return "text/plain"
}

// Mailer delivers a single message synchronously. Implementations talk to
// an SMTP relay or a provider API.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier accepts a message for asynchronous delivery. Send never reports
// delivery failures, only messages that could not be accepted.
type Notifier interface {
	Send(msg Message) error
}

// Sender is the envelope and header From identity
type Sender struct {
	Address string
	Name    string
}

// String formats the sender as an RFC 5322 address, encoding the display
// name when needed
func (s Sender) String() string {
	if s.Name == "" {
		return s.Address
	}
	return (&mail.Address{Name: s.Name, Address: s.Address}).String()
}
