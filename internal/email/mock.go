package email

import (
	"context"
	"sync"
)

// MockMailer is a Mailer for testing. Sent messages are recorded before
// SendFunc runs, so failed attempts are visible too.
type MockMailer struct {
	SendFunc func(ctx context.Context, msg Message) error

	mu   sync.Mutex
	sent []Message
}

// NewMockMailer creates a mock mailer that accepts every message
func NewMockMailer() *MockMailer {
	return &MockMailer{
		SendFunc: func(_ context.Context, _ Message) error {
			return nil
		},
	}
}

// Send implements Mailer.Send
func (m *MockMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return m.SendFunc(ctx, msg)
}

// Sent returns a copy of every message passed to Send
func (m *MockMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

// MockNotifier is a Notifier for testing that records accepted messages
type MockNotifier struct {
	SendFunc func(msg Message) error

	mu       sync.Mutex
	messages []Message
}

// NewMockNotifier creates a mock notifier that accepts every valid message
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		SendFunc: func(msg Message) error {
			return msg.Validate()
		},
	}
}

// Send implements Notifier.Send
func (m *MockNotifier) Send(msg Message) error {
	if err := m.SendFunc(msg); err != nil {
		return err
	}
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()
	return nil
}

// Messages returns a copy of every accepted message
func (m *MockNotifier) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Reset clears recorded messages
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}
