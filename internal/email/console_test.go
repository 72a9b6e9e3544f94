package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConsoleMailer_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mailer := NewConsoleMailer(Sender{Address: "noreply@etuni.com", Name: "ETUNI"}, zap.New(core))

	err := mailer.Send(context.Background(), Message{
		To:      []string{"alice@etuni.com"},
		Subject: "Reset",
		Body:    "<a href=\"https://etuni.com/reset?token=abc\">reset</a>",
	})
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len(), "only the envelope is logged at info level")
	entry := logs.All()[0]
	assert.Equal(t, "email (console mode)", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "Reset", fields["subject"])
	assert.Equal(t, "text/html", fields["content_type"])
	assert.NotContains(t, fields, "body")
	for _, f := range entry.Context {
		assert.NotContains(t, f.String, "token=abc")
	}
}

func TestConsoleMailer_Send_BodyAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mailer := NewConsoleMailer(Sender{Address: "noreply@etuni.com"}, zap.New(core))

	err := mailer.Send(context.Background(), Message{
		To:      []string{"alice@etuni.com"},
		Subject: "Reset",
		Body:    "token=abc",
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("email body (console mode)").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, "token=abc", entries[0].ContextMap()["body"])
}

func TestConsoleMailer_Send_Invalid(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mailer := NewConsoleMailer(Sender{Address: "noreply@etuni.com"}, zap.New(core))

	err := mailer.Send(context.Background(), Message{To: []string{"alice@etuni.com"}})
	assert.ErrorIs(t, err, ErrInvalidMessage)
	assert.Zero(t, logs.Len())
}
