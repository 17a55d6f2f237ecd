package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Email is a fully rendered transactional message.
type Email struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// EmailSender delivers an email through a provider and returns the provider message id.
type EmailSender interface {
	Send(ctx context.Context, email Email) (string, error)
}

// ProviderError reports a non-success answer from an email provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s responded with status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s responded with status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// LogEmailSender is a development provider that only logs outgoing messages.
type LogEmailSender struct {
	logger zerolog.Logger
}

// NewLogEmailSender constructs a logging provider.
func NewLogEmailSender(logger zerolog.Logger) *LogEmailSender {
	return &LogEmailSender{logger: logger.With().Str("component", "email_log_sender").Logger()}
}

// Send logs the message and returns a generated id.
func (l *LogEmailSender) Send(ctx context.Context, email Email) (string, error) {
	id := "log-" + uuid.NewString()
	l.logger.Info().
		Str("message_id", id).
		Strs("to", email.To).
		Str("subject", email.Subject).
		Msg("contact email delivered to log")
	return id, nil
}
