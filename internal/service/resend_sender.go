package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

const defaultResendBaseURL = "https://api.resend.com"

// ResendConfig configures the Resend email provider.
type ResendConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// ResendSender delivers emails through the Resend API.
type ResendSender struct {
	client *resend.Client
	logger zerolog.Logger
}

type resendStatusKey struct{}

// statusRecorder stores the provider's HTTP status on the request context so
// SDK errors, which only carry the message, can be mapped to ProviderError.
type statusRecorder struct {
	next http.RoundTripper
}

func (r statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if resp != nil {
		if status, ok := req.Context().Value(resendStatusKey{}).(*int); ok {
			*status = resp.StatusCode
		}
	}
	return resp, err
}

// NewResendSender constructs a Resend provider.
func NewResendSender(cfg ResendConfig, logger zerolog.Logger) (*ResendSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultResendBaseURL
	}
	endpoint, err := url.Parse(baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid resend base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resend.NewCustomClient(&http.Client{
		Timeout:   timeout,
		Transport: statusRecorder{next: http.DefaultTransport},
	}, cfg.APIKey)
	client.BaseURL = endpoint

	return &ResendSender{
		client: client,
		logger: logger.With().Str("component", "resend_sender").Logger(),
	}, nil
}

// Send posts the email to Resend and returns the assigned message id.
func (s *ResendSender) Send(ctx context.Context, email Email) (string, error) {
	var status int
	ctx = context.WithValue(ctx, resendStatusKey{}, &status)

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		if status == 0 {
			return "", fmt.Errorf("resend request failed: %w", err)
		}
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			return "", fmt.Errorf("decode resend response: %w", err)
		}
		message := providerMessage(err)
		s.logger.Error().Int("status", status).Str("error", message).Msg("resend rejected email")
		return "", &ProviderError{Provider: "resend", StatusCode: status, Message: message}
	}

	if sent == nil || sent.Id == "" {
		return "", errors.New("resend response missing message id")
	}

	return sent.Id, nil
}

// providerMessage drops the SDK's "[ERROR]:" prefix from API errors.
func providerMessage(err error) string {
	return strings.TrimSpace(strings.TrimPrefix(err.Error(), "[ERROR]:"))
}
