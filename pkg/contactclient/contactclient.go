// Package contactclient submits contact-form messages to the portfolio contact API.
package contactclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-contact-api/pkg/contactform"
)

const (
	defaultTimeout   = 15 * time.Second
	maxResponseBytes = 64 << 10

	// SuccessMessage is shown to the visitor once the message was delivered.
	SuccessMessage = "Message sent successfully! I'll get back to you soon."
	// FailureMessage is shown when delivery failed for reasons the visitor cannot fix.
	FailureMessage = "Failed to send message. Please try again later."
)

// Config contains the settings required to reach the contact endpoint.
type Config struct {
	// Endpoint is the full URL of the contact route, e.g. https://example.com/api/v1/contact.
	Endpoint string
	// AlternateContactURL is suggested to the visitor next to every outcome.
	AlternateContactURL string
	Timeout             time.Duration
	HTTPClient          *http.Client
}

// Client posts submissions after running the same checks as the contact form.
type Client struct {
	endpoint  string
	alternate string
	http      *http.Client
	logger    zerolog.Logger
}

// Acknowledgement is the confirmed outcome of a submission.
type Acknowledgement struct {
	ID      string
	Message string
}

// APIError is returned when the endpoint answered with a non-success status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("contact api returned %d: %s", e.Status, e.Message)
}

// Retryable reports whether submitting the same payload again may succeed.
func (e *APIError) Retryable() bool {
	return e.Status >= http.StatusInternalServerError
}

type submitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error"`
}

// New constructs a client for the configured endpoint.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("contact endpoint is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		endpoint:  endpoint,
		alternate: strings.TrimSpace(cfg.AlternateContactURL),
		http:      httpClient,
		logger:    logger.With().Str("component", "contact_client").Logger(),
	}, nil
}

// Submit trims and pre-checks the submission, then posts it. Payloads failing
// the checks never leave the process; the returned error is the
// contactform.Rejection or *contactform.BoundsError that stopped them.
func (c *Client) Submit(ctx context.Context, submission contactform.Submission) (Acknowledgement, error) {
	submission = contactform.Normalize(submission)
	if err := contactform.Validate(submission); err != nil {
		return Acknowledgement{}, err
	}
	if err := contactform.CheckBounds(submission); err != nil {
		return Acknowledgement{}, err
	}

	body, err := json.Marshal(submission)
	if err != nil {
		return Acknowledgement{}, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Acknowledgement{}, fmt.Errorf("build contact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("contact request failed")
		return Acknowledgement{}, fmt.Errorf("contact request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Acknowledgement{}, fmt.Errorf("read contact response: %w", err)
	}

	var payload submitResponse
	decodeErr := json.Unmarshal(raw, &payload)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(payload.Error)
		if decodeErr != nil || message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		c.logger.Warn().Int("status", resp.StatusCode).Str("error", message).Msg("contact api rejected submission")
		return Acknowledgement{}, &APIError{Status: resp.StatusCode, Message: message}
	}

	if decodeErr != nil {
		return Acknowledgement{}, fmt.Errorf("decode contact response: %w", decodeErr)
	}
	if !payload.Success {
		return Acknowledgement{}, &APIError{Status: resp.StatusCode, Message: "submission not acknowledged"}
	}

	return Acknowledgement{ID: payload.ID, Message: c.withAlternate(SuccessMessage)}, nil
}

// UserMessage turns a Submit error into text suitable for the visitor.
// Validation problems are reported verbatim; everything else gets the
// generic failure text plus the alternate contact suggestion.
func (c *Client) UserMessage(err error) string {
	if err == nil {
		return c.withAlternate(SuccessMessage)
	}

	var rejection contactform.Rejection
	if errors.As(err, &rejection) {
		return rejection.Error()
	}

	var bounds *contactform.BoundsError
	if errors.As(err, &bounds) {
		return fmt.Sprintf("Please shorten or complete: %s", strings.Join(bounds.Fields, ", "))
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && !apiErr.Retryable() {
		return apiErr.Message
	}

	return c.withAlternate(FailureMessage)
}

func (c *Client) withAlternate(message string) string {
	if c.alternate == "" {
		return message
	}
	return fmt.Sprintf("%s You can also reach me at %s.", message, c.alternate)
}
