package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/portfolio-contact-api/internal/dto"
	"github.com/noah-isme/portfolio-contact-api/internal/models"
	"github.com/noah-isme/portfolio-contact-api/internal/observability"
	"github.com/noah-isme/portfolio-contact-api/internal/repository"
	"github.com/noah-isme/portfolio-contact-api/pkg/contactform"
)

// Outcome labels recorded for each submission.
const (
	outcomeRejected       = "rejected"
	outcomePersistFailed  = "persist_failed"
	outcomeDeliveryFailed = "delivery_failed"
	outcomeSent           = "sent"
)

// ErrDeliveryFailed indicates the email provider did not accept the message.
var ErrDeliveryFailed = errors.New("failed to send email")

// ValidationError carries the rule that rejected a submission.
type ValidationError struct {
	Reason contactform.Rejection
}

func (e *ValidationError) Error() string {
	return e.Reason.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// ContactService exposes the contact submission workflow.
type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (dto.ContactResponse, error)
}

type contactService struct {
	repo     repository.ContactRepository
	composer *EmailComposer
	sender   EmailSender
	events   ContactEventPublisher
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewContactService constructs the contact submission service. events may be nil.
func NewContactService(repo repository.ContactRepository, composer *EmailComposer, sender EmailSender, events ContactEventPublisher, logger zerolog.Logger) ContactService {
	if events == nil {
		events = nopEventPublisher{}
	}

	return &contactService{
		repo:     repo,
		composer: composer,
		sender:   sender,
		events:   events,
		logger:   logger.With().Str("component", "contact_service").Logger(),
		tracer:   otel.Tracer("github.com/noah-isme/portfolio-contact-api/internal/service/contact"),
		now:      time.Now,
	}
}

// Submit validates, stores and delivers one submission. Storage failures are
// logged and do not change the outcome; delivery failures are returned.
func (s *contactService) Submit(ctx context.Context, req dto.ContactRequest) (dto.ContactResponse, error) {
	ctx, span := s.tracer.Start(ctx, "contact.submit")
	defer span.End()

	submission := contactform.Normalize(req.Submission())
	if err := contactform.Validate(submission); err != nil {
		var reason contactform.Rejection
		if !errors.As(err, &reason) {
			reason = contactform.ErrMissingFields
		}
		span.SetStatus(codes.Error, "validation failed")
		span.SetAttributes(attribute.String("contact.rejection", reason.Error()))
		observability.ContactSubmissions().WithLabelValues(outcomeRejected).Inc()
		return dto.ContactResponse{}, &ValidationError{Reason: reason}
	}

	maskedEmail := maskEmailAddress(submission.Email)
	message := models.ContactMessage{
		Name:    submission.Name,
		Email:   submission.Email,
		Subject: optionalString(submission.Subject),
		Message: submission.Message,
	}

	persisted := true
	if err := s.repo.Create(ctx, &message); err != nil {
		persisted = false
		span.RecordError(err)
		span.AddEvent("persistence failed")
		observability.ContactSubmissions().WithLabelValues(outcomePersistFailed).Inc()
		s.logger.Warn().Err(err).Str("email", maskedEmail).Msg("failed to store contact message")
	}
	span.SetAttributes(attribute.Bool("contact.persisted", persisted))

	email, err := s.composer.Compose(message)
	if err != nil {
		return dto.ContactResponse{}, s.deliveryFailed(span, maskedEmail, err)
	}

	messageID, err := s.sender.Send(ctx, email)
	if err != nil {
		return dto.ContactResponse{}, s.deliveryFailed(span, maskedEmail, err)
	}

	span.SetAttributes(attribute.String("contact.message_id", messageID))
	observability.ContactSubmissions().WithLabelValues(outcomeSent).Inc()

	s.publish(ctx, dto.ContactEvent{
		Type:      ContactEventType,
		MessageID: messageID,
		RecordID:  message.ID,
		Name:      message.Name,
		Email:     maskedEmail,
		Subject:   submission.Subject,
		Persisted: persisted,
		SentAt:    s.now().UTC(),
	})

	s.logger.Info().
		Str("message_id", messageID).
		Str("email", maskedEmail).
		Bool("persisted", persisted).
		Msg("contact email sent")
	span.SetStatus(codes.Ok, "delivered")

	return dto.ContactResponse{Success: true, ID: messageID}, nil
}

func (s *contactService) deliveryFailed(span trace.Span, maskedEmail string, cause error) error {
	span.RecordError(cause)
	span.SetStatus(codes.Error, "delivery failed")
	observability.ContactSubmissions().WithLabelValues(outcomeDeliveryFailed).Inc()
	s.logger.Error().Err(cause).Str("email", maskedEmail).Msg("failed to send contact email")
	return fmt.Errorf("%w: %w", ErrDeliveryFailed, cause)
}

func (s *contactService) publish(ctx context.Context, event dto.ContactEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		observability.ContactEventFailures().Inc()
		s.logger.Warn().Err(err).Str("message_id", event.MessageID).Msg("failed to publish contact event")
	}
}
