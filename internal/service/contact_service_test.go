package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portfolio-contact-api/internal/dto"
	"github.com/noah-isme/portfolio-contact-api/internal/models"
	"github.com/noah-isme/portfolio-contact-api/internal/repository"
	"github.com/noah-isme/portfolio-contact-api/pkg/contactform"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type callLog struct {
	calls []string
}

type contactRepoStub struct {
	log     *callLog
	created []models.ContactMessage
	err     error
}

func (c *contactRepoStub) Create(ctx context.Context, message *models.ContactMessage) error {
	c.log.calls = append(c.log.calls, "persist")
	if c.err != nil {
		return c.err
	}
	message.ID = uint(len(c.created) + 1)
	message.CreatedAt = time.Now()
	c.created = append(c.created, *message)
	return nil
}

func (c *contactRepoStub) List(ctx context.Context, filter repository.ContactFilter) ([]models.ContactMessage, int64, error) {
	return c.created, int64(len(c.created)), nil
}

func (c *contactRepoStub) GetByID(ctx context.Context, id uint) (models.ContactMessage, error) {
	return models.ContactMessage{}, errors.New("not implemented")
}

type senderStub struct {
	log  *callLog
	sent []Email
	id   string
	err  error
}

func (s *senderStub) Send(ctx context.Context, email Email) (string, error) {
	s.log.calls = append(s.log.calls, "send")
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, email)
	return s.id, nil
}

type eventStub struct {
	events []dto.ContactEvent
	err    error
}

func (e *eventStub) Publish(ctx context.Context, event dto.ContactEvent) error {
	e.events = append(e.events, event)
	return e.err
}

type contactFixture struct {
	log    *callLog
	repo   *contactRepoStub
	sender *senderStub
	events *eventStub
	svc    ContactService
}

func newContactFixture() *contactFixture {
	log := &callLog{}
	f := &contactFixture{
		log:    log,
		repo:   &contactRepoStub{log: log},
		sender: &senderStub{log: log, id: "msg_123"},
		events: &eventStub{},
	}
	composer := NewEmailComposer("Portfolio Contact <onboarding@resend.dev>", "owner@example.com")
	f.svc = NewContactService(f.repo, composer, f.sender, f.events, testLogger())
	return f
}

func validRequest() dto.ContactRequest {
	return dto.ContactRequest{Name: "Ada", Email: "ada@example.com", Message: "Hello, I would like to collaborate."}
}

func TestContactServiceSuccess(t *testing.T) {
	f := newContactFixture()

	resp, err := f.svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "msg_123", resp.ID)

	require.Equal(t, []string{"persist", "send"}, f.log.calls)
	require.Len(t, f.repo.created, 1)
	require.Nil(t, f.repo.created[0].Subject)
	require.Equal(t, "Ada", f.repo.created[0].Name)

	require.Len(t, f.sender.sent, 1)
	require.Equal(t, []string{"owner@example.com"}, f.sender.sent[0].To)
	require.Equal(t, "[Portfolio] New Message - from Ada", f.sender.sent[0].Subject)

	require.Len(t, f.events.events, 1)
	event := f.events.events[0]
	require.Equal(t, ContactEventType, event.Type)
	require.Equal(t, "msg_123", event.MessageID)
	require.Equal(t, "a***a@example.com", event.Email)
	require.True(t, event.Persisted)
}

func TestContactServiceTrimsBeforeStoring(t *testing.T) {
	f := newContactFixture()

	req := dto.ContactRequest{Name: "  Ada ", Email: " ada@example.com ", Subject: "  Collab  ", Message: "  Hello, I would like to collaborate.\n"}
	_, err := f.svc.Submit(context.Background(), req)
	require.NoError(t, err)

	stored := f.repo.created[0]
	require.Equal(t, "Ada", stored.Name)
	require.Equal(t, "ada@example.com", stored.Email)
	require.NotNil(t, stored.Subject)
	require.Equal(t, "Collab", *stored.Subject)
	require.Equal(t, "Hello, I would like to collaborate.", stored.Message)
}

func TestContactServiceRejectionsHaveNoSideEffects(t *testing.T) {
	cases := []struct {
		name string
		req  dto.ContactRequest
		want contactform.Rejection
	}{
		{name: "missing name", req: dto.ContactRequest{Name: "", Email: "a@b.com", Message: "1234567890"}, want: contactform.ErrMissingFields},
		{name: "blank message", req: dto.ContactRequest{Name: "Ada", Email: "a@b.com", Message: "   "}, want: contactform.ErrMissingFields},
		{name: "invalid email", req: dto.ContactRequest{Name: "Bob", Email: "not-an-email", Message: "1234567890"}, want: contactform.ErrInvalidEmail},
		{name: "short message", req: dto.ContactRequest{Name: "Eve", Email: "eve@x.com", Message: "short"}, want: contactform.ErrMessageTooShort},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newContactFixture()

			_, err := f.svc.Submit(context.Background(), tc.req)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.want, validationErr.Reason)
			require.ErrorIs(t, err, tc.want)
			require.Empty(t, f.log.calls)
			require.Empty(t, f.events.events)
		})
	}
}

func TestContactServicePersistenceFailureIsNotFatal(t *testing.T) {
	f := newContactFixture()
	f.repo.err = errors.New("database unavailable")

	resp, err := f.svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "msg_123", resp.ID)
	require.Equal(t, []string{"persist", "send"}, f.log.calls)
	require.False(t, f.events.events[0].Persisted)
}

func TestContactServiceDeliveryFailureIsFatal(t *testing.T) {
	f := newContactFixture()
	f.sender.err = &ProviderError{Provider: "resend", StatusCode: 422, Message: "invalid from"}

	_, err := f.svc.Submit(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrDeliveryFailed)

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	require.Equal(t, 422, providerErr.StatusCode)

	require.Equal(t, []string{"persist", "send"}, f.log.calls)
	require.Len(t, f.repo.created, 1, "row stays stored even though delivery failed")
	require.Empty(t, f.events.events)
}

func TestContactServiceEventFailureIsIgnored(t *testing.T) {
	f := newContactFixture()
	f.events.err = errors.New("broker down")

	resp, err := f.svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	require.True(t, resp.Success)
}

func TestContactServiceResubmissionIsNotDeduplicated(t *testing.T) {
	f := newContactFixture()

	for i := 0; i < 2; i++ {
		_, err := f.svc.Submit(context.Background(), validRequest())
		require.NoError(t, err)
	}

	require.Len(t, f.repo.created, 2)
	require.Len(t, f.sender.sent, 2)
	require.NotEqual(t, f.repo.created[0].ID, f.repo.created[1].ID)
}

func TestContactServicePublishesToRedis(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	ctx := context.Background()
	sub := redisClient.Subscribe(ctx, ContactEventChannel("portfolio:contact"))
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	log := &callLog{}
	repo := &contactRepoStub{log: log}
	sender := &senderStub{log: log, id: "msg_redis"}
	publisher := NewContactEventPublisher(redisClient, nil, "portfolio:contact")
	svc := NewContactService(repo, NewEmailComposer("from@example.com", "owner@example.com"), sender, publisher, testLogger())

	_, err = svc.Submit(ctx, validRequest())
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		var event dto.ContactEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		require.Equal(t, "msg_redis", event.MessageID)
		require.Equal(t, ContactEventType, event.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("expected contact event on redis channel")
	}
}

func TestContactEventPublisherWithoutBrokersIsNoop(t *testing.T) {
	publisher := NewContactEventPublisher(nil, nil, "portfolio:contact")
	require.NoError(t, publisher.Publish(context.Background(), dto.ContactEvent{Type: ContactEventType}))
	require.Equal(t, "portfolio.contact.submitted", ContactEventSubject("portfolio:contact"))
}

func TestMaskEmailAddress(t *testing.T) {
	require.Equal(t, "a***a@example.com", maskEmailAddress("Ada@example.com"))
	require.Equal(t, "b***@x.com", maskEmailAddress("bo@x.com"))
	require.Equal(t, "***", maskEmailAddress("invalid"))
	require.Equal(t, "é***ö@example.com", maskEmailAddress("éloïsö@example.com"))
	require.Equal(t, "ü***@x.com", maskEmailAddress("üb@x.com"))
	require.Empty(t, maskEmailAddress(" "))
}
