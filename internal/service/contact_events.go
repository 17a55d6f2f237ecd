package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/portfolio-contact-api/internal/dto"
)

// ContactEventType is the event emitted after a contact email was accepted by the provider.
const ContactEventType = "contact.submitted"

// ContactEventPublisher broadcasts contact events to interested listeners.
type ContactEventPublisher interface {
	Publish(ctx context.Context, event dto.ContactEvent) error
}

type brokerEventPublisher struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
}

// NewContactEventPublisher publishes to Redis pub/sub and NATS; either client may be nil.
func NewContactEventPublisher(redisClient *redis.Client, natsConn *nats.Conn, channelBase string) ContactEventPublisher {
	channelBase = strings.TrimSpace(channelBase)
	if channelBase == "" || (redisClient == nil && natsConn == nil) {
		return nopEventPublisher{}
	}

	return &brokerEventPublisher{
		redis:        redisClient,
		redisChannel: ContactEventChannel(channelBase),
		nats:         natsConn,
		natsSubject:  ContactEventSubject(channelBase),
	}
}

// ContactEventChannel returns the Redis channel used for a channel base.
func ContactEventChannel(channelBase string) string {
	return channelBase + ":submitted"
}

// ContactEventSubject returns the NATS subject used for a channel base.
func ContactEventSubject(channelBase string) string {
	return strings.ReplaceAll(channelBase, ":", ".") + ".submitted"
}

func (p *brokerEventPublisher) Publish(ctx context.Context, event dto.ContactEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var errs []error
	if p.redis != nil {
		if err := p.redis.Publish(ctx, p.redisChannel, payload).Err(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.nats != nil {
		if err := p.nats.Publish(p.natsSubject, payload); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

type nopEventPublisher struct{}

func (nopEventPublisher) Publish(context.Context, dto.ContactEvent) error { return nil }
